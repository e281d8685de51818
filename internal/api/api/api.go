package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"greenpledge/cmd/middleware"
	"greenpledge/internal/service"
)

type Routers struct {
	Service service.Service
	// AdminToken is the bearer credential for the admin endpoints. There is
	// no built-in fallback: when empty, the admin routes are not registered
	// at all.
	AdminToken string
	// UploadsDir is served under /uploads for stored selfies.
	UploadsDir string
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())

	apiGroup := app.Group("/api")
	apiGroup.POST("/submit", r.Service.Submit)
	apiGroup.GET("/pledges", r.Service.Wall)

	if r.AdminToken != "" {
		adminGroup := app.Group("/api")
		adminGroup.Use(middleware.AdminAuth(r.AdminToken))
		adminGroup.GET("/admin-stats", r.Service.AdminStats)
		adminGroup.GET("/admin-stats/export", r.Service.ExportCSV)
	}

	app.GET("/", func(c *ginext.Context) {
		c.File("./frontend/index.html")
	})
	app.GET("/wall", func(c *ginext.Context) {
		c.File("./frontend/wall.html")
	})
	app.GET("/adm", func(c *ginext.Context) {
		c.File("./frontend/adm.html")
	})
	app.Static("/frontend", "./frontend")
	if r.UploadsDir != "" {
		app.Static("/uploads", r.UploadsDir)
	}

	return app
}
