package buildCFG

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"

	"greenpledge/internal/mailer"
	"greenpledge/internal/service"
	"greenpledge/internal/storage"
)

type ServerConfig struct {
	Port string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

type AdminConfig struct {
	Token string
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, defaulting to 8080")
	}
	return ServerConfig{Port: port}
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("database.master_dsn")
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		masterDSN = v
	}
	if masterDSN == "" {
		return "", nil, nil, fmt.Errorf("database.master_dsn is required")
	}

	slaveDSNs := cfg.GetStringSlice("database.slave_dsns")

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("database.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: time.Duration(cfg.GetInt("database.conn_max_lifetime_seconds")) * time.Second,
	}

	log.Info().Int("slaves", len(slaveDSNs)).Msg("database configuration loaded")
	return masterDSN, slaveDSNs, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if rc.Url == "" {
		return rc, fmt.Errorf("rabbit.url is required")
	}
	if rc.Exchange == "" || rc.Queue == "" {
		return rc, fmt.Errorf("rabbit.exchange and rabbit.queue are required")
	}
	log.Info().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("rabbit configuration loaded")
	return rc, nil
}

func BuildStorageConfig(cfg *config.Config, log *zerolog.Logger) storage.Config {
	sc := storage.Config{
		Dir:     cfg.GetString("storage.dir"),
		BaseURL: cfg.GetString("storage.base_url"),
	}
	if sc.Dir == "" {
		sc.Dir = "./uploads"
		log.Warn().Msg("storage.dir not set, defaulting to ./uploads")
	}
	return sc
}

// BuildAdminConfig resolves the admin bearer credential. There is no
// development default: an empty token means the admin endpoints stay off.
func BuildAdminConfig(cfg *config.Config, log *zerolog.Logger) AdminConfig {
	token := cfg.GetString("admin.token")
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		token = v
	}
	if token == "" {
		log.Warn().Msg("no admin token configured, admin endpoints disabled")
	}
	return AdminConfig{Token: token}
}

func BuildMailerConfig(cfg *config.Config, log *zerolog.Logger) mailer.Config {
	mc := mailer.Config{
		APIKey:       os.Getenv("SENDGRID_API_KEY"),
		From:         cfg.GetString("mailer.from"),
		FromName:     cfg.GetString("mailer.from_name"),
		TemplatePath: cfg.GetString("mailer.template"),
	}
	if mc.APIKey == "" {
		log.Warn().Msg("SENDGRID_API_KEY not set, thank-you emails will fail")
	}
	return mc
}

func BuildFormPolicy(cfg *config.Config, _ *zerolog.Logger) service.FormPolicy {
	return service.FormPolicy{
		RequirePhone:   cfg.GetBool("form.require_phone"),
		RequireCountry: cfg.GetBool("form.require_country"),
	}
}
