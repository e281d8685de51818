package storage

import "context"

// PhotoStore persists submitted selfies and hands back a public URL for wall
// and admin display. Implementations may target local disk or a hosted
// image service.
type PhotoStore interface {
	// SavePhoto stores an inline image payload. The payload is either raw
	// base64 or a full data URI ("data:image/png;base64,....").
	SavePhoto(ctx context.Context, payload string) (string, error)
}

// Config holds photo storage settings.
type Config struct {
	Dir     string // directory photos are written to
	BaseURL string // public prefix the stored files are served under
}
