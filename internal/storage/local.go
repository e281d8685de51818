package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Local writes photos to a directory served back as static files.
type Local struct {
	dir     string
	baseURL string
	log     *zerolog.Logger
}

func NewLocal(cfg Config, log *zerolog.Logger) (*Local, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("storage dir cannot be empty")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &Local{
		dir:     cfg.Dir,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		log:     log,
	}, nil
}

func (l *Local) SavePhoto(_ context.Context, payload string) (string, error) {
	encoded, ext := splitDataURI(payload)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode photo payload: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty photo payload")
	}

	name := uuid.New().String() + ext
	path := filepath.Join(l.dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write photo %s: %w", name, err)
	}

	l.log.Debug().Str("file", name).Int("bytes", len(raw)).Msg("photo stored")
	return l.baseURL + "/" + name, nil
}

// splitDataURI strips an optional "data:image/...;base64," prefix and picks
// a file extension from the MIME type, defaulting to .png like the original
// upload path did for bare base64 content.
func splitDataURI(payload string) (encoded, ext string) {
	ext = ".png"
	if !strings.HasPrefix(payload, "data:") {
		return payload, ext
	}

	head, rest, ok := strings.Cut(payload, ",")
	if !ok {
		return payload, ext
	}
	switch {
	case strings.Contains(head, "image/jpeg"), strings.Contains(head, "image/jpg"):
		ext = ".jpg"
	case strings.Contains(head, "image/webp"):
		ext = ".webp"
	}
	return rest, ext
}
