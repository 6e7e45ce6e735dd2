// Package storage selects the export sink named in configuration.
package storage

import (
	"context"
	"fmt"

	"legalextract/internal/config"
	"legalextract/internal/port"
	"legalextract/internal/storage/local"
	s3storage "legalextract/internal/storage/s3"
)

// New returns the object storage for cfg.Export.Sink, or nil for "none".
func New(ctx context.Context, cfg *config.Config) (port.ObjectStorage, error) {
	switch cfg.Export.Sink {
	case "", "none":
		return nil, nil
	case "local":
		st, err := local.NewStorage(cfg.Export.LocalDir)
		if err != nil {
			return nil, fmt.Errorf("initializing local export dir: %w", err)
		}
		return st, nil
	case "s3":
		st, err := s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("initializing S3 client: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown export sink %q", cfg.Export.Sink)
	}
}
