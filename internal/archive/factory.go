package archive

import (
	"context"
	"fmt"

	"cobot-go/internal/config"
)

// NewArchiverFromConfig creates an Archiver based on the archive config
// type, wrapped with age encryption when a recipient is configured.
func NewArchiverFromConfig(ctx context.Context, cfg config.ArchiveConfig) (Archiver, error) {
	var (
		inner Archiver
		err   error
	)
	switch cfg.Type {
	case "memory":
		inner = NewMemoryArchiver()
	case "s3":
		inner, err = NewS3Archiver(ctx, cfg)
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem archive requires fs_root to be set")
		}
		inner, err = NewFileSystemArchiver(cfg.FSRoot)
	case "":
		return nil, fmt.Errorf("no archive backend configured")
	default:
		return nil, fmt.Errorf("unknown archive type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	if cfg.AgeRecipient != "" {
		return NewEncryptingArchiver(inner, cfg.AgeRecipient)
	}
	return inner, nil
}
