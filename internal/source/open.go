package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/thisdougb/healthview/internal/config"
)

// Kind names a source adapter.
type Kind string

const (
	KindOffline Kind = "offline"
	KindSQLite  Kind = "sqlite"
	KindFile    Kind = "file"
	KindMemory  Kind = "memory"
)

// Config selects and configures a source adapter.
type Config struct {
	Kind       Kind
	DBPath     string
	ExportPath string
	ReadOnly   bool
}

// LoadConfig loads source configuration from environment variables.
// The SQLite export is always opened read-only.
func LoadConfig() Config {
	return Config{
		Kind:       Kind(config.StringValue("HEALTHVIEW_SOURCE")),
		DBPath:     config.StringValue("HEALTHVIEW_DB_PATH"),
		ExportPath: config.StringValue("HEALTHVIEW_EXPORT_PATH"),
		ReadOnly:   true,
	}
}

// Open creates the configured source. KindOffline has no source and
// returns nil.
func Open(cfg Config) (Source, error) {
	switch cfg.Kind {
	case KindOffline, "":
		return nil, nil
	case KindMemory:
		return NewMemorySource(), nil
	case KindFile:
		src, err := LoadFile(cfg.ExportPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load file source: %w", err)
		}
		config.LogInfo(context.Background(), "loaded health export", zap.String("path", src.Path()))
		return src, nil
	case KindSQLite:
		src, err := NewSQLiteSource(SQLiteConfig{
			DBPath:   cfg.DBPath,
			ReadOnly: cfg.ReadOnly,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite source: %w", err)
		}
		return src, nil
	}
	return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
}
