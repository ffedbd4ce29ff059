package pending

import (
	"fmt"

	"terapias-go/internal/config"
	"terapias-go/internal/organizer"
)

// NewStoreFromConfig creates a PendingStore implementation based on the config type.
func NewStoreFromConfig(cfg config.PendingConfig) (organizer.PendingStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem", "":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("filesystem pending store requires dir to be set")
		}
		return NewFileSystemStore(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown pending store type: %s", cfg.Type)
	}
}
