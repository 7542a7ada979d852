package manifest

import (
	"fmt"

	"trk-go/internal/config"
)

// NewStoreFromConfig creates a manifest store based on the config type.
func NewStoreFromConfig(cfg config.ManifestConfig) (Store, error) {
	switch cfg.Type {
	case "filesystem", "":
		return NewFileStore(), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown manifest store type: %s", cfg.Type)
	}
}
