package generate

import (
	"fmt"

	"quire/internal/config"
	"quire/internal/quire"
)

// NewGeneratorFromConfig returns nil with no error for type "none", which
// leaves generation disabled.
func NewGeneratorFromConfig(cfg config.GeneratorConfig, logger quire.Logger) (quire.Generator, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "openai":
		opts := Options{
			BaseURL:        cfg.BaseURL,
			Model:          cfg.Model,
			APIKeyEnv:      cfg.APIKeyEnv,
			TimeoutSeconds: cfg.TimeoutSeconds,
			MaxRetries:     cfg.MaxRetries,
		}
		if cfg.Temperature != 0 {
			temp := cfg.Temperature
			opts.Temperature = &temp
		}
		client, err := New(opts, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown generator type: %s", cfg.Type)
	}
}
