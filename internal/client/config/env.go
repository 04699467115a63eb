package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays TODO_* environment variables onto cfg. Unset variables
// keep their current values.
func parseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
