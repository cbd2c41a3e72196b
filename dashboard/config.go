// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of the environment variables read by LoadConfig.
const EnvPrefix = "MAPA"

// Config holds the dashboard process settings.
type Config struct {
	Addr           string `envconfig:"ADDR" default:"localhost:8080"`
	Reference      string `envconfig:"REFERENCE"` // reference tables file; embedded Medellín tables when empty
	Seed           uint64 `envconfig:"SEED"`      // jitter seed; random when zero
	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
}

// LoadConfig reads the configuration from MAPA_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config from env: %w", err)
	}

	if cfg.MaxUploadBytes <= 0 {
		return Config{}, fmt.Errorf("%s_MAX_UPLOAD_BYTES must be positive, got %d", EnvPrefix, cfg.MaxUploadBytes)
	}

	return cfg, nil
}
