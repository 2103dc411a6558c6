package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if CAPSIGHT_CONFIG is set
//  3. env (prefix CAPSIGHT_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("CAPSIGHT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: CAPSIGHT_ADDR, CAPSIGHT_NOTES_DIR, ...
	// Map env keys like CAPSIGHT_NOTES_DIR -> notes_dir (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("CAPSIGHT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "capsight_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	}
	if cfg.Watch && cfg.DatasetPath == "" {
		return nil, fmt.Errorf("%w: watch requires dataset_path", ErrInvalidConfig)
	}
	return &cfg, nil
}
