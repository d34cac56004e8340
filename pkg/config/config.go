// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/serverclone/pkg/pipeline"
	"gitlab.com/tozd/go/errors"
)

// 📚 Config represents the complete configuration of a clone run
type Config struct {
	Game   string   `json:"game" yaml:"game" hcl:"game,optional"`                           // Local game install
	Server string   `json:"server" yaml:"server" hcl:"server,optional"`                     // Existing server directory
	Output string   `json:"output" yaml:"output" hcl:"output,optional"`                     // New server directory
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty" hcl:"ignore,optional"` // Extra patterns skipped when cloning the server

	location string
}

// 📍 Location returns the file the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔀 Merge overrides fields of cfg with the non-empty fields of other
func (cfg *Config) Merge(other Config) {
	if other.Game != "" {
		cfg.Game = other.Game
	}
	if other.Server != "" {
		cfg.Server = other.Server
	}
	if other.Output != "" {
		cfg.Output = other.Output
	}
	if len(other.Ignore) > 0 {
		cfg.Ignore = append([]string(nil), other.Ignore...)
	}
}

// 🔍 Validate checks the configuration and normalizes every directory to a
// clean absolute path.
func Validate(ctx context.Context, cfg *Config) error {
	logger := zerolog.Ctx(ctx)

	if cfg.Game == "" {
		return errors.Errorf("game directory is required")
	}
	if cfg.Server == "" {
		return errors.Errorf("server directory is required")
	}
	if cfg.Output == "" {
		return errors.Errorf("output directory is required")
	}

	for _, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	for _, dir := range []*string{&cfg.Game, &cfg.Server, &cfg.Output} {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return errors.Errorf("resolving %s: %w", *dir, err)
		}
		*dir = filepath.Clean(abs)
	}

	if cfg.Output == cfg.Server {
		return errors.Errorf("output directory must differ from the server directory")
	}
	if cfg.Output == cfg.Game {
		return errors.Errorf("output directory must differ from the game directory")
	}

	logger.Debug().
		Str("game", cfg.Game).
		Str("server", cfg.Server).
		Str("output", cfg.Output).
		Msg("validated config")

	return nil
}

// 🎯 Pipeline returns the pipeline configuration for a validated config
func (cfg *Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		GameDir:   cfg.Game,
		ServerDir: cfg.Server,
		OutputDir: cfg.Output,
		Ignore:    append([]string(nil), cfg.Ignore...),
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return cfg.Game + " + " + cfg.Server + " -> " + cfg.Output
}
