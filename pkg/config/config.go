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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// AppName names the XDG sub-directories used by newdoc
	AppName = "newdoc"
	// DefaultBundleName is the directory name of the default resource bundle
	DefaultBundleName = "NewDocument.bundle"
	// DefaultUniquenessBound is the exclusive upper bound of the name counter
	DefaultUniquenessBound = 1000
	// DefaultRef is used when a template source does not name one
	DefaultRef = "main"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📦 SourceArgs points at a remote repository holding templates
type SourceArgs struct {
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"` // Provider name, github by default
	Repo     string `json:"repo" yaml:"repo"`                             // Full repo name (e.g. github.com/org/repo)
	Ref      string `json:"ref,omitempty" yaml:"ref,omitempty"`           // Branch or tag
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`         // Directory within the repo
}

// 📚 Config represents the complete configuration
type Config struct {
	Bundle          string      `json:"bundle,omitempty" yaml:"bundle,omitempty"`
	Language        string      `json:"language,omitempty" yaml:"language,omitempty"`
	UniquenessBound int         `json:"uniqueness_bound,omitempty" yaml:"uniqueness_bound,omitempty"`
	IgnorePatterns  []string    `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty"`
	ShowExtension   bool        `json:"show_extension,omitempty" yaml:"show_extension,omitempty"`
	SkipRename      bool        `json:"skip_rename,omitempty" yaml:"skip_rename,omitempty"`
	Overwrite       bool        `json:"overwrite,omitempty" yaml:"overwrite,omitempty"`
	Source          *SourceArgs `json:"source,omitempty" yaml:"source,omitempty"`
}

// 🏭 Default returns the configuration used when no file exists
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// 📍 DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// 📍 DefaultBundlePath returns the default bundle location
func DefaultBundlePath() string {
	return filepath.Join(xdg.DataHome, AppName, DefaultBundleName)
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🎯 LoadOrDefault loads the file at path, or returns defaults when it does not exist
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no configuration file, using defaults")
		return Default(), nil
	}
	return Load(ctx, path)
}

// 🔍 Validate checks if the configuration is valid and fills in defaults
func (cfg *Config) Validate() error {
	if cfg.UniquenessBound < 0 || cfg.UniquenessBound == 1 {
		return errors.Errorf("uniqueness_bound must be at least 2, got %d", cfg.UniquenessBound)
	}
	for _, pattern := range cfg.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern: %q", pattern)
		}
	}
	if cfg.Source != nil {
		if cfg.Source.Repo == "" {
			return errors.Errorf("source.repo is required")
		}
		if cfg.Source.Provider == "" {
			cfg.Source.Provider = "github"
		}
		if cfg.Source.Ref == "" {
			cfg.Source.Ref = DefaultRef
		}
		if cfg.Source.Path != "" {
			cfg.Source.Path = strings.Trim(filepath.ToSlash(filepath.Clean(cfg.Source.Path)), "/")
		}
	}

	// Set defaults
	if cfg.Bundle == "" {
		cfg.Bundle = DefaultBundlePath()
	}
	cfg.Bundle = filepath.Clean(cfg.Bundle)
	if cfg.UniquenessBound == 0 {
		cfg.UniquenessBound = DefaultUniquenessBound
	}
	if cfg.IgnorePatterns == nil {
		cfg.IgnorePatterns = []string{".*"}
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	lang := cfg.Language
	if lang == "" {
		lang = "auto"
	}
	return fmt.Sprintf("%s [%s] bound=%d", cfg.Bundle, lang, cfg.UniquenessBound)
}
