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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_yaml",
			file: "config.yaml",
			config: `
bundle: /opt/newdoc/NewDocument.bundle
language: fr
uniqueness_bound: 50
ignore_patterns:
  - ".*"
  - "**/*.bak"
show_extension: true
overwrite: true
source:
  repo: github.com/kemenaran/templates
  path: /docs/templates/
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/opt/newdoc/NewDocument.bundle", cfg.Bundle, "bundle should match")
				assert.Equal(t, "fr", cfg.Language, "language should match")
				assert.Equal(t, 50, cfg.UniquenessBound, "bound should match")
				assert.Equal(t, []string{".*", "**/*.bak"}, cfg.IgnorePatterns, "patterns should match")
				assert.True(t, cfg.ShowExtension, "show_extension should be true")
				assert.False(t, cfg.SkipRename, "skip_rename should default to false")
				assert.True(t, cfg.Overwrite, "overwrite should be true")
				require.NotNil(t, cfg.Source, "source should be set")
				assert.Equal(t, "github", cfg.Source.Provider, "provider should default to github")
				assert.Equal(t, "main", cfg.Source.Ref, "ref should default to main")
				assert.Equal(t, "docs/templates", cfg.Source.Path, "path should be cleaned")
			},
		},
		{
			name:   "empty_yaml_uses_defaults",
			file:   "config.yml",
			config: ``,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultBundlePath(), cfg.Bundle, "bundle should default")
				assert.Equal(t, DefaultUniquenessBound, cfg.UniquenessBound, "bound should default")
				assert.Equal(t, []string{".*"}, cfg.IgnorePatterns, "patterns should default")
				assert.Nil(t, cfg.Source, "source should be nil")
			},
		},
		{
			name: "valid_json",
			file: "config.json",
			config: `{
				"bundle": "/tmp/NewDocument.bundle",
				"skip_rename": true
			}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/tmp/NewDocument.bundle", cfg.Bundle, "bundle should match")
				assert.True(t, cfg.SkipRename, "skip_rename should be true")
			},
		},
		{
			name: "valid_hcl",
			file: "config.hcl",
			config: `
bundle           = "/tmp/NewDocument.bundle"
uniqueness_bound = default_bound
ignore_patterns  = [".*", "*.tmp"]

source {
  repo = "github.com/kemenaran/templates"
  ref  = "v1"
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/tmp/NewDocument.bundle", cfg.Bundle, "bundle should match")
				assert.Equal(t, DefaultUniquenessBound, cfg.UniquenessBound, "bound should come from variable")
				assert.Equal(t, []string{".*", "*.tmp"}, cfg.IgnorePatterns, "patterns should match")
				require.NotNil(t, cfg.Source, "source should be set")
				assert.Equal(t, "v1", cfg.Source.Ref, "ref should match")
			},
		},
		{
			name:        "unknown_yaml_field",
			file:        "config.yaml",
			config:      "destination: /tmp\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			file:        "config.json",
			config:      `{"async": true}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "bound_too_small",
			file:        "config.yaml",
			config:      "uniqueness_bound: 1\n",
			wantErr:     true,
			errContains: "uniqueness_bound must be at least 2",
		},
		{
			name:        "invalid_pattern",
			file:        "config.yaml",
			config:      "ignore_patterns: [\"[\"]\n",
			wantErr:     true,
			errContains: "invalid ignore pattern",
		},
		{
			name: "missing_source_repo",
			file: "config.yaml",
			config: `
source:
  path: templates
`,
			wantErr:     true,
			errContains: "source.repo is required",
		},
		{
			name:        "unsupported_extension",
			file:        "config.toml",
			config:      "bundle = 'x'\n",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, tt.file)
			err := os.WriteFile(configPath, []byte(tt.config), 0644)
			require.NoError(t, err, "writing config file should succeed")

			cfg, err := Load(ctx, configPath)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	cfg, err := LoadOrDefault(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err, "missing file should not be an error")
	assert.Equal(t, Default(), cfg, "missing file should yield defaults")
}

func TestConfigString(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{
			name: "with_language",
			cfg:  &Config{Bundle: "/b", Language: "fr", UniquenessBound: 10},
			want: "/b [fr] bound=10",
		},
		{
			name: "auto_language",
			cfg:  &Config{Bundle: "/b", UniquenessBound: 1000},
			want: "/b [auto] bound=1000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.String(), "String() should match")
		})
	}
}
