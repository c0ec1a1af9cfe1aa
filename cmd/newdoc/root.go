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

package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/kemenaran/newdocumentplugin/cmd/newdoc/commands"
	"github.com/kemenaran/newdocumentplugin/cmd/newdoc/opts"
	"github.com/kemenaran/newdocumentplugin/pkg/config"
	"github.com/kemenaran/newdocumentplugin/pkg/log"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile   string
	bundlePath   string
	language     string
	debugLogging bool
)

// newRootOpts creates the shared options, config is loaded before each command
func newRootOpts(ctx context.Context) *opts.RootOpts {
	return &opts.RootOpts{
		UserLogger: log.NewUserLogger(ctx),
		Console:    log.New(os.Stdout, zerolog.InfoLevel),
		FS:         afero.NewOsFs(),
	}
}

// newRootCmd builds the command tree
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "newdoc",
		Short: "Create new documents from templates",
		Long: `newdoc adds a "New Document" menu to folders: pick a template and a
copy is created next to your files under a fresh, localized name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			applyLogLevel()
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			o.Config = cfg
			return nil
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewMenuCmd(o),
		commands.NewNewCmd(o),
		commands.NewTemplatesCmd(o),
		commands.NewInitCmd(o),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath(), "config file path")
	cmd.PersistentFlags().StringVarP(&bundlePath, "bundle", "b", "", "resource bundle path, overrides the config file")
	cmd.PersistentFlags().StringVarP(&language, "language", "l", "", "localization language, overrides the config file")
	cmd.PersistentFlags().BoolVarP(&debugLogging, "debug", "d", false, "enable debug logging")
}

// loadConfig reads the config file, falling back to defaults, and applies flag overrides
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(ctx, configFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	applyOverrides(cfg)
	return cfg, nil
}

func applyOverrides(cfg *config.Config) {
	if bundlePath != "" {
		cfg.Bundle = filepath.Clean(bundlePath)
	}
	if language != "" {
		cfg.Language = language
	}
}

// setupLogging returns a context carrying the diagnostic logger
func setupLogging(ctx context.Context) context.Context {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	applyLogLevel()
	return logger.WithContext(ctx)
}

// applyLogLevel configures zerolog based on flags
func applyLogLevel() {
	if debugLogging {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}
