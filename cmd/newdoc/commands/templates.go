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

package commands

import (
	"encoding/json"
	"path/filepath"

	"github.com/kemenaran/newdocumentplugin/cmd/newdoc/opts"
	"github.com/kemenaran/newdocumentplugin/pkg/bundle"
	"github.com/kemenaran/newdocumentplugin/pkg/config"
	"github.com/kemenaran/newdocumentplugin/pkg/log"
	"github.com/kemenaran/newdocumentplugin/pkg/plugin"
	"github.com/kemenaran/newdocumentplugin/pkg/provider"
	_ "github.com/kemenaran/newdocumentplugin/pkg/provider/github"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// NewTemplatesCmd creates the templates command group
func NewTemplatesCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage the bundled templates",
	}

	cmd.AddCommand(
		newTemplatesListCmd(o),
		newTemplatesPullCmd(o),
	)

	return cmd
}

func newTemplatesListCmd(o *opts.RootOpts) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates with their command ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withHost(ctx, o, func(host *plugin.Host) error {
				templates, err := host.Templates(ctx)
				if err != nil {
					return err
				}

				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(templates)
				}

				if len(templates) == 0 {
					o.Console.Warningf("no templates in %s", o.Config.Bundle)
					return nil
				}
				o.Console.Infof("%d templates in %s", len(templates), o.Config.Bundle)
				for i, t := range templates {
					o.Console.MenuItem(i, t.Name)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print templates as JSON")

	return cmd
}

func newTemplatesPullCmd(o *opts.RootOpts) *cobra.Command {
	var args config.SourceArgs

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Download templates from a remote repository",
		Long: `Pull copies every file below a repository path into the bundle's
templates directory. Files matching the ignore patterns are skipped.
Without flags the source configured in the config file is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			src, err := pullSource(o.Config, args)
			if err != nil {
				return err
			}

			b, err := bundle.Open(ctx, o.FS, o.Config.Bundle, bundle.Options{Language: o.Config.Language})
			if err != nil {
				return errors.Errorf("opening bundle, run \"newdoc init\" first: %w", err)
			}

			p, err := provider.Get(ctx, src.Provider)
			if err != nil {
				return err
			}

			res, err := provider.Pull(ctx, p, src, o.FS, b.TemplatesDir(), o.Config.IgnorePatterns)
			if err != nil {
				return errors.Errorf("pulling templates: %w", err)
			}

			for _, f := range res.Files {
				o.UserLogger.LogDocumentChange(log.DocumentChange{
					Type:        log.TemplatePulled,
					Path:        filepath.Join(b.TemplatesDir(), filepath.FromSlash(f)),
					Description: res.Source,
				})
			}
			for _, f := range res.Skipped {
				o.UserLogger.LogDocumentChange(log.DocumentChange{
					Type:        log.DocumentSkipped,
					Path:        f,
					Description: "ignored",
				})
			}
			o.UserLogger.LogValidation(true, "Templates pulled from "+res.Source, nil)
			return nil
		},
	}

	cmd.Flags().StringVar(&args.Repo, "repo", "", "repository, e.g. github.com/org/templates")
	cmd.Flags().StringVar(&args.Ref, "ref", "", "branch or tag (default \""+config.DefaultRef+"\")")
	cmd.Flags().StringVar(&args.Path, "path", "", "directory within the repository")
	cmd.Flags().StringVar(&args.Provider, "provider", "", "provider name (default \"github\")")

	return cmd
}

// pullSource merges the flag source over the configured one and fills defaults
func pullSource(cfg *config.Config, flags config.SourceArgs) (config.SourceArgs, error) {
	var src config.SourceArgs
	if cfg.Source != nil {
		src = *cfg.Source
	}
	if flags.Repo != "" {
		src = flags
	}
	if src.Repo == "" {
		return src, errors.New("no template source: pass --repo or set source in the config file")
	}

	// reuse config validation for defaults and path cleanup
	merged := &config.Config{Source: &src}
	if err := merged.Validate(); err != nil {
		return src, errors.Errorf("validating source: %w", err)
	}
	return *merged.Source, nil
}
