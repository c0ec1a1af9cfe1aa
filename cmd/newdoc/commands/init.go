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
	"github.com/kemenaran/newdocumentplugin/cmd/newdoc/opts"
	"github.com/kemenaran/newdocumentplugin/pkg/bundle"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// NewInitCmd creates the init command
func NewInitCmd(o *opts.RootOpts) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Install the starter resource bundle",
		Long: `Init writes the built-in bundle (templates, localizations and automation
scripts) to the configured bundle path. An existing bundle is left alone
unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := bundle.Install(ctx, o.FS, o.Config.Bundle, force); err != nil {
				if errors.Is(err, bundle.ErrBundleExists) {
					o.UserLogger.LogValidation(false, "Bundle already installed at "+o.Config.Bundle+", use --force to overwrite", nil)
					return nil
				}
				return err
			}

			o.UserLogger.LogValidation(true, "Bundle installed at "+o.Config.Bundle, nil)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing bundle")

	return cmd
}
