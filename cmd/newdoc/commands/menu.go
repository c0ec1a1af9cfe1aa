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

	"github.com/kemenaran/newdocumentplugin/cmd/newdoc/opts"
	"github.com/kemenaran/newdocumentplugin/pkg/log"
	"github.com/kemenaran/newdocumentplugin/pkg/plugin"
	"github.com/spf13/cobra"
)

// NewMenuCmd creates the menu command
func NewMenuCmd(o *opts.RootOpts) *cobra.Command {
	var (
		asJSON bool
		asTree bool
	)

	cmd := &cobra.Command{
		Use:   "menu [folder]",
		Short: "Show the New Document submenu for a folder",
		Long: `Menu prints the submenu a contextual click on the folder would show:
one localized entry per template with its command id. Nothing is shown
when the selection is not a single folder or there are no templates.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			sel, err := folderSelection(dir)
			if err != nil {
				return err
			}

			return withHost(ctx, o, func(host *plugin.Host) error {
				menu, err := host.ExamineContext(ctx, sel)
				if err != nil {
					return err
				}
				defer host.PostMenuCleanup(ctx)

				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(menu)
				}

				if menu == nil {
					o.Console.Warningf("no menu for %s: not a single folder, or no templates", sel[0])
					return nil
				}

				if asTree {
					captions := make([]string, len(menu.Items))
					for i, item := range menu.Items {
						captions[i] = item.Title
					}
					o.UserLogger.LogSubmenu(menu.Title, captions)
					return nil
				}

				o.Console.StartMenuOperation(ctx, log.MenuOperation{
					Title:     menu.Title,
					Directory: sel[0],
					Items:     len(menu.Items),
				})
				for _, item := range menu.Items {
					o.Console.MenuItem(item.CommandID, item.Title)
				}
				o.Console.EndMenuOperation(ctx)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the menu as JSON")
	cmd.Flags().BoolVar(&asTree, "tree", false, "render the menu as a tree")

	return cmd
}
