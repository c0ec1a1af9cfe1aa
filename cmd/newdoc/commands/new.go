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
	"path/filepath"

	"github.com/kemenaran/newdocumentplugin/cmd/newdoc/opts"
	"github.com/kemenaran/newdocumentplugin/pkg/copier"
	"github.com/kemenaran/newdocumentplugin/pkg/log"
	"github.com/kemenaran/newdocumentplugin/pkg/plugin"
	"github.com/kemenaran/newdocumentplugin/pkg/status"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// NewNewCmd creates the new command
func NewNewCmd(o *opts.RootOpts) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "new <template>...",
		Short: "Create documents from templates",
		Long: `New creates one document per template in the folder, as if the template
had been picked from the submenu. A template is named by its command id
(see "newdoc menu") or by its filename.

Each document gets a localized name, numbered when the folder already
holds one with that name. Copies run one after the other.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sel, err := folderSelection(dir)
			if err != nil {
				return err
			}

			o.Console.Header("creating documents in " + sel[0])

			return withHost(ctx, o, func(host *plugin.Host) error {
				// one entry per scheduled copy, in tracker order
				var renamed []bool
				for _, ref := range args {
					id, err := resolveCommandID(ctx, host, ref)
					if err != nil {
						return err
					}
					desired, err := host.DocumentName(ctx, id)
					if err != nil {
						return err
					}

					task, err := host.HandleSelectionWithCallback(ctx, sel, id, func(t *copier.Task) {
						change := log.DocumentChange{Type: log.DocumentCreated, Path: t.Path()}
						if err := t.Result(); err != nil {
							change.Type = log.DocumentFailed
							change.Error = err
						}
						o.UserLogger.LogDocumentChange(change)
					})
					if err != nil {
						return err
					}
					if task == nil {
						return errors.Errorf("%s is not a folder", sel[0])
					}

					renamed = append(renamed, task.DestName != desired)
					o.UserLogger.LogDocumentChange(log.DocumentChange{
						Type:        log.DocumentScheduled,
						Path:        task.Path(),
						Description: filepath.Base(task.Source),
					})

					// completions are delivered while the loop runs
					if err := host.Loop().RunUntil(ctx, task.Done()); err != nil {
						return err
					}
				}

				return summarize(cmd, o, host, renamed)
			})
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "C", "", "folder to create documents in (default is the working directory)")

	return cmd
}

// summarize prints one line per document and fails if any copy failed.
// renamed[i] tells whether the i-th document had to be numbered.
func summarize(cmd *cobra.Command, o *opts.RootOpts, host *plugin.Host, renamed []bool) error {
	ctx := cmd.Context()

	tracker, err := host.Tracker()
	if err != nil {
		return err
	}

	o.Console.LogNewline()
	var failed error
	entries := tracker.List(ctx)
	for i, entry := range entries {
		o.Console.LogDocumentOperation(ctx, log.DocumentOperation{
			Name:      filepath.Base(entry.Path),
			Template:  filepath.Base(entry.Source),
			Directory: filepath.Dir(entry.Path),
			Status:    entry.Disposition.String(),
			IsNew:     entry.Disposition == status.Succeeded,
			IsPending: entry.Disposition == status.Pending,
			IsFailed:  entry.Disposition == status.Failed,
			Renamed:   i < len(renamed) && renamed[i],
		})
		if entry.Error != nil && failed == nil {
			failed = entry.Error
		}
	}

	counts := tracker.Counts(ctx)
	if n := counts[status.Pending]; n > 0 {
		o.Console.Warningf("%d documents still copying", n)
	}
	if n := counts[status.Failed]; n > 0 {
		o.Console.Errorf("%d of %d documents failed", n, len(entries))
		return errors.Errorf("%d of %d documents failed: %w", n, len(entries), failed)
	}
	o.Console.Successf("%d documents created", counts[status.Succeeded])
	return nil
}
