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

package plugin

import (
	"context"
	"sync"

	"github.com/kemenaran/newdocumentplugin/pkg/automation"
	"github.com/kemenaran/newdocumentplugin/pkg/bundle"
	"github.com/kemenaran/newdocumentplugin/pkg/catalog"
	"github.com/kemenaran/newdocumentplugin/pkg/config"
	"github.com/kemenaran/newdocumentplugin/pkg/copier"
	"github.com/kemenaran/newdocumentplugin/pkg/naming"
	"github.com/kemenaran/newdocumentplugin/pkg/runloop"
	"github.com/kemenaran/newdocumentplugin/pkg/status"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// ErrNotInitialized is returned by entry points called outside the
// Initialize/Shutdown window.
var ErrNotInitialized = errors.Base("plugin is not initialized")

// 🔧 Options contains configuration for the host
type Options struct {
	// Config is the tool configuration. Defaults are used when nil.
	Config *config.Config
	// FS holds the bundle and the destination folders
	FS afero.Fs
	// Loop receives copy completions
	Loop *runloop.Loop
	// Runner executes automation scripts, osascript when nil
	Runner automation.Runner
	// Formatter renders copy dispositions
	Formatter status.Formatter
}

// 🏠 Host is the process-scoped plugin instance. Its bundle, automation
// bridge and copies live between Initialize and Shutdown.
type Host struct {
	opts Options

	mu          sync.Mutex
	refs        int
	initialized bool
	bundle      *bundle.Bundle
	bridge      *automation.Bridge
	copier      *copier.Orchestrator
	catalog     *catalog.Catalog
	engine      *naming.Engine
}

// 🏭 NewHost creates an uninitialized host
func NewHost(opts Options) *Host {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.Loop == nil {
		opts.Loop = runloop.New()
	}
	return &Host{opts: opts}
}

// 🚀 Initialize opens the bundle and the automation bridge. A missing bundle
// is not an error: the menu stays empty until it appears.
func (h *Host) Initialize(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.initialized {
		return nil
	}

	logger := zerolog.Ctx(ctx)
	cfg := h.opts.Config

	if _, err := h.openBundleLocked(ctx); err != nil {
		logger.Warn().Err(err).Str("bundle", cfg.Bundle).Msg("bundle unavailable")
	}

	var scripts automation.ScriptSource
	if h.bundle != nil {
		scripts = h.bundle
	}
	h.bridge = automation.NewBridge(scripts, h.opts.Runner)

	h.copier = copier.New(copier.Options{
		FS:            h.opts.FS,
		Loop:          h.opts.Loop,
		PostProcessor: h.bridge,
		Tracker:       status.NewTracker(h.opts.Formatter),
		Overwrite:     cfg.Overwrite,
		ShowExtension: cfg.ShowExtension,
		SkipRename:    cfg.SkipRename,
	})
	h.catalog = catalog.New(h.openBundle, cfg.IgnorePatterns)
	h.engine = naming.NewEngine(h.opts.FS, cfg.UniquenessBound)
	h.initialized = true

	logger.Debug().Str("config", cfg.String()).Msg("plugin initialized")
	return nil
}

// 🛑 Shutdown stops the loop, waits for in-flight copies, then releases the
// automation bridge. Completions not yet delivered run on their copy worker, so
// Shutdown may be called from the loop goroutine, inside a completion callback
// included. The loop is single use: after Shutdown, completions of a
// re-initialized host run on their workers.
func (h *Host) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	if !h.initialized {
		h.mu.Unlock()
		return nil
	}
	h.initialized = false
	cp, bridge := h.copier, h.bridge
	h.mu.Unlock()

	logger := zerolog.Ctx(ctx)

	h.opts.Loop.Stop()
	if err := cp.Wait(); err != nil {
		logger.Debug().Err(err).Msg("some copies failed")
	}
	if err := bridge.Close(); err != nil {
		return errors.Errorf("closing automation bridge: %w", err)
	}

	h.mu.Lock()
	h.bundle = nil
	h.mu.Unlock()

	logger.Debug().Msg("plugin shut down")
	return nil
}

// ➕ Retain takes a reference on the host and returns the new count
func (h *Host) Retain() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.refs++
	return h.refs
}

// ➖ Release drops a reference. The last one shuts the host down.
func (h *Host) Release(ctx context.Context) (int, error) {
	h.mu.Lock()
	if h.refs == 0 {
		h.mu.Unlock()
		return 0, errors.Errorf("release without matching retain")
	}
	h.refs--
	refs := h.refs
	h.mu.Unlock()

	if refs > 0 {
		return refs, nil
	}
	return 0, h.Shutdown(ctx)
}

// 📋 ExamineContext builds the "New Document" submenu for a single folder
func (h *Host) ExamineContext(ctx context.Context, sel Selection) (*Submenu, error) {
	if err := h.ready(); err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)

	dir, ok := sel.Directory(h.opts.FS)
	if !ok {
		logger.Debug().Strs("selection", sel).Msg("selection is not a single folder")
		return nil, nil
	}

	templates := h.catalog.List(ctx)
	if len(templates) == 0 {
		logger.Debug().Str("dir", dir).Msg("no templates, menu omitted")
		return nil, nil
	}

	loc := h.localizer()
	resolver := naming.NewResolver(loc)

	menu := &Submenu{
		Title: DefaultSubmenuTitle,
		Items: make([]MenuItem, 0, len(templates)),
	}
	if loc != nil {
		menu.Title = loc.LocalizedString(SubmenuTitleKey, DefaultSubmenuTitle)
	}
	for i, t := range templates {
		menu.Items = append(menu.Items, MenuItem{
			Title:     resolver.MenuCaption(t.Name),
			CommandID: i,
		})
	}

	return menu, nil
}

// 📝 HandleSelection copies the template at commandID into the selected
// folder under a fresh name
func (h *Host) HandleSelection(ctx context.Context, sel Selection, commandID int) (*copier.Task, error) {
	return h.HandleSelectionWithCallback(ctx, sel, commandID, nil)
}

// 📝 HandleSelectionWithCallback is HandleSelection with a completion callback,
// run on the loop once the copy has finished
func (h *Host) HandleSelectionWithCallback(ctx context.Context, sel Selection, commandID int, onComplete func(*copier.Task)) (*copier.Task, error) {
	if err := h.ready(); err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)

	dir, ok := sel.Directory(h.opts.FS)
	if !ok {
		logger.Debug().Strs("selection", sel).Msg("selection is not a single folder, ignoring command")
		return nil, nil
	}

	tmpl, err := h.catalog.At(ctx, commandID)
	if err != nil {
		return nil, errors.Errorf("resolving command %d: %w", commandID, err)
	}

	desired := naming.NewResolver(h.localizer()).DocumentName(tmpl.Name)
	name := h.engine.MakeUnique(ctx, dir, desired)

	logger.Debug().
		Str("template", tmpl.Name).
		Str("desired", desired).
		Str("name", name).
		Str("dir", dir).
		Msg("creating document")

	return h.copier.Schedule(ctx, tmpl.Path, dir, name, onComplete), nil
}

// 📝 DocumentName returns the localized name a document created from commandID
// would get before numbering
func (h *Host) DocumentName(ctx context.Context, commandID int) (string, error) {
	if err := h.ready(); err != nil {
		return "", err
	}
	tmpl, err := h.catalog.At(ctx, commandID)
	if err != nil {
		return "", errors.Errorf("resolving command %d: %w", commandID, err)
	}
	return naming.NewResolver(h.localizer()).DocumentName(tmpl.Name), nil
}

// 🧹 PostMenuCleanup has nothing to release: state lives until Shutdown
func (h *Host) PostMenuCleanup(ctx context.Context) {
	zerolog.Ctx(ctx).Trace().Msg("menu closed")
}

// 📋 Templates lists the bundled templates in command id order
func (h *Host) Templates(ctx context.Context) ([]catalog.Template, error) {
	if err := h.ready(); err != nil {
		return nil, err
	}
	return h.catalog.List(ctx), nil
}

// 🔍 CommandID returns the command id of the named template
func (h *Host) CommandID(ctx context.Context, name string) (int, error) {
	if err := h.ready(); err != nil {
		return -1, err
	}
	return h.catalog.Find(ctx, name)
}

// Tracker returns the copy disposition tracker.
func (h *Host) Tracker() (*status.Tracker, error) {
	if err := h.ready(); err != nil {
		return nil, err
	}
	return h.copier.Tracker(), nil
}

// Loop returns the loop copy completions are delivered on.
func (h *Host) Loop() *runloop.Loop {
	return h.opts.Loop
}

func (h *Host) ready() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.initialized {
		return ErrNotInitialized
	}
	return nil
}

func (h *Host) localizer() naming.Localizer {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.bundle == nil {
		return nil
	}
	return h.bundle
}

// openBundle is the catalog source: it retries opening a bundle that was
// missing at Initialize.
func (h *Host) openBundle(ctx context.Context) (catalog.Source, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.openBundleLocked(ctx)
}

func (h *Host) openBundleLocked(ctx context.Context) (catalog.Source, error) {
	if h.bundle != nil {
		return h.bundle, nil
	}
	b, err := bundle.Open(ctx, h.opts.FS, h.opts.Config.Bundle, bundle.Options{Language: h.opts.Config.Language})
	if err != nil {
		return nil, err
	}
	h.bundle = b
	return b, nil
}
