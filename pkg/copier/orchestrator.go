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

package copier

import (
	"context"

	"github.com/kemenaran/newdocumentplugin/pkg/runloop"
	"github.com/kemenaran/newdocumentplugin/pkg/status"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// 🎬 PostProcessor acts on a document once its copy succeeded, usually an
// *automation.Bridge
type PostProcessor interface {
	HideExtension(ctx context.Context, path string) error
	RevealForRename(ctx context.Context, itemName string) error
}

// 🔧 Options contains configuration for the orchestrator. A non-nil Loop must be
// running for scheduled copies to complete.
type Options struct {
	// FS holds both templates and destinations
	FS afero.Fs
	// Loop receives stage events. When nil or stopped, events are handled on
	// the copying goroutine.
	Loop *runloop.Loop
	// PostProcessor is optional
	PostProcessor PostProcessor
	// Tracker records dispositions. A new one is created when nil.
	Tracker *status.Tracker
	// Overwrite replaces an existing destination instead of failing
	Overwrite bool
	// ShowExtension leaves the filename extension visible
	ShowExtension bool
	// SkipRename does not ask the file manager to rename the new document
	SkipRename bool
}

// 🎭 Orchestrator schedules template copies
type Orchestrator struct {
	opts  Options
	group errgroup.Group
}

// 🏭 New creates an orchestrator
func New(opts Options) *Orchestrator {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.Tracker == nil {
		opts.Tracker = status.NewTracker(nil)
	}
	return &Orchestrator{opts: opts}
}

// Tracker returns the disposition tracker.
func (o *Orchestrator) Tracker() *status.Tracker {
	return o.opts.Tracker
}

// 🚀 Schedule starts copying src to destDir/destName and returns at once.
// onComplete, which may be nil, runs on the run loop after the terminal stage
// has been handled. Cancelling ctx does not cancel the copy.
func (o *Orchestrator) Schedule(ctx context.Context, src, destDir, destName string, onComplete func(*Task)) *Task {
	ctx = context.WithoutCancel(ctx)
	t := newTask(src, destDir, destName, onComplete)

	t.entry = o.opts.Tracker.Schedule(ctx, src, t.Path())
	zerolog.Ctx(ctx).Debug().Str("source", src).Str("destination", t.Path()).Msg("scheduling copy")

	o.group.Go(func() error {
		return o.run(ctx, t)
	})

	return t
}

// ⏳ Wait blocks until every scheduled copy has delivered its terminal stage
// and returns the first copy error.
func (o *Orchestrator) Wait() error {
	return o.group.Wait()
}

func (o *Orchestrator) run(ctx context.Context, t *Task) error {
	o.emit(ctx, t, Event{Stage: StagePreflighting})

	err := preflight(o.opts.FS, t.Source, t.DestDir, t.Path(), o.opts.Overwrite)
	if err == nil {
		o.emit(ctx, t, Event{Stage: StageRunning})
		err = copyTree(o.opts.FS, t.Source, t.Path())
	}

	complete := Event{Stage: StageComplete, Err: err}
	o.emit(ctx, t, complete)

	select {
	case <-t.handled:
	case <-o.loopStopped():
		// a stopped loop may never run the queued completion
		o.deliver(ctx, t, complete)
		<-t.handled
	}

	return err
}

// loopStopped fires once Stop was called on the loop, nil without a loop.
func (o *Orchestrator) loopStopped() <-chan struct{} {
	if o.opts.Loop == nil {
		return nil
	}
	return o.opts.Loop.Stopping()
}

// emit hands ev to the run loop, or handles it here once the loop is gone.
func (o *Orchestrator) emit(ctx context.Context, t *Task, ev Event) {
	if o.opts.Loop != nil && o.opts.Loop.Post(func() { o.deliver(ctx, t, ev) }) {
		return
	}
	zerolog.Ctx(ctx).Debug().Str("stage", ev.Stage.String()).Msg("run loop unavailable, delivering on worker")
	o.deliver(ctx, t, ev)
}

// 📨 deliver handles one stage event. Only StageComplete has side effects.
func (o *Orchestrator) deliver(ctx context.Context, t *Task, ev Event) {
	logger := zerolog.Ctx(ctx).With().
		Str("stage", ev.Stage.String()).
		Str("path", t.Path()).
		Logger()

	if ev.Stage != StageComplete {
		logger.Debug().Msg("copy in progress")
		return
	}
	if !t.claim() {
		return
	}

	if ev.Err != nil {
		logger.Error().Err(ev.Err).Str("source", t.Source).Msg("copying template failed")
		o.opts.Tracker.Complete(ctx, t.entry, ev.Err)
		t.finish(status.Failed, ev.Err)
		return
	}

	if pp := o.opts.PostProcessor; pp != nil {
		if !o.opts.ShowExtension {
			if err := pp.HideExtension(ctx, t.Path()); err != nil {
				logger.Debug().Err(err).Msg("hiding extension failed")
			}
		}
		if !o.opts.SkipRename {
			if err := pp.RevealForRename(ctx, t.DestName); err != nil {
				logger.Warn().Err(err).Msg("requesting rename failed")
			}
		}
	}

	logger.Debug().Msg("copy finished")
	o.opts.Tracker.Complete(ctx, t.entry, nil)
	t.finish(status.Succeeded, nil)
}
