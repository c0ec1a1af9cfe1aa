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

package status

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrNotTracked is returned when looking up a path the tracker never saw.
var ErrNotTracked = errors.Base("document not tracked")

// 📊 Disposition is the outcome of a copy
type Disposition int

const (
	Pending   Disposition = iota // scheduled, terminal stage not yet delivered
	Succeeded                    // copied, post-processing attempted
	Failed                       // copy reported an error
)

// String returns a string representation of Disposition
func (d Disposition) String() string {
	switch d {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether d is a final disposition.
func (d Disposition) Terminal() bool {
	return d == Succeeded || d == Failed
}

// 📄 Entry describes one document copy
type Entry struct {
	Source      string      // template the document was copied from
	Path        string      // destination path
	Disposition Disposition // current disposition
	Error       error       // set when Failed
}

// 📈 Tracker records copy dispositions and reports progress. Every Schedule
// adds an entry, so a path scheduled twice is reported twice.
type Tracker struct {
	formatter Formatter

	mu      sync.RWMutex
	entries []Entry
	latest  map[string]int // path to its most recent entry
}

// 🏭 NewTracker creates a tracker. A nil formatter selects the default one.
func NewTracker(formatter Formatter) *Tracker {
	if formatter == nil {
		formatter = NewDefaultFormatter()
	}
	return &Tracker{
		formatter: formatter,
		latest:    make(map[string]int),
	}
}

// ⏳ Schedule records path as Pending and returns the id to complete it with
func (t *Tracker) Schedule(ctx context.Context, source, path string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := len(t.entries)
	t.entries = append(t.entries, Entry{Source: source, Path: path, Disposition: Pending})
	t.latest[path] = id

	zerolog.Ctx(ctx).Debug().
		Str("source", source).
		Str("path", path).
		Int("entry", id).
		Msg(t.formatter.FormatDocument(path, Pending))

	return id
}

// 🏁 Complete moves entry id to its terminal disposition. It returns false when
// id is unknown or already terminal.
func (t *Tracker) Complete(ctx context.Context, id int, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	logger := zerolog.Ctx(ctx)

	if id < 0 || id >= len(t.entries) || t.entries[id].Disposition.Terminal() {
		logger.Debug().Int("entry", id).Msg("ignoring terminal report for untracked or finished document")
		return false
	}

	entry := &t.entries[id]
	entry.Disposition = Succeeded
	if err != nil {
		entry.Disposition = Failed
		entry.Error = err
	}

	if err != nil {
		logger.Info().Str("path", entry.Path).Msg(t.formatter.FormatError(err))
	} else {
		logger.Info().Str("path", entry.Path).Msg(t.formatter.FormatDocument(entry.Path, entry.Disposition))
	}

	done, total := t.progressLocked()
	logger.Debug().Int("done", done).Int("total", total).Msg(t.formatter.FormatProgress(done, total))

	return true
}

// 🔍 Get returns the most recent entry for path
func (t *Tracker) Get(ctx context.Context, path string) (Entry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	id, ok := t.latest[path]
	if !ok {
		return Entry{}, errors.WithDetails(ErrNotTracked, "path", path)
	}
	return t.entries[id], nil
}

// 📋 List returns every entry in scheduling order
func (t *Tracker) List(ctx context.Context) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// 📊 Counts returns the number of entries per disposition
func (t *Tracker) Counts(ctx context.Context) map[Disposition]int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	counts := make(map[Disposition]int, 3)
	for _, e := range t.entries {
		counts[e.Disposition]++
	}
	return counts
}

// Paths returns the distinct paths having an entry with the given
// disposition, sorted.
func (t *Tracker) Paths(ctx context.Context, d Disposition) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, e := range t.entries {
		if e.Disposition == d && !seen[e.Path] {
			seen[e.Path] = true
			out = append(out, e.Path)
		}
	}
	sort.Strings(out)
	return out
}

func (t *Tracker) progressLocked() (done, total int) {
	for _, e := range t.entries {
		if e.Disposition.Terminal() {
			done++
		}
	}
	return done, len(t.entries)
}
