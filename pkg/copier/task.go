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
	"path/filepath"
	"sync"

	"github.com/kemenaran/newdocumentplugin/pkg/status"
)

// 📶 Stage is a progress notification of a copy
type Stage int

const (
	StagePreflighting Stage = iota // validating source and destination
	StageRunning                   // copying data
	StageComplete                  // finished, with or without error
)

// String returns a string representation of Stage
func (s Stage) String() string {
	switch s {
	case StagePreflighting:
		return "preflighting"
	case StageRunning:
		return "running"
	case StageComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Event is one stage notification, Err is only meaningful on StageComplete.
type Event struct {
	Stage Stage
	Err   error
}

// 📦 Task is one in-flight copy
type Task struct {
	Source   string
	DestDir  string
	DestName string

	onComplete func(*Task)
	handled    chan struct{} // closed once the outcome is recorded
	done       chan struct{} // closed after onComplete

	entry int // tracker entry id

	mu          sync.Mutex
	claimed     bool
	disposition status.Disposition
	err         error
}

func newTask(src, destDir, destName string, onComplete func(*Task)) *Task {
	return &Task{
		Source:      src,
		DestDir:     destDir,
		DestName:    destName,
		onComplete:  onComplete,
		handled:     make(chan struct{}),
		done:        make(chan struct{}),
		disposition: status.Pending,
	}
}

// Path is the destination path of the document.
func (t *Task) Path() string {
	return filepath.Join(t.DestDir, t.DestName)
}

// Done is closed once the terminal stage has been delivered.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Disposition returns the current disposition.
func (t *Task) Disposition() status.Disposition {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disposition
}

// Result returns the copy error, nil until the task failed.
func (t *Task) Result() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// claim reserves the terminal stage for one deliverer. The loop and the
// worker may both try once the loop stops.
func (t *Task) claim() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.claimed {
		return false
	}
	t.claimed = true
	return true
}

// finish records the outcome, runs the completion callback and closes Done.
// Only the first call has any effect.
func (t *Task) finish(d status.Disposition, err error) bool {
	t.mu.Lock()
	if t.disposition.Terminal() {
		t.mu.Unlock()
		return false
	}
	t.disposition = d
	t.err = err
	t.mu.Unlock()

	close(t.handled)
	if t.onComplete != nil {
		t.onComplete(t)
	}
	close(t.done)
	return true
}
