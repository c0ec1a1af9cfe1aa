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

// Package runloop delivers callbacks on a single goroutine, in the order they
// were posted.
package runloop

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔄 Loop is a FIFO of callbacks drained by Run. A loop is single use: once
// Run has returned because of Stop or context cancellation, Post refuses new
// work.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	stopped bool

	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

// 🏭 New creates an idle loop
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
}

// 📬 Post queues fn. It returns false when the loop no longer accepts work, in
// which case fn is not run.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// 🛑 Stop makes Run return after draining what is already queued
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Stopping is closed once Stop has been called. Callbacks queued after that
// point may never run if nobody is running the loop.
func (l *Loop) Stopping() <-chan struct{} {
	return l.stop
}

// 🏃 Run drains callbacks until Stop is called or ctx is done. Callbacks queued
// before that point are still run.
func (l *Loop) Run(ctx context.Context) error {
	return l.RunUntil(ctx, nil)
}

// 🏃 RunUntil is Run that also returns, without stopping the loop, once done is
// closed. A nil done never fires.
func (l *Loop) RunUntil(ctx context.Context, done <-chan struct{}) error {
	logger := zerolog.Ctx(ctx)

	for {
		l.drain()

		select {
		case <-ctx.Done():
			l.shutdown()
			logger.Debug().Msg("run loop cancelled")
			return errors.Errorf("run loop cancelled: %w", ctx.Err())
		case <-l.stop:
			l.shutdown()
			logger.Debug().Msg("run loop stopped")
			return nil
		case <-done:
			l.drain()
			return nil
		case <-l.wake:
		}
	}
}

// Pending returns the number of queued callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Stopped reports whether the loop refuses new work.
func (l *Loop) Stopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

func (l *Loop) shutdown() {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()
	l.drain()
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
	}
}
