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

package naming

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// DefaultBound is the exclusive upper bound of the collision counter.
const DefaultBound = 1000

// ErrNameBoundExhausted is returned by Resolve when every counter below the
// bound is taken.
var ErrNameBoundExhausted = errors.Base("cannot find a free document name")

// 🔢 Engine produces collision-free document names
type Engine struct {
	fs    afero.Fs
	bound int
}

// 🏭 NewEngine creates an engine probing fsys. bound < 2 selects DefaultBound.
func NewEngine(fsys afero.Fs, bound int) *Engine {
	if bound < 2 {
		bound = DefaultBound
	}
	return &Engine{fs: fsys, bound: bound}
}

// Bound returns the exclusive upper bound of the counter.
func (e *Engine) Bound() int { return e.bound }

// 🔍 Exists reports whether path is taken. Errors other than "not exist" count
// as taken.
func (e *Engine) Exists(ctx context.Context, path string) bool {
	var err error
	if l, ok := e.fs.(afero.Lstater); ok {
		_, _, err = l.LstatIfPossible(path)
	} else {
		_, err = e.fs.Stat(path)
	}
	if err == nil {
		return true
	}
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("existence check failed, treating as taken")
	return true
}

// 🎯 Resolve returns desired if it is free in dir, otherwise the first free
// "{stem} {n}{ext}" for n in [2, bound). When none is free it returns the last
// probed name together with ErrNameBoundExhausted.
func (e *Engine) Resolve(ctx context.Context, dir, desired string) (string, error) {
	if !e.Exists(ctx, filepath.Join(dir, desired)) {
		return desired, nil
	}

	stem, ext := SplitExtensions(desired)

	candidate := desired
	for n := 2; n < e.bound; n++ {
		candidate = fmt.Sprintf("%s %d%s", stem, n, ext)
		if !e.Exists(ctx, filepath.Join(dir, candidate)) {
			return candidate, nil
		}
	}

	return candidate, errors.WithDetails(ErrNameBoundExhausted, "dir", dir, "name", desired, "bound", e.bound)
}

// 🎯 MakeUnique is Resolve for callers that tolerate an exhausted bound: the
// failure is logged and the last probed, still colliding, name is returned.
func (e *Engine) MakeUnique(ctx context.Context, dir, desired string) string {
	name, err := e.Resolve(ctx, dir, desired)
	if err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Str("dir", dir).
			Str("desired", desired).
			Str("name", name).
			Msg("cannot find a suitable filename for document")
	}
	return name
}
