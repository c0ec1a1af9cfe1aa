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

package automation

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrUnsupported is returned by the default runner on hosts without osascript.
var ErrUnsupported = errors.Base("automation is only supported on macOS")

// 🏃 Runner executes AppleScript source
type Runner interface {
	Run(ctx context.Context, script []byte) ([]byte, error)
}

// 🍎 OsascriptRunner pipes scripts to the osascript binary
type OsascriptRunner struct {
	// Path is the path to osascript. If empty, "osascript" is used from PATH.
	Path string
	// GOOS overrides runtime.GOOS.
	GOOS string
}

// 🏭 NewOsascriptRunner creates a runner using osascript from PATH
func NewOsascriptRunner() *OsascriptRunner {
	return &OsascriptRunner{Path: "osascript"}
}

// Run executes script with "osascript -" and returns its standard output
func (r *OsascriptRunner) Run(ctx context.Context, script []byte) ([]byte, error) {
	goos := r.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	if goos != "darwin" {
		return nil, errors.WithDetails(ErrUnsupported, "goos", goos)
	}

	path := r.Path
	if path == "" {
		path = "osascript"
	}

	cmd := exec.CommandContext(ctx, path, "-")
	cmd.Stdin = bytes.NewReader(script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	zerolog.Ctx(ctx).Trace().Str("runner", path).Int("size", len(script)).Msg("running script")

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, errors.Errorf("osascript failed with exit code %d: %s", exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return nil, errors.Errorf("osascript: %w", err)
	}

	return stdout.Bytes(), nil
}
