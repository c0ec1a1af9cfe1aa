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

package bundle

import (
	"context"
	"embed"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// defaults holds the starter bundle installed by `newdoc init`.
//
//go:embed defaults
var defaults embed.FS

const defaultsRoot = "defaults"

// ErrBundleExists is returned by Install when the destination already holds a bundle.
var ErrBundleExists = errors.Base("bundle already exists")

// Defaults returns the embedded starter bundle.
func Defaults() fs.FS {
	sub, err := fs.Sub(defaults, defaultsRoot)
	if err != nil {
		return defaults
	}
	return sub
}

// 📥 Install writes the embedded starter bundle to dest
func Install(ctx context.Context, fsys afero.Fs, dest string, force bool) error {
	logger := zerolog.Ctx(ctx)

	exists, err := afero.DirExists(fsys, dest)
	if err != nil {
		return errors.Errorf("checking destination: %w", err)
	}
	if exists && !force {
		return errors.WithDetails(ErrBundleExists, "path", dest)
	}

	src := Defaults()
	err = fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dest, filepath.FromSlash(path))
		if d.IsDir() {
			return fsys.MkdirAll(target, 0o755)
		}
		data, err := fs.ReadFile(src, path)
		if err != nil {
			return errors.Errorf("reading %s: %w", path, err)
		}
		if err := afero.WriteFile(fsys, target, data, 0o644); err != nil {
			return errors.Errorf("writing %s: %w", target, err)
		}
		logger.Debug().Str("file", target).Msg("installed bundle file")
		return nil
	})
	if err != nil {
		return errors.Errorf("installing bundle: %w", err)
	}

	return nil
}
