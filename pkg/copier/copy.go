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
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// ErrDestinationExists is returned when the destination is taken and
// overwriting is off.
var ErrDestinationExists = errors.Base("destination already exists")

// 🔍 preflight checks the source and prepares the destination
func preflight(fsys afero.Fs, src, destDir, dest string, overwrite bool) error {
	if _, err := fsys.Stat(src); err != nil {
		return errors.Errorf("reading template: %w", err)
	}

	info, err := fsys.Stat(destDir)
	if err != nil {
		return errors.Errorf("reading destination directory: %w", err)
	}
	if !info.IsDir() {
		return errors.Errorf("destination %s is not a directory", destDir)
	}

	exists, err := afero.Exists(fsys, dest)
	if err != nil {
		return errors.Errorf("checking destination: %w", err)
	}
	if !exists {
		return nil
	}
	if !overwrite {
		return errors.WithDetails(ErrDestinationExists, "path", dest)
	}
	if err := fsys.RemoveAll(dest); err != nil {
		return errors.Errorf("removing existing destination: %w", err)
	}
	return nil
}

// 📋 copyTree copies src, a file or a document package, to dst keeping mode
// bits. Symbolic links are recreated when the filesystem supports them.
func copyTree(fsys afero.Fs, src, dst string) error {
	return afero.Walk(fsys, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Errorf("relative path of %s: %w", path, err)
		}
		target := filepath.Join(dst, rel)
		mode := info.Mode()

		switch {
		case mode.IsDir():
			if err := fsys.MkdirAll(target, mode.Perm()); err != nil {
				return errors.Errorf("creating directory %s: %w", target, err)
			}
			return fsys.Chmod(target, mode.Perm())
		case mode&os.ModeSymlink != 0:
			return copySymlink(fsys, path, target)
		case mode.IsRegular():
			return copyFile(fsys, path, target, mode.Perm())
		default:
			return errors.Errorf("unsupported file type %s: %s", mode.Type(), path)
		}
	})
}

func copyFile(fsys afero.Fs, src, dst string, perm os.FileMode) error {
	in, err := fsys.Open(src)
	if err != nil {
		return errors.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return errors.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing %s: %w", dst, err)
	}

	if err := fsys.Chmod(dst, perm); err != nil {
		return errors.Errorf("setting mode of %s: %w", dst, err)
	}
	return nil
}

func copySymlink(fsys afero.Fs, src, dst string) error {
	reader, ok := fsys.(afero.LinkReader)
	if !ok {
		return errors.Errorf("filesystem cannot read symbolic link %s", src)
	}
	linker, ok := fsys.(afero.Linker)
	if !ok {
		return errors.Errorf("filesystem cannot create symbolic link %s", dst)
	}

	target, err := reader.ReadlinkIfPossible(src)
	if err != nil {
		return errors.Errorf("reading link %s: %w", src, err)
	}
	if err := linker.SymlinkIfPossible(target, dst); err != nil {
		return errors.Errorf("creating link %s: %w", dst, err)
	}
	return nil
}
