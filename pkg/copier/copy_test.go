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
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyTreeOsFs(t *testing.T) {
	root := t.TempDir()
	fsys := afero.NewOsFs()

	src := filepath.Join(root, "Report.bundle")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "Contents"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Contents", "run.sh"), []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.Symlink("Contents/run.sh", filepath.Join(src, "run")))

	dst := filepath.Join(root, "out", "Report 2.bundle")
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
	require.NoError(t, preflight(fsys, src, filepath.Dir(dst), dst, false))
	require.NoError(t, copyTree(fsys, src, dst))

	info, err := os.Stat(filepath.Join(dst, "Contents", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm(), "executable bit should survive")

	link, err := os.Readlink(filepath.Join(dst, "run"))
	require.NoError(t, err)
	assert.Equal(t, "Contents/run.sh", link, "symbolic links should be recreated, not followed")
}

func TestCopyTreeReadOnlyDestination(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "pkg")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.Symlink("nowhere", filepath.Join(src, "link")))

	fsys := afero.NewReadOnlyFs(afero.NewOsFs())
	err := copyTree(fsys, src, filepath.Join(root, "copy"))
	require.Error(t, err)
}

func TestPreflightOverwrite(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/t/a.txt", []byte("a"), 0o644))
	require.NoError(t, fsys.MkdirAll("/d/a.txt/inner", 0o755))

	require.ErrorIs(t, preflight(fsys, "/t/a.txt", "/d", "/d/a.txt", false), ErrDestinationExists)
	require.NoError(t, preflight(fsys, "/t/a.txt", "/d", "/d/a.txt", true))

	exists, err := afero.Exists(fsys, "/d/a.txt")
	require.NoError(t, err)
	assert.False(t, exists, "overwrite should clear the old destination")
}
