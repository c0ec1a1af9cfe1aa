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

package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

type memSource struct {
	fs  afero.Fs
	dir string
}

func (m memSource) FS() afero.Fs         { return m.fs }
func (m memSource) TemplatesDir() string { return m.dir }

func newSource(t *testing.T, names ...string) memSource {
	t.Helper()
	fsys := afero.NewMemMapFs()
	dir := "/bundle/Resources/Templates"
	require.NoError(t, fsys.MkdirAll(dir, 0o755))
	for _, n := range names {
		require.NoError(t, afero.WriteFile(fsys, filepath.Join(dir, n), nil, 0o644))
	}
	return memSource{fs: fsys, dir: dir}
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestList(t *testing.T) {
	ctx := testContext(t)
	src := newSource(t, "letter.txt", "invoice.pages", ".DS_Store", "report.v2.docx")
	require.NoError(t, src.fs.MkdirAll(filepath.Join(src.dir, "Keynote.key"), 0o755))

	c := Static(src, []string{".*"})
	got := c.List(ctx)

	names := make([]string, 0, len(got))
	for _, tpl := range got {
		names = append(names, tpl.Name)
		assert.Equal(t, filepath.Join(src.dir, tpl.Name), tpl.Path, "path should be absolute")
	}
	assert.Equal(t, []string{"Keynote.key", "invoice.pages", "letter.txt", "report.v2.docx"}, names, "listing should follow enumeration order and skip ignored entries")
}

func TestListWithoutIgnorePatterns(t *testing.T) {
	ctx := testContext(t)
	src := newSource(t, ".hidden", "a.txt")

	got := Static(src, nil).List(ctx)
	assert.Len(t, got, 2, "nothing should be ignored")
}

func TestListUnresolvableSource(t *testing.T) {
	ctx := testContext(t)

	c := New(func(context.Context) (Source, error) {
		return nil, errors.New("bundle missing")
	}, nil)
	assert.Empty(t, c.List(ctx), "unresolvable bundle should give an empty catalog")

	missing := memSource{fs: afero.NewMemMapFs(), dir: "/nope"}
	assert.Empty(t, Static(missing, nil).List(ctx), "missing templates dir should give an empty catalog")
}

func TestAt(t *testing.T) {
	ctx := testContext(t)
	c := Static(newSource(t, "a.txt", "b.md"), nil)

	tpl, err := c.At(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "b.md", tpl.Name)

	for _, id := range []int{-1, 2, 99} {
		_, err := c.At(ctx, id)
		assert.True(t, errors.Is(err, ErrUnknownCommand), "command %d should be unknown", id)
	}
}

func TestFind(t *testing.T) {
	ctx := testContext(t)
	c := Static(newSource(t, "a.txt", "b.md"), nil)

	id, err := c.Find(ctx, "b.md")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	_, err = c.Find(ctx, "c.rtf")
	assert.True(t, errors.Is(err, ErrUnknownCommand))
}
