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

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/kemenaran/newdocumentplugin/cmd/newdoc/opts"
	"github.com/kemenaran/newdocumentplugin/pkg/bundle"
	"github.com/kemenaran/newdocumentplugin/pkg/catalog"
	"github.com/kemenaran/newdocumentplugin/pkg/config"
	"github.com/kemenaran/newdocumentplugin/pkg/log"
	"github.com/kemenaran/newdocumentplugin/pkg/plugin"
	"github.com/kemenaran/newdocumentplugin/pkg/provider"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	bundleRoot = "/Library/NewDocument.bundle"
	docsDir    = "/Users/me/Documents"
)

// 🔧 nopRunner accepts every script
type nopRunner struct {
	mu    sync.Mutex
	count int
}

func (r *nopRunner) Run(ctx context.Context, script []byte) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	return nil, nil
}

// 📦 memProvider serves files from a map
type memProvider struct {
	files map[string]string
}

func (m *memProvider) ListFiles(ctx context.Context, args config.SourceArgs) ([]string, error) {
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *memProvider) GetFile(ctx context.Context, args config.SourceArgs, path string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(m.files[path])), nil
}

func (m *memProvider) GetCommitHash(ctx context.Context, args config.SourceArgs) (string, error) {
	return "0123456789abcdef", nil
}

func (m *memProvider) GetSourceInfo(ctx context.Context, args config.SourceArgs, commitHash string) (string, error) {
	return args.Repo + "@" + commitHash[:7], nil
}

func init() {
	provider.Register("memory", func(ctx context.Context) (provider.Provider, error) {
		return &memProvider{files: map[string]string{
			"Invoice.txt":  "INVOICE",
			"Letters/A.md": "# A",
			".DS_Store":    "junk",
		}}, nil
	})
}

type env struct {
	ctx     context.Context
	fs      afero.Fs
	opts    *opts.RootOpts
	console *bytes.Buffer
}

func newEnv(t *testing.T, install bool) *env {
	t.Helper()

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll(docsDir, 0o755))
	if install {
		require.NoError(t, bundle.Install(ctx, fsys, bundleRoot, false))
	}

	cfg := &config.Config{Bundle: bundleRoot, Language: "en"}
	require.NoError(t, cfg.Validate())

	console := &bytes.Buffer{}
	return &env{
		ctx:     ctx,
		fs:      fsys,
		console: console,
		opts: &opts.RootOpts{
			Config:     cfg,
			UserLogger: log.NewUserLogger(ctx),
			Console:    log.New(console, zerolog.Disabled),
			FS:         fsys,
			Runner:     &nopRunner{},
		},
	}
}

func (e *env) run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(e.ctx)
	return out.String(), err
}

func TestMenuJSON(t *testing.T) {
	e := newEnv(t, true)

	out, err := e.run(t, NewMenuCmd(e.opts), docsDir, "--json")
	require.NoError(t, err)

	var menu plugin.Submenu
	require.NoError(t, json.Unmarshal([]byte(out), &menu))
	assert.Equal(t, "New Document", menu.Title)
	require.Len(t, menu.Items, 3)
	assert.Equal(t, plugin.MenuItem{Title: "Text Document", CommandID: 2}, menu.Items[2])
}

func TestMenuConsole(t *testing.T) {
	e := newEnv(t, true)

	_, err := e.run(t, NewMenuCmd(e.opts), docsDir)
	require.NoError(t, err)

	out := e.console.String()
	assert.Contains(t, out, docsDir)
	assert.Contains(t, out, "New Document")
	assert.Contains(t, out, "3 templates")
	assert.Contains(t, out, "Markdown Document")
}

func TestMenuNotAFolder(t *testing.T) {
	e := newEnv(t, true)
	require.NoError(t, afero.WriteFile(e.fs, docsDir+"/notes.txt", nil, 0o644))

	out, err := e.run(t, NewMenuCmd(e.opts), docsDir+"/notes.txt", "--json")
	require.NoError(t, err)
	assert.Equal(t, "null", strings.TrimSpace(out))
}

func TestNewCreatesDocuments(t *testing.T) {
	e := newEnv(t, true)

	_, err := e.run(t, NewNewCmd(e.opts), "text.txt", "2", "--dir", docsDir)
	require.NoError(t, err)

	for _, name := range []string{"New Text Document.txt", "New Text Document 2.txt"} {
		ok, err := afero.Exists(e.fs, filepath.Join(docsDir, name))
		require.NoError(t, err)
		assert.True(t, ok, "%s should exist", name)
	}

	out := e.console.String()
	assert.Contains(t, out, "creating documents in "+docsDir)
	assert.Contains(t, out, "New Text Document 2.txt")
	assert.Contains(t, out, "succeeded")
	assert.Contains(t, out, "2 documents created")

	lines := strings.Split(out, "\n")
	var first, second string
	for _, line := range lines {
		switch {
		case strings.Contains(line, "New Text Document 2.txt"):
			second = line
		case strings.Contains(line, "New Text Document.txt"):
			first = line
		}
	}
	assert.Contains(t, first, "✓", "a free name is reported as new")
	assert.NotContains(t, first, "⟳")
	assert.Contains(t, second, "⟳", "a numbered name is reported as renamed")
}

func TestMenuOmittedWarning(t *testing.T) {
	e := newEnv(t, true)
	require.NoError(t, afero.WriteFile(e.fs, docsDir+"/notes.txt", nil, 0o644))

	_, err := e.run(t, NewMenuCmd(e.opts), docsDir+"/notes.txt")
	require.NoError(t, err)
	assert.Contains(t, e.console.String(), "no menu for "+docsDir+"/notes.txt")
}

func TestNewUnknownTemplate(t *testing.T) {
	e := newEnv(t, true)

	_, err := e.run(t, NewNewCmd(e.opts), "nope.txt", "--dir", docsDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `finding template "nope.txt"`)
}

func TestNewRequiresFolder(t *testing.T) {
	e := newEnv(t, true)

	_, err := e.run(t, NewNewCmd(e.opts), "0", "--dir", docsDir+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a folder")
}

func TestTemplatesList(t *testing.T) {
	e := newEnv(t, true)

	out, err := e.run(t, NewTemplatesCmd(e.opts), "list", "--json")
	require.NoError(t, err)

	var templates []catalog.Template
	require.NoError(t, json.Unmarshal([]byte(out), &templates))
	names := make([]string, len(templates))
	for i, tmpl := range templates {
		names[i] = tmpl.Name
	}
	assert.Equal(t, []string{"html.html", "markdown.md", "text.txt"}, names)
}

func TestTemplatesListConsole(t *testing.T) {
	e := newEnv(t, true)

	_, err := e.run(t, NewTemplatesCmd(e.opts), "list")
	require.NoError(t, err)
	out := e.console.String()
	assert.Contains(t, out, "3 templates in "+bundleRoot)
	assert.Contains(t, out, "markdown.md")
}

func TestTemplatesPull(t *testing.T) {
	e := newEnv(t, true)

	_, err := e.run(t, NewTemplatesCmd(e.opts), "pull", "--repo", "acme/templates", "--provider", "memory")
	require.NoError(t, err)

	dir := filepath.Join(bundleRoot, "Resources", "Templates")
	data, err := afero.ReadFile(e.fs, filepath.Join(dir, "Invoice.txt"))
	require.NoError(t, err)
	assert.Equal(t, "INVOICE", string(data))

	ok, err := afero.Exists(e.fs, filepath.Join(dir, "Letters", "A.md"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = afero.Exists(e.fs, filepath.Join(dir, ".DS_Store"))
	require.NoError(t, err)
	assert.False(t, ok, "ignored files should not be pulled")
}

func TestTemplatesPullWithoutBundle(t *testing.T) {
	e := newEnv(t, false)

	_, err := e.run(t, NewTemplatesCmd(e.opts), "pull", "--repo", "acme/templates", "--provider", "memory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newdoc init")
}

func TestPullSource(t *testing.T) {
	_, err := pullSource(&config.Config{}, config.SourceArgs{})
	require.Error(t, err, "no source should fail")

	cfg := &config.Config{Source: &config.SourceArgs{Repo: "acme/configured", Ref: "v1", Path: "/docs/"}}
	src, err := pullSource(cfg, config.SourceArgs{})
	require.NoError(t, err)
	assert.Equal(t, config.SourceArgs{Provider: "github", Repo: "acme/configured", Ref: "v1", Path: "docs"}, src)

	src, err = pullSource(cfg, config.SourceArgs{Repo: "acme/flag"})
	require.NoError(t, err)
	assert.Equal(t, "acme/flag", src.Repo)
	assert.Equal(t, config.DefaultRef, src.Ref, "flags replace the configured source entirely")
	assert.Equal(t, "acme/configured", cfg.Source.Repo, "configured source should not be modified")
}

func TestInit(t *testing.T) {
	e := newEnv(t, false)

	_, err := e.run(t, NewInitCmd(e.opts))
	require.NoError(t, err)

	ok, err := afero.DirExists(e.fs, filepath.Join(bundleRoot, "Resources", "Templates"))
	require.NoError(t, err)
	assert.True(t, ok)

	// second run without force is reported, not failed
	_, err = e.run(t, NewInitCmd(e.opts))
	require.NoError(t, err)

	_, err = e.run(t, NewInitCmd(e.opts), "--force")
	require.NoError(t, err)
}
