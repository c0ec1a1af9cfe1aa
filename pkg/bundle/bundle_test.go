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
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/language"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeFiles(t *testing.T, fsys afero.Fs, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
}

func TestOpenMissingBundle(t *testing.T) {
	ctx := testContext(t)
	fsys := afero.NewMemMapFs()

	_, err := Open(ctx, fsys, "/nowhere", Options{})
	require.Error(t, err, "opening a missing bundle should fail")
	assert.True(t, errors.Is(err, ErrBundleNotFound), "error should be ErrBundleNotFound")
}

func TestOpenDefaults(t *testing.T) {
	ctx := testContext(t)
	fsys := afero.NewMemMapFs()
	require.NoError(t, Install(ctx, fsys, "/b", false))

	b, err := Open(ctx, fsys, "/b", Options{Language: "en"})
	require.NoError(t, err)

	assert.Equal(t, DefaultIdentifier, b.Identifier())
	assert.Equal(t, "/b/Resources/Templates", b.TemplatesDir())
	assert.Equal(t, "New Document", b.LocalizedString("submenuTitle", "x"))
	assert.Equal(t, "New %@", b.LocalizedString("templateDocumentName", "%@"))
	assert.Equal(t, "Text Document", b.LocalizedString("text", "text"))
	assert.Equal(t, "missing", b.LocalizedString("missing", "missing"), "absent key should fall back")
}

func TestLanguageSelection(t *testing.T) {
	tests := []struct {
		name      string
		language  string
		wantTag   language.Tag
		wantTitle string
	}{
		{name: "explicit_french", language: "fr", wantTag: language.French, wantTitle: "Nouveau document"},
		{name: "posix_locale", language: "fr_FR.UTF-8", wantTag: language.French, wantTitle: "Nouveau document"},
		{name: "unknown_language", language: "de", wantTag: language.English, wantTitle: "New Document"},
		{name: "posix_c", language: "C", wantTag: language.English, wantTitle: "New Document"},
		{name: "garbage", language: "???", wantTag: language.English, wantTitle: "New Document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			fsys := afero.NewMemMapFs()
			require.NoError(t, Install(ctx, fsys, "/b", false))

			b, err := Open(ctx, fsys, "/b", Options{Language: tt.language})
			require.NoError(t, err)
			assert.Equal(t, tt.wantTag, b.Language())
			assert.Equal(t, tt.wantTitle, b.LocalizedString("submenuTitle", ""))
		})
	}
}

func TestDevelopmentTableFallback(t *testing.T) {
	ctx := testContext(t)
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/b", map[string]string{
		"Resources/Templates/invoice.pages":        "",
		"Resources/English.lproj/Localizable.json": `{"submenuTitle": "New Document", "templateMenuName": "%@"}`,
		"Resources/French.lproj/Localizable.hcl":   `strings = {
  submenuTitle = "Nouveau document"
  "invoice"    = "Facture"
}`,
	})

	b, err := Open(ctx, fsys, "/b", Options{Language: "fr-CA"})
	require.NoError(t, err)

	assert.Equal(t, language.French, b.Language(), "legacy lproj names should be recognised")
	assert.Equal(t, "Nouveau document", b.LocalizedString("submenuTitle", ""))
	assert.Equal(t, "Facture", b.LocalizedString("invoice", "invoice"))
	assert.Equal(t, "%@", b.LocalizedString("templateMenuName", ""), "missing key should come from the development table")
}

func TestManifest(t *testing.T) {
	ctx := testContext(t)
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/b", map[string]string{
		"bundle.yaml":                "identifier: org.example.docs\ntemplates_subdir: Stationery\ndevelopment_language: fr\n",
		"Resources/Stationery/a.txt": "",
	})

	b, err := Open(ctx, fsys, "/b", Options{Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "org.example.docs", b.Identifier())
	assert.Equal(t, "/b/Resources/Stationery", b.TemplatesDir())
	assert.Equal(t, language.French, b.Language(), "development language should be used when nothing matches")
}

func TestInvalidManifest(t *testing.T) {
	ctx := testContext(t)
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/b", map[string]string{
		"bundle.yaml":     "unknown: true\n",
		"Resources/.keep": "",
	})

	_, err := Open(ctx, fsys, "/b", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading manifest")
}

func TestResources(t *testing.T) {
	ctx := testContext(t)
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/b", map[string]string{
		"Resources/EditFinderItem.applescript": "property theItem : missing value",
	})

	b, err := Open(ctx, fsys, "/b", Options{})
	require.NoError(t, err)

	path, ok := b.Resource("EditFinderItem.applescript")
	assert.True(t, ok)
	assert.Equal(t, "/b/Resources/EditFinderItem.applescript", path)

	data, err := b.ReadResource("EditFinderItem.applescript")
	require.NoError(t, err)
	assert.Equal(t, "property theItem : missing value", string(data))

	_, err = b.ReadResource("missing.scpt")
	assert.Error(t, err)
}

func TestInstall(t *testing.T) {
	ctx := testContext(t)
	fsys := afero.NewMemMapFs()

	require.NoError(t, Install(ctx, fsys, "/b", false))
	for _, name := range []string{"bundle.yaml", "Resources/Templates/text.txt", "Resources/Templates/markdown.md", "Resources/fr.lproj/Localizable.yaml"} {
		ok, err := afero.Exists(fsys, filepath.Join("/b", name))
		require.NoError(t, err)
		assert.True(t, ok, "%s should be installed", name)
	}

	err := Install(ctx, fsys, "/b", false)
	assert.True(t, errors.Is(err, ErrBundleExists), "second install without force should fail")

	assert.NoError(t, Install(ctx, fsys, "/b", true), "forced install should succeed")
}
