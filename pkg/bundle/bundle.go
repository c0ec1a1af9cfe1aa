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

// Package bundle reads the resource bundle that ships document templates,
// localization tables and automation scripts.
package bundle

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultIdentifier matches the identifier of the original Finder plugin bundle
	DefaultIdentifier = "com.kemenaran.Finder.NewDocumentPlugIn"
	// DefaultTemplatesSubdir is the Resources subdirectory holding templates
	DefaultTemplatesSubdir = "Templates"
	// DefaultDevelopmentLanguage is used when no table matches the requested language
	DefaultDevelopmentLanguage = "en"

	manifestName  = "bundle.yaml"
	resourcesName = "Resources"
	lprojSuffix   = ".lproj"
	tableName     = "Localizable"
)

// ErrBundleNotFound is returned when the bundle or its Resources directory is missing.
var ErrBundleNotFound = errors.Base("bundle not found")

// 📋 Manifest describes a bundle, read from bundle.yaml at its root
type Manifest struct {
	Identifier          string `yaml:"identifier" json:"identifier"`
	TemplatesSubdir     string `yaml:"templates_subdir" json:"templates_subdir"`
	DevelopmentLanguage string `yaml:"development_language" json:"development_language"`
}

// 🔧 Options tunes how a bundle is opened
type Options struct {
	// Language is a BCP 47 tag or POSIX locale ("fr", "fr_FR.UTF-8"). Empty uses $LANG.
	Language string
}

// 📦 Bundle is an opened resource bundle
type Bundle struct {
	fs       afero.Fs
	root     string
	manifest Manifest
	language language.Tag
	strings  Table
}

// 🏭 Open opens the bundle rooted at root
func Open(ctx context.Context, fsys afero.Fs, root string, opts Options) (*Bundle, error) {
	logger := zerolog.Ctx(ctx)

	resources := filepath.Join(root, resourcesName)
	if ok, err := afero.DirExists(fsys, resources); err != nil || !ok {
		return nil, errors.WithDetails(ErrBundleNotFound, "path", root)
	}

	manifest, err := readManifest(fsys, root)
	if err != nil {
		return nil, errors.Errorf("reading manifest: %w", err)
	}

	b := &Bundle{
		fs:       fsys,
		root:     root,
		manifest: manifest,
	}

	requested := opts.Language
	if requested == "" {
		requested = os.Getenv("LANG")
	}

	available, err := b.localizations()
	if err != nil {
		return nil, errors.Errorf("listing localizations: %w", err)
	}

	dev := language.Make(manifest.DevelopmentLanguage)
	b.language = matchLanguage(dev, available, requested)

	// the development table is the fallback for keys missing in the selected one
	b.strings = Table{}
	if dir, ok := available[dev]; ok {
		if err := b.strings.load(fsys, filepath.Join(resources, dir)); err != nil {
			return nil, errors.Errorf("loading %s table: %w", dev, err)
		}
	}
	if b.language != dev {
		if dir, ok := available[b.language]; ok {
			if err := b.strings.load(fsys, filepath.Join(resources, dir)); err != nil {
				return nil, errors.Errorf("loading %s table: %w", b.language, err)
			}
		}
	}

	logger.Debug().
		Str("bundle", root).
		Str("identifier", manifest.Identifier).
		Str("language", b.language.String()).
		Int("strings", len(b.strings)).
		Msg("bundle opened")

	return b, nil
}

func readManifest(fsys afero.Fs, root string) (Manifest, error) {
	m := Manifest{}
	data, err := afero.ReadFile(fsys, filepath.Join(root, manifestName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return m, errors.Errorf("reading %s: %w", manifestName, err)
	}
	if len(data) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return m, errors.Errorf("parsing %s: %w", manifestName, err)
		}
	}
	if m.Identifier == "" {
		m.Identifier = DefaultIdentifier
	}
	if m.TemplatesSubdir == "" {
		m.TemplatesSubdir = DefaultTemplatesSubdir
	}
	if m.DevelopmentLanguage == "" {
		m.DevelopmentLanguage = DefaultDevelopmentLanguage
	}
	return m, nil
}

// localizations maps each available language to its .lproj directory name
func (b *Bundle) localizations() (map[language.Tag]string, error) {
	entries, err := afero.ReadDir(b.fs, b.ResourcesDir())
	if err != nil {
		return nil, err
	}
	out := make(map[language.Tag]string)
	for _, e := range entries {
		if !e.IsDir() || !strings.HasSuffix(e.Name(), lprojSuffix) {
			continue
		}
		tag, ok := lprojTag(strings.TrimSuffix(e.Name(), lprojSuffix))
		if !ok {
			continue
		}
		out[tag] = e.Name()
	}
	return out, nil
}

// Root returns the bundle root directory.
func (b *Bundle) Root() string { return b.root }

// FS returns the filesystem the bundle lives on.
func (b *Bundle) FS() afero.Fs { return b.fs }

// Identifier returns the bundle identifier.
func (b *Bundle) Identifier() string { return b.manifest.Identifier }

// Language returns the language selected for localized strings.
func (b *Bundle) Language() language.Tag { return b.language }

// ResourcesDir returns the Resources directory.
func (b *Bundle) ResourcesDir() string {
	return filepath.Join(b.root, resourcesName)
}

// TemplatesDir returns the directory holding document templates.
func (b *Bundle) TemplatesDir() string {
	return filepath.Join(b.ResourcesDir(), b.manifest.TemplatesSubdir)
}

// 📄 Resource returns the path of a named resource, and whether it exists
func (b *Bundle) Resource(name string) (string, bool) {
	p := filepath.Join(b.ResourcesDir(), name)
	ok, err := afero.Exists(b.fs, p)
	return p, err == nil && ok
}

// 📄 ReadResource reads a named resource
func (b *Bundle) ReadResource(name string) ([]byte, error) {
	p, ok := b.Resource(name)
	if !ok {
		return nil, errors.WithDetails(os.ErrNotExist, "resource", name)
	}
	data, err := afero.ReadFile(b.fs, p)
	if err != nil {
		return nil, errors.Errorf("reading resource %s: %w", name, err)
	}
	return data, nil
}

// 🌐 LocalizedString looks key up in the localization tables, returning fallback when absent
func (b *Bundle) LocalizedString(key, fallback string) string {
	if v, ok := b.strings[key]; ok {
		return v
	}
	return fallback
}
