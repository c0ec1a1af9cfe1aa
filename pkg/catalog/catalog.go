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

// Package catalog enumerates the document templates shipped in a bundle.
//
// The catalog is stateless: every call re-reads the templates directory, and
// the position of a template in the listing is the command id used by the
// contextual menu to refer to it.
package catalog

import (
	"context"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// ErrUnknownCommand is returned when a command id does not map to a template.
var ErrUnknownCommand = errors.Base("unknown template command")

// 📄 Template is one bundled document template
type Template struct {
	Name string `json:"name"` // raw filename, extensions included
	Path string `json:"path"` // absolute source path
}

// 📂 Source resolves the templates directory, usually a *bundle.Bundle
type Source interface {
	FS() afero.Fs
	TemplatesDir() string
}

// 📚 Catalog lists templates from a Source
type Catalog struct {
	open           func(ctx context.Context) (Source, error)
	ignorePatterns []string
}

// 🏭 New creates a catalog. open is called on every listing; an error from it
// yields an empty catalog.
func New(open func(ctx context.Context) (Source, error), ignorePatterns []string) *Catalog {
	return &Catalog{
		open:           open,
		ignorePatterns: ignorePatterns,
	}
}

// 🏭 Static creates a catalog over an already opened source.
func Static(src Source, ignorePatterns []string) *Catalog {
	return New(func(context.Context) (Source, error) { return src, nil }, ignorePatterns)
}

// 📋 List returns the templates in directory enumeration order. Failures are
// logged and produce an empty result.
func (c *Catalog) List(ctx context.Context) []Template {
	logger := zerolog.Ctx(ctx)

	src, err := c.open(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("cannot resolve template bundle")
		return nil
	}

	dir := src.TemplatesDir()
	entries, err := afero.ReadDir(src.FS(), dir)
	if err != nil {
		logger.Warn().Err(err).Str("dir", dir).Msg("cannot read templates directory")
		return nil
	}

	templates := make([]Template, 0, len(entries))
	for _, e := range entries {
		if c.shouldIgnore(ctx, e.Name()) {
			continue
		}
		templates = append(templates, Template{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
		})
	}

	logger.Debug().Str("dir", dir).Int("templates", len(templates)).Msg("templates listed")
	return templates
}

// 🎯 At re-lists the templates and returns the one at commandID
func (c *Catalog) At(ctx context.Context, commandID int) (Template, error) {
	templates := c.List(ctx)
	if commandID < 0 || commandID >= len(templates) {
		return Template{}, errors.WithDetails(ErrUnknownCommand, "command", commandID, "templates", len(templates))
	}
	return templates[commandID], nil
}

// 🔍 Find re-lists the templates and returns the command id of the named one
func (c *Catalog) Find(ctx context.Context, name string) (int, error) {
	for i, t := range c.List(ctx) {
		if t.Name == name {
			return i, nil
		}
	}
	return -1, errors.WithDetails(ErrUnknownCommand, "template", name)
}

// 🔍 shouldIgnore checks if a directory entry is excluded from the menu
func (c *Catalog) shouldIgnore(ctx context.Context, name string) bool {
	for _, pattern := range c.ignorePatterns {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("name", name).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			zerolog.Ctx(ctx).Debug().Str("template", name).Str("pattern", pattern).Msg("template ignored by pattern")
			return true
		}
	}
	return false
}
