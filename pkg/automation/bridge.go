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

// Package automation asks the file manager to act on newly created documents
// by running AppleScript.
package automation

import (
	"bytes"
	"context"
	"embed"
	"os"
	"path"
	"sync"

	"github.com/kemenaran/newdocumentplugin/pkg/text"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Script resource names, looked up in the bundle resources first.
const (
	EditItemScript      = "EditFinderItem.applescript"
	HideExtensionScript = "HideExtension.applescript"
)

//go:embed scripts/*.applescript
var defaultScripts embed.FS

// 📚 ScriptSource provides script overrides, usually a *bundle.Bundle
type ScriptSource interface {
	ReadResource(name string) ([]byte, error)
}

// 🌉 Bridge runs the rename and hide-extension scripts. Sources are loaded once
// and cached until Close.
type Bridge struct {
	source   ScriptSource
	runner   Runner
	replacer *text.SimpleTextReplacer

	mu     sync.Mutex
	cache  map[string][]byte
	closed bool
}

// 🏭 NewBridge creates a bridge. A nil source uses the embedded scripts, a nil
// runner uses osascript.
func NewBridge(source ScriptSource, runner Runner) *Bridge {
	if runner == nil {
		runner = NewOsascriptRunner()
	}
	return &Bridge{
		source:   source,
		runner:   runner,
		replacer: text.NewSimpleTextReplacer(),
		cache:    make(map[string][]byte),
	}
}

// ✏️ RevealForRename selects itemName in the frontmost file manager window and
// starts editing its name
func (b *Bridge) RevealForRename(ctx context.Context, itemName string) error {
	return b.run(ctx, EditItemScript, text.SetProperty("theItem", itemName))
}

// 🙈 HideExtension hides the filename extension of the item at path
func (b *Bridge) HideExtension(ctx context.Context, path string) error {
	return b.run(ctx, HideExtensionScript, text.SetProperty("thePath", path))
}

// 🧹 Close drops the cached scripts. Later calls fail.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cache = nil
	b.closed = true
	return nil
}

func (b *Bridge) run(ctx context.Context, name string, rules ...text.ReplacementRule) error {
	src, err := b.script(ctx, name)
	if err != nil {
		return err
	}

	result, err := b.replacer.ReplaceText(ctx, name, bytes.NewReader(src), rules)
	if err != nil {
		return errors.Errorf("binding %s: %w", name, err)
	}
	if !result.WasModified {
		return errors.Errorf("binding %s: script declares no settable property", name)
	}

	if _, err := b.runner.Run(ctx, result.ModifiedContent); err != nil {
		return errors.Errorf("running %s: %w", name, err)
	}

	zerolog.Ctx(ctx).Debug().Str("script", name).Msg("script executed")
	return nil
}

func (b *Bridge) script(ctx context.Context, name string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, errors.Errorf("automation bridge is closed")
	}

	if src, ok := b.cache[name]; ok {
		return src, nil
	}

	src, err := b.load(ctx, name)
	if err != nil {
		return nil, err
	}
	b.cache[name] = src
	return src, nil
}

func (b *Bridge) load(ctx context.Context, name string) ([]byte, error) {
	if b.source != nil {
		src, err := b.source.ReadResource(name)
		if err == nil {
			zerolog.Ctx(ctx).Debug().Str("script", name).Msg("using bundled script")
			return src, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Errorf("loading %s: %w", name, err)
		}
	}

	src, err := defaultScripts.ReadFile(path.Join("scripts", name))
	if err != nil {
		return nil, errors.Errorf("loading embedded %s: %w", name, err)
	}
	return src, nil
}
