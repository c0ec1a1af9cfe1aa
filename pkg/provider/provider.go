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

package provider

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/kemenaran/newdocumentplugin/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Provider is the interface for repository providers
type Provider interface {
	// 📂 ListFiles returns the files below args.Path, relative to it
	ListFiles(ctx context.Context, args config.SourceArgs) ([]string, error)

	// 📄 GetFile retrieves a single file's contents, path is relative to args.Path
	GetFile(ctx context.Context, args config.SourceArgs, path string) (io.ReadCloser, error)

	// 🎯 GetCommitHash returns the commit hash for the current ref
	GetCommitHash(ctx context.Context, args config.SourceArgs) (string, error)

	// 📝 GetSourceInfo returns a string describing the source
	GetSourceInfo(ctx context.Context, args config.SourceArgs, commitHash string) (string, error)
}

// 🏭 Factory creates a new provider
type Factory func(ctx context.Context) (Provider, error)

var (
	mu sync.RWMutex
	// 🗺️ providers is a map of provider names to factories
	providers = make(map[string]Factory)
)

// 📝 Register registers a provider factory
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// 🎯 Get creates the provider registered under name
func Get(ctx context.Context, name string) (Provider, error) {
	mu.RLock()
	factory, ok := providers[name]
	mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("provider %s not found, options: %s", name, strings.Join(Names(), ", "))
	}
	return factory(ctx)
}

// Names returns the registered provider names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(providers))
	for k := range providers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// 📥 DownloadFile downloads a file from a URL
func DownloadFile(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Errorf("downloading file: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
