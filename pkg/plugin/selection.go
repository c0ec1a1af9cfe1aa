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

package plugin

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 🖱️ Selection is the context a menu was opened on: the paths of the selected
// items, or of the folder whose background was clicked
type Selection []string

// 🏭 ParseSelection accepts POSIX paths and file:// URLs
func ParseSelection(items ...string) (Selection, error) {
	sel := make(Selection, 0, len(items))
	for _, item := range items {
		p := item
		if strings.HasPrefix(item, "file://") {
			u, err := url.Parse(item)
			if err != nil {
				return nil, errors.Errorf("parsing %q: %w", item, err)
			}
			p = u.Path
		}
		if p == "" {
			return nil, errors.Errorf("empty selection item %q", item)
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Errorf("resolving %q: %w", p, err)
		}
		sel = append(sel, abs)
	}
	return sel, nil
}

// 📁 Directory returns the selected directory when the selection is exactly
// one existing directory
func (s Selection) Directory(fsys afero.Fs) (string, bool) {
	if len(s) != 1 {
		return "", false
	}
	ok, err := afero.IsDir(fsys, s[0])
	if err != nil || !ok {
		return "", false
	}
	return s[0], true
}
