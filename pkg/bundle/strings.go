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
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// 🌐 Table is a localization table: exact keys to localized strings
type Table map[string]string

// legacyLprojNames maps old-style .lproj directory names to language tags
var legacyLprojNames = map[string]string{
	"English":  "en",
	"French":   "fr",
	"German":   "de",
	"Spanish":  "es",
	"Italian":  "it",
	"Dutch":    "nl",
	"Japanese": "ja",
}

// load merges every Localizable table found in dir into t
func (t Table) load(fsys afero.Fs, dir string) error {
	for _, ext := range []string{".yaml", ".yml", ".json", ".hcl"} {
		path := filepath.Join(dir, tableName+ext)
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			continue
		}
		parsed, err := parseTable(path, data)
		if err != nil {
			return errors.Errorf("parsing %s: %w", path, err)
		}
		for k, v := range parsed {
			t[k] = v
		}
	}
	return nil
}

// parseTable decodes a table, the format is chosen from the file extension
func parseTable(path string, data []byte) (Table, error) {
	out := Table{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, errors.Errorf("parsing JSON: %w", err)
		}
	case ".hcl":
		file, diags := hclparse.NewParser().ParseHCL(data, filepath.Base(path))
		if diags.HasErrors() {
			return nil, errors.Errorf("parsing HCL: %s", diags.Error())
		}
		var body struct {
			Strings map[string]string `hcl:"strings"`
		}
		if diags := gohcl.DecodeBody(file.Body, &hcl.EvalContext{}, &body); diags.HasErrors() {
			return nil, errors.Errorf("decoding HCL: %s", diags.Error())
		}
		for k, v := range body.Strings {
			out[k] = v
		}
	default:
		return nil, errors.Errorf("unsupported table format %q", filepath.Ext(path))
	}
	return out, nil
}

// lprojTag converts an .lproj directory name ("fr", "pt_BR", "French") to a tag
func lprojTag(name string) (language.Tag, bool) {
	if legacy, ok := legacyLprojNames[name]; ok {
		name = legacy
	}
	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return language.Und, false
	}
	return tag, true
}

// matchLanguage picks the available language closest to requested, or dev
func matchLanguage(dev language.Tag, available map[language.Tag]string, requested string) language.Tag {
	requested = normalizeLocale(requested)
	if requested == "" {
		return dev
	}
	want, err := language.Parse(requested)
	if err != nil {
		return dev
	}

	others := make([]language.Tag, 0, len(available))
	for tag := range available {
		if tag != dev {
			others = append(others, tag)
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i].String() < others[j].String() })
	supported := append([]language.Tag{dev}, others...)

	_, idx, conf := language.NewMatcher(supported).Match(want)
	if conf == language.No {
		return dev
	}
	return supported[idx]
}

// normalizeLocale turns a POSIX locale ("fr_FR.UTF-8@euro") into a BCP 47 string
func normalizeLocale(s string) string {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}
