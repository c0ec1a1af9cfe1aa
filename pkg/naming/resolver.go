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

package naming

import (
	"strings"
)

// Localization keys of the two format strings.
const (
	MenuNameKey     = "templateMenuName"
	DocumentNameKey = "templateDocumentName"
)

const placeholder = "%@"

// 🌐 Localizer looks up localized strings, usually a *bundle.Bundle
type Localizer interface {
	LocalizedString(key, fallback string) string
}

// 🏷️ Resolver derives display names from raw template filenames
type Resolver struct {
	loc Localizer
}

// 🏭 NewResolver creates a resolver. A nil localizer leaves names untouched.
func NewResolver(loc Localizer) *Resolver {
	return &Resolver{loc: loc}
}

// ✂️ SplitExtensions splits name at its first dot. ext keeps the dot and is
// empty when name has none.
func SplitExtensions(name string) (base, ext string) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i:]
	}
	return name, ""
}

// ✂️ RemoveLastExtension drops the final dot-suffix only
func RemoveLastExtension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// 🏷️ DisplayName returns the localized base followed by the untouched extensions
func (r *Resolver) DisplayName(raw string, forMenu bool) string {
	base, ext := SplitExtensions(raw)

	key := DocumentNameKey
	if forMenu {
		key = MenuNameKey
	}

	format := placeholder
	if r.loc != nil {
		base = r.loc.LocalizedString(base, base)
		format = r.loc.LocalizedString(key, placeholder)
	}

	return Format(format, base) + ext
}

// 🏷️ MenuCaption is the text of the menu entry for a template
func (r *Resolver) MenuCaption(raw string) string {
	return RemoveLastExtension(r.DisplayName(raw, true))
}

// 🏷️ DocumentName is the name given to a document created from a template,
// before it is made unique
func (r *Resolver) DocumentName(raw string) string {
	return r.DisplayName(raw, false)
}

// 📝 Format substitutes arg into a localized format string. The first "%@" and
// every "%1$@" take arg, "%%" is a literal percent sign.
func Format(format, arg string) string {
	var b strings.Builder
	used := false
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 >= len(format) {
			b.WriteByte(format[i])
			continue
		}
		switch {
		case format[i+1] == '%':
			b.WriteByte('%')
			i++
		case format[i+1] == '@' && !used:
			b.WriteString(arg)
			used = true
			i++
		case strings.HasPrefix(format[i+1:], "1$@"):
			b.WriteString(arg)
			used = true
			i += 3
		default:
			b.WriteByte('%')
		}
	}
	return b.String()
}
