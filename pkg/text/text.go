// Package text applies literal replacements to script sources before they are
// handed to the automation runner.
package text

// 🔁 ReplacementRule replaces every occurrence of FromText with ToText in
// sources whose name matches FileFilterGlob. An empty glob matches every source.
type ReplacementRule struct {
	FromText       string `json:"from_text" yaml:"from_text"`
	ToText         string `json:"to_text" yaml:"to_text"`
	FileFilterGlob string `json:"file_filter_glob,omitempty" yaml:"file_filter_glob,omitempty"`
}

// 📄 ReplacementResult holds the outcome of a replacement pass
type ReplacementResult struct {
	OriginalContent  []byte
	ModifiedContent  []byte
	ReplacementCount int
	WasModified      bool
}
