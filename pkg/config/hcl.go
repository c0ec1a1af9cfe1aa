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

package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"default_bound": cty.NumberIntVal(DefaultUniquenessBound),
		},
	}

	type hclConfig struct {
		Bundle          string   `hcl:"bundle,optional"`
		Language        string   `hcl:"language,optional"`
		UniquenessBound int      `hcl:"uniqueness_bound,optional"`
		IgnorePatterns  []string `hcl:"ignore_patterns,optional"`
		ShowExtension   bool     `hcl:"show_extension,optional"`
		SkipRename      bool     `hcl:"skip_rename,optional"`
		Overwrite       bool     `hcl:"overwrite,optional"`
		Source          *struct {
			Provider string `hcl:"provider,optional"`
			Repo     string `hcl:"repo"`
			Ref      string `hcl:"ref,optional"`
			Path     string `hcl:"path,optional"`
		} `hcl:"source,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Bundle:          hclCfg.Bundle,
		Language:        hclCfg.Language,
		UniquenessBound: hclCfg.UniquenessBound,
		IgnorePatterns:  hclCfg.IgnorePatterns,
		ShowExtension:   hclCfg.ShowExtension,
		SkipRename:      hclCfg.SkipRename,
		Overwrite:       hclCfg.Overwrite,
	}

	if hclCfg.Source != nil {
		cfg.Source = &SourceArgs{
			Provider: hclCfg.Source.Provider,
			Repo:     hclCfg.Source.Repo,
			Ref:      hclCfg.Source.Ref,
			Path:     hclCfg.Source.Path,
		}
	}

	return cfg, nil
}
