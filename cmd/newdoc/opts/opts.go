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

package opts

import (
	"github.com/kemenaran/newdocumentplugin/pkg/automation"
	"github.com/kemenaran/newdocumentplugin/pkg/config"
	"github.com/kemenaran/newdocumentplugin/pkg/log"
	"github.com/kemenaran/newdocumentplugin/pkg/plugin"
	"github.com/spf13/afero"
)

// RootOpts contains shared options used by all commands. Config is filled in
// once flags are parsed.
type RootOpts struct {
	Config     *config.Config
	UserLogger *log.UserLogger
	Console    *log.Logger
	FS         afero.Fs
	Runner     automation.Runner // osascript when nil
}

// 🏠 NewHost creates an uninitialized plugin host from the loaded configuration
func (o *RootOpts) NewHost() *plugin.Host {
	return plugin.NewHost(plugin.Options{
		Config: o.Config,
		FS:     o.FS,
		Runner: o.Runner,
	})
}
