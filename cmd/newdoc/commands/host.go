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

package commands

import (
	"context"
	"strconv"

	"github.com/kemenaran/newdocumentplugin/cmd/newdoc/opts"
	"github.com/kemenaran/newdocumentplugin/pkg/plugin"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// withHost runs fn between Initialize and Shutdown of a fresh host
func withHost(ctx context.Context, o *opts.RootOpts, fn func(host *plugin.Host) error) error {
	host := o.NewHost()
	host.Retain()
	if err := host.Initialize(ctx); err != nil {
		return errors.Errorf("initializing plugin: %w", err)
	}

	err := fn(host)

	if _, rerr := host.Release(ctx); rerr != nil {
		zerolog.Ctx(ctx).Warn().Err(rerr).Msg("releasing plugin")
	}
	return err
}

// folderSelection turns an optional folder argument into a selection, the
// working directory by default
func folderSelection(dir string) (plugin.Selection, error) {
	if dir == "" {
		dir = "."
	}
	sel, err := plugin.ParseSelection(dir)
	if err != nil {
		return nil, errors.Errorf("parsing folder: %w", err)
	}
	return sel, nil
}

// resolveCommandID accepts a command id or a raw template filename
func resolveCommandID(ctx context.Context, host *plugin.Host, ref string) (int, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		return id, nil
	}
	id, err := host.CommandID(ctx, ref)
	if err != nil {
		return -1, errors.Errorf("finding template %q: %w", ref, err)
	}
	return id, nil
}
