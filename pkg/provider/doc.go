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

/*
Package provider pulls document templates from a remote repository into a
bundle's templates directory.

	+------------+      +------------+      +---------------+
	|   config   | ---> |  Provider  | ---> |  Templates/   |
	|  (source)  |      |  (GitHub)  |      |   (bundle)    |
	+------------+      +------------+      +---------------+

🎯 Purpose:
- Lists the files under a path of a repository at a ref
- Downloads them concurrently
- Writes them below the templates directory, skipping ignored names

🔍 Example:

	p, err := provider.Get(ctx, "github")
	if err != nil {
		return err
	}
	res, err := provider.Pull(ctx, p, *cfg.Source, fsys, b.TemplatesDir(), cfg.IgnorePatterns)
*/
package provider
