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

// Package plugin implements the contextual menu entry points: examining the
// context a menu is opened on, handling the chosen item and cleaning up after
// the menu closes.
package plugin

import (
	"context"

	"github.com/kemenaran/newdocumentplugin/pkg/copier"
)

// Localization key and fallback of the submenu title.
const (
	SubmenuTitleKey     = "submenuTitle"
	DefaultSubmenuTitle = "New Document"
)

// 📋 MenuItem is one entry of the submenu. CommandID is the index of the
// template in the catalog listing.
type MenuItem struct {
	Title     string `json:"title"`
	CommandID int    `json:"command_id"`
}

// 📋 Submenu is what ExamineContext contributes to the contextual menu
type Submenu struct {
	Title string     `json:"title"`
	Items []MenuItem `json:"items"`
}

// 🖱️ ContextualMenu is the contract between a menu host and the plugin
type ContextualMenu interface {
	// ExamineContext returns the submenu to show for sel, or nil
	ExamineContext(ctx context.Context, sel Selection) (*Submenu, error)
	// HandleSelection creates a document from the template at commandID.
	// It returns a nil task when sel is not a single directory.
	HandleSelection(ctx context.Context, sel Selection, commandID int) (*copier.Task, error)
	// PostMenuCleanup is called once the menu has closed
	PostMenuCleanup(ctx context.Context)
}

var _ ContextualMenu = (*Host)(nil)
