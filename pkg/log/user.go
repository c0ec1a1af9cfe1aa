package log

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger provides user-friendly feedback about created documents
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
}

// 🎨 DocumentChangeType represents what happened to a document
type DocumentChangeType int

const (
	DocumentCreated DocumentChangeType = iota
	DocumentScheduled
	DocumentSkipped
	DocumentFailed
	TemplatePulled
)

// 🖼️ DocumentChange represents a change made on behalf of the user
type DocumentChange struct {
	Type        DocumentChangeType
	Path        string
	Description string
	Error       error
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// 📝 LogDocumentChange logs a document change with appropriate emoji and formatting
func (u *UserLogger) LogDocumentChange(change DocumentChange) {
	name := filepath.Base(change.Path)

	var action string
	var printer *pterm.PrefixPrinter
	switch change.Type {
	case DocumentCreated:
		action = "Created"
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "✨"})
	case DocumentScheduled:
		action = "Scheduled"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "⏳"})
	case DocumentSkipped:
		action = "Skipped"
		printer = pterm.Debug.WithPrefix(pterm.Prefix{Text: "⏭️"})
	case TemplatePulled:
		action = "Pulled"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "📥"})
	default:
		action = "Failed"
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"})
	}

	msg := fmt.Sprintf("%s %s", action, name)
	if change.Description != "" {
		msg += fmt.Sprintf(" (%s)", change.Description)
	}

	printer.Println(msg)
	if change.Error != nil {
		pterm.Error.Println(change.Error)
		u.log.Error().Err(change.Error).Str("path", change.Path).Msg(msg)
		return
	}
	u.log.Info().Str("path", change.Path).Msg(msg)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
		pterm.Error.Println(err)
		u.log.Error().Err(err).Msg(description)
		return
	}
	pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
	u.log.Warn().Msg(description)
}

// 🌳 LogSubmenu renders a submenu as a tree
func (u *UserLogger) LogSubmenu(title string, captions []string) {
	children := make([]pterm.LeveledListItem, 0, len(captions)+1)
	children = append(children, pterm.LeveledListItem{Level: 0, Text: title})
	for i, c := range captions {
		children = append(children, pterm.LeveledListItem{Level: 1, Text: fmt.Sprintf("[%d] %s", i, c)})
	}
	root := pterm.NewTreeFromLeveledList(children)
	if err := pterm.DefaultTree.WithRoot(root).Render(); err != nil {
		u.log.Debug().Err(err).Msg("rendering submenu tree")
	}
	u.log.Debug().Str("title", title).Int("items", len(captions)).Msg("submenu rendered")
}
