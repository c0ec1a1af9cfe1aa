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

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_document_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogDocumentOperation(context.Background(), DocumentOperation{
					Name:     "Letter.txt",
					Template: "Letter.txt",
					Status:   "created",
					IsNew:    true,
				})
			},
			wantLogs: []string{
				fmt.Sprintf("✓ %-35s %-20s %s", "Letter.txt", "Letter.txt", "created"),
			},
		},
		{
			name: "log_menu_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartMenuOperation(context.Background(), MenuOperation{
					Title:     "New Document",
					Directory: "/tmp/docs",
					Items:     2,
				})
				logger.MenuItem(0, "Plain Text")
				logger.MenuItem(1, "Markdown")
			},
			wantLogs: []string{
				"[/tmp/docs]",
				"◆ New Document • 2 templates",
				"0 Plain Text",
				"1 Markdown",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("creating document")
			},
			wantLogs: []string{
				"newdoc • creating document",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.InfoLevel)

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestDocumentOperationFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   DocumentOperation
		want string
	}{
		{
			name: "created",
			op:   DocumentOperation{Name: "Letter.txt", Template: "Letter.txt", Status: "created", IsNew: true},
			want: fmt.Sprintf("✓ %-35s %-20s %s", "Letter.txt", "Letter.txt", "created"),
		},
		{
			name: "created_with_counter",
			op:   DocumentOperation{Name: "Letter 3.txt", Template: "Letter.txt", Status: "created", IsNew: true, Renamed: true},
			want: fmt.Sprintf("⟳ %-35s %-20s %s", "Letter 3.txt", "Letter.txt", "created"),
		},
		{
			name: "pending",
			op:   DocumentOperation{Name: "Letter.txt", Template: "Letter.txt", Status: "pending", IsPending: true},
			want: fmt.Sprintf("… %-35s %-20s %s", "Letter.txt", "Letter.txt", "pending"),
		},
		{
			name: "failed",
			op:   DocumentOperation{Name: "Letter.txt", Template: "Letter.txt", Status: "failed", IsFailed: true},
			want: fmt.Sprintf("✗ %-35s %-20s %s", "Letter.txt", "Letter.txt", "failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			logger.LogDocumentOperation(context.Background(), tt.op)

			output := strings.TrimSpace(buf.String())
			assert.Equal(t, tt.want, output, "formatted output should match")
		})
	}
}
