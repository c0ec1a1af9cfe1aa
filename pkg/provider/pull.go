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

package provider

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kemenaran/newdocumentplugin/pkg/config"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// maxParallelDownloads bounds concurrent GetFile calls.
const maxParallelDownloads = 4

// ErrUnsafePath is returned when a provider lists a file outside the target directory.
var ErrUnsafePath = errors.Base("path escapes templates directory")

// 📦 PullResult describes a finished pull
type PullResult struct {
	Source     string   // human readable source, repo@sha
	CommitHash string   // commit the files were read at
	Files      []string // written, relative to the templates directory
	Skipped    []string // matched an ignore pattern
}

// 📥 Pull downloads every file of args into templatesDir. Existing files with
// the same name are replaced, other files are left alone.
func Pull(ctx context.Context, p Provider, args config.SourceArgs, fsys afero.Fs, templatesDir string, ignorePatterns []string) (*PullResult, error) {
	logger := zerolog.Ctx(ctx)

	commitHash, err := p.GetCommitHash(ctx, args)
	if err != nil {
		return nil, errors.Errorf("getting commit hash: %w", err)
	}

	source, err := p.GetSourceInfo(ctx, args, commitHash)
	if err != nil {
		return nil, errors.Errorf("getting source info: %w", err)
	}

	files, err := p.ListFiles(ctx, args)
	if err != nil {
		return nil, errors.Errorf("listing files: %w", err)
	}

	res := &PullResult{Source: source, CommitHash: commitHash}

	var wanted []string
	for _, f := range files {
		if ignored(ctx, f, ignorePatterns) {
			res.Skipped = append(res.Skipped, f)
			continue
		}
		wanted = append(wanted, f)
	}

	if err := fsys.MkdirAll(templatesDir, 0o755); err != nil {
		return nil, errors.Errorf("creating templates directory: %w", err)
	}

	var (
		mu    sync.Mutex
		group errgroup.Group
	)
	group.SetLimit(maxParallelDownloads)

	for _, f := range wanted {
		f := f
		group.Go(func() error {
			if err := writeFile(ctx, p, args, fsys, templatesDir, f); err != nil {
				return errors.Errorf("pulling %s: %w", f, err)
			}
			mu.Lock()
			res.Files = append(res.Files, f)
			mu.Unlock()
			logger.Debug().Str("file", f).Msg("template pulled")
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(res.Files)
	return res, nil
}

// target maps a provider path below templatesDir, rejecting anything that escapes it
func target(templatesDir, file string) (string, error) {
	dst := filepath.Join(templatesDir, filepath.FromSlash(file))
	rel, err := filepath.Rel(templatesDir, dst)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.WithDetails(ErrUnsafePath, "file", file)
	}
	return dst, nil
}

func writeFile(ctx context.Context, p Provider, args config.SourceArgs, fsys afero.Fs, templatesDir, file string) error {
	dst, err := target(templatesDir, file)
	if err != nil {
		return err
	}

	rc, err := p.GetFile(ctx, args, file)
	if err != nil {
		return errors.Errorf("getting file: %w", err)
	}
	defer rc.Close()

	if err := fsys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	out, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Errorf("creating file: %w", err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return errors.Errorf("writing file: %w", err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing file: %w", err)
	}
	return nil
}

// 🔍 ignored matches patterns against the base name and the whole path
func ignored(ctx context.Context, file string, patterns []string) bool {
	for _, pattern := range patterns {
		for _, candidate := range []string{path.Base(file), file} {
			matched, err := doublestar.Match(pattern, candidate)
			if err != nil {
				zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("file", file).Err(err).Msg("error matching pattern")
				continue
			}
			if matched {
				zerolog.Ctx(ctx).Debug().Str("file", file).Str("pattern", pattern).Msg("file ignored by pattern")
				return true
			}
		}
	}
	return false
}
