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

package github

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/kemenaran/newdocumentplugin/pkg/config"
	"github.com/kemenaran/newdocumentplugin/pkg/provider"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
)

func init() {
	provider.Register("github", New)
}

// 🎯 Provider implements the provider interface for GitHub
type Provider struct {
	client *github.Client
}

// 🏭 New creates a GitHub provider, authenticated when GITHUB_TOKEN is set
func New(ctx context.Context) (provider.Provider, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		zerolog.Ctx(ctx).Debug().Msg("GITHUB_TOKEN not set, using unauthenticated requests")
		return NewWithClient(github.NewClient(nil)), nil
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return NewWithClient(github.NewClient(oauth2.NewClient(ctx, ts))), nil
}

// 🏭 NewWithClient creates a provider around an existing client
func NewWithClient(client *github.Client) *Provider {
	return &Provider{client: client}
}

// 🔍 parseRepo parses "owner/name", "github.com/owner/name" or a GitHub URL
func (p *Provider) parseRepo(repo string) (owner, name string, err error) {
	repo = strings.TrimPrefix(repo, "https://")
	repo = strings.TrimPrefix(repo, "http://")
	repo = strings.TrimPrefix(repo, "github.com/")
	repo = strings.TrimSuffix(strings.TrimSuffix(repo, "/"), ".git")

	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid GitHub repository URL: %s", repo)
	}

	return parts[0], parts[1], nil
}

// 📂 ListFiles returns the blobs below args.Path, relative to it and sorted
func (p *Provider) ListFiles(ctx context.Context, args config.SourceArgs) ([]string, error) {
	owner, name, err := p.parseRepo(args.Repo)
	if err != nil {
		return nil, errors.Errorf("parsing repo: %w", err)
	}

	tree, _, err := p.client.Git.GetTree(ctx, owner, name, args.Ref, true)
	if err != nil {
		return nil, errors.Errorf("getting repository tree: %w", err)
	}
	if tree.GetTruncated() {
		zerolog.Ctx(ctx).Warn().Str("repo", args.Repo).Msg("repository tree truncated, some templates may be missing")
	}

	prefix := ""
	if args.Path != "" {
		prefix = strings.Trim(args.Path, "/") + "/"
	}

	var files []string
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}

		entryPath := entry.GetPath()
		if !strings.HasPrefix(entryPath, prefix) {
			continue
		}

		files = append(files, strings.TrimPrefix(entryPath, prefix))
	}

	sort.Strings(files)
	return files, nil
}

// 🔍 GetFile retrieves a single file's contents
func (p *Provider) GetFile(ctx context.Context, args config.SourceArgs, file string) (io.ReadCloser, error) {
	owner, name, err := p.parseRepo(args.Repo)
	if err != nil {
		return nil, errors.Errorf("parsing repo: %w", err)
	}

	content, _, _, err := p.client.Repositories.GetContents(ctx, owner, name, path.Join(args.Path, file), &github.RepositoryContentGetOptions{
		Ref: args.Ref,
	})
	if err != nil {
		return nil, errors.Errorf("getting file content: %w", err)
	}
	if content == nil {
		return nil, errors.Errorf("%s is a directory", file)
	}

	// the contents API leaves large files unencoded and empty
	if content.GetEncoding() == "none" && content.GetDownloadURL() != "" {
		return provider.DownloadFile(ctx, p.client.Client(), content.GetDownloadURL())
	}

	data, err := content.GetContent()
	if err != nil {
		return nil, errors.Errorf("decoding content: %w", err)
	}

	return io.NopCloser(strings.NewReader(data)), nil
}

// 🎯 GetCommitHash returns the commit hash for the current ref
func (p *Provider) GetCommitHash(ctx context.Context, args config.SourceArgs) (string, error) {
	owner, name, err := p.parseRepo(args.Repo)
	if err != nil {
		return "", errors.Errorf("parsing repo: %w", err)
	}

	sha, _, err := p.client.Repositories.GetCommitSHA1(ctx, owner, name, args.Ref, "")
	if err != nil {
		return "", errors.Errorf("getting commit: %w", err)
	}

	return sha, nil
}

// 📝 GetSourceInfo returns a string describing the source
func (p *Provider) GetSourceInfo(ctx context.Context, args config.SourceArgs, commitHash string) (string, error) {
	short := commitHash
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s@%s", args.Repo, short), nil
}
