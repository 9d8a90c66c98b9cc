// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package release publishes SBOM files as assets of a GitHub release so
// that reference predicates can point to them.
package release

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	gh "github.com/carabiner-dev/github"
	"github.com/sirupsen/logrus"
)

const (
	TagName     = "sbom"
	ReleaseName = "SBOM Attestations"
	ReleaseBody = "This release contains SBOM files referenced by attestations."
)

var ErrNoUploadURL = errors.New("release has no upload URL")

// APICaller is the part of the GitHub client used by the publisher
type APICaller interface {
	Call(ctx context.Context, method, url string, body io.Reader) (*http.Response, error)
}

var _ APICaller = (*gh.Client)(nil)

// Release is the subset of the GitHub release object we read
type Release struct {
	ID        int64  `json:"id"`
	TagName   string `json:"tag_name"`
	UploadURL string `json:"upload_url"`
	HTMLURL   string `json:"html_url"`
}

type asset struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

type createReleaseRequest struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Body       string `json:"body"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
}

// UploadResult describes a published asset
type UploadResult struct {
	DownloadURL string
	AssetName   string
	ReleaseID   int64
}

// Publisher uploads files to the fixed SBOM release of a repository
type Publisher struct {
	Options    Options
	client     APICaller
	httpClient *http.Client
}

// New returns a publisher. When no caller is set, it creates a GitHub
// client using the configured token and API host.
func New(funcs ...optFn) (*Publisher, error) {
	p := &Publisher{
		Options: defaultOptions,
	}
	for _, fn := range funcs {
		if err := fn(p); err != nil {
			return nil, err
		}
	}

	if err := p.Options.Validate(); err != nil {
		return nil, fmt.Errorf("validating options: %w", err)
	}

	if p.client == nil {
		c, err := newClient(&p.Options)
		if err != nil {
			return nil, fmt.Errorf("creating GitHub client: %w", err)
		}
		p.client = c
	}

	if p.httpClient == nil {
		p.httpClient = http.DefaultClient
	}
	return p, nil
}

// newClient builds the API client. Without a token the client falls back
// to GITHUB_TOKEN, the token it ends up with is also used for uploads so
// both sides of the publication share one credential.
func newClient(opts *Options) (*gh.Client, error) {
	host := opts.APIHost
	if host == "" {
		host = gh.DefaultAPIHostname
	}
	c, err := gh.NewClient(gh.WithToken(opts.Token), gh.WithHost(host))
	if err != nil {
		return nil, err
	}
	if opts.Token == "" {
		opts.Token = c.Options.Token
	}
	logrus.Debugf("GitHub API client on %s", c.Options.Host)
	return c, nil
}

// Upload publishes the file at path as "<runID>-<basename>" in the
// release, creating the release if it does not exist yet.
func (p *Publisher) Upload(ctx context.Context, runID int64, path string) (*UploadResult, error) {
	rel, err := p.FindOrCreateRelease(ctx)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return p.UploadAsset(ctx, rel, AssetName(runID, path), data)
}

// FindOrCreateRelease looks up the release by tag. If the lookup returns
// a 404 the release is created, any other error is returned.
func (p *Publisher) FindOrCreateRelease(ctx context.Context) (*Release, error) {
	rel := &Release{}
	err := p.callJSON(
		ctx, http.MethodGet,
		fmt.Sprintf("/repos/%s/%s/releases/tags/%s", p.Options.Owner, p.Options.Repo, url.PathEscape(p.Options.Tag)),
		nil, rel,
	)
	if err == nil {
		logrus.Debugf("found release %d for tag %s", rel.ID, p.Options.Tag)
		return rel, nil
	}

	if !isNotFound(err) {
		return nil, err
	}

	logrus.Debugf("release %s not found in %s/%s, creating it", p.Options.Tag, p.Options.Owner, p.Options.Repo)
	payload, err := json.Marshal(&createReleaseRequest{
		TagName:    p.Options.Tag,
		Name:       p.Options.Name,
		Body:       p.Options.Body,
		Draft:      false,
		Prerelease: false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling release request: %w", err)
	}

	rel = &Release{}
	if err := p.callJSON(
		ctx, http.MethodPost,
		fmt.Sprintf("/repos/%s/%s/releases", p.Options.Owner, p.Options.Repo),
		bytes.NewReader(payload), rel,
	); err != nil {
		return nil, err
	}
	return rel, nil
}

// UploadAsset posts data as a named asset of the release and returns its
// browser download URL.
func (p *Publisher) UploadAsset(ctx context.Context, rel *Release, name string, data []byte) (*UploadResult, error) {
	target, err := assetUploadURL(rel, name)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	req.ContentLength = int64(len(data))
	req.Header.Set("Content-Type", p.Options.ContentType)
	req.Header.Set("Accept", "application/vnd.github+json")
	if p.Options.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Options.Token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096)) //nolint:errcheck
		return nil, fmt.Errorf("uploading asset %s: HTTP Error %d: %s", name, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	a := &asset{}
	if err := json.NewDecoder(resp.Body).Decode(a); err != nil {
		return nil, fmt.Errorf("parsing upload response: %w", err)
	}
	logrus.Debugf("uploaded %s (%d bytes) as asset %d", name, len(data), a.ID)

	return &UploadResult{
		DownloadURL: a.BrowserDownloadURL,
		AssetName:   name,
		ReleaseID:   rel.ID,
	}, nil
}

// assetUploadURL expands the release's hypermedia upload URL template
// ("https://uploads.github.com/.../assets{?name,label}") with the name.
func assetUploadURL(rel *Release, name string) (string, error) {
	if rel == nil || rel.UploadURL == "" {
		return "", ErrNoUploadURL
	}
	base, _, _ := strings.Cut(rel.UploadURL, "{")
	return base + "?name=" + url.QueryEscape(name), nil
}

// callJSON calls the API and decodes the response into v
func (p *Publisher) callJSON(ctx context.Context, method, path string, body io.Reader, v any) error {
	resp, err := p.client.Call(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("HTTP Error 404 calling %s", path)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// isNotFound checks if the GitHub client returned a 404. The client does
// not expose the status code so we match on the error text.
func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "HTTP Error 404")
}
