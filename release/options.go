// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"errors"
	"net/http"
	"strings"
)

var defaultOptions = Options{
	Tag:         TagName,
	Name:        ReleaseName,
	Body:        ReleaseBody,
	Retries:     3,
	ContentType: "application/octet-stream",
}

type optFn = func(*Publisher) error

type Options struct {
	Owner string
	Repo  string
	Tag   string
	Name  string
	Body  string

	// Token authenticates both the API client and the asset uploads
	Token       string
	ContentType string

	// APIHost is the API endpoint without scheme, eg "api.github.com" or
	// "ghe.example.com/api/v3" for GitHub Enterprise Server
	APIHost string

	// Retries is the number of attempts when downloading an asset
	// back for verification
	Retries uint
}

// WithRepo sets the repository from an owner/repo slug
func WithRepo(slug string) optFn {
	return func(p *Publisher) error {
		owner, repo, ok := strings.Cut(slug, "/")
		if !ok || owner == "" || repo == "" {
			return errors.New("repository must be specified as owner/repo")
		}
		p.Options.Owner = owner
		p.Options.Repo = repo
		return nil
	}
}

func WithTag(tag string) optFn {
	return func(p *Publisher) error {
		p.Options.Tag = tag
		return nil
	}
}

func WithToken(token string) optFn {
	return func(p *Publisher) error {
		p.Options.Token = token
		return nil
	}
}

// WithAPIHost sets the API endpoint. It takes a host or a full API URL
// (as in GITHUB_API_URL), the scheme and trailing slash are dropped.
func WithAPIHost(host string) optFn {
	return func(p *Publisher) error {
		host = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(host), "https://"), "http://")
		p.Options.APIHost = strings.TrimSuffix(host, "/")
		return nil
	}
}

func WithRetries(n uint) optFn {
	return func(p *Publisher) error {
		p.Options.Retries = n
		return nil
	}
}

// WithCaller replaces the GitHub API client
func WithCaller(c APICaller) optFn {
	return func(p *Publisher) error {
		p.client = c
		return nil
	}
}

// WithHTTPClient sets the client used to post to the uploads host
func WithHTTPClient(c *http.Client) optFn {
	return func(p *Publisher) error {
		p.httpClient = c
		return nil
	}
}

func (o *Options) Validate() error {
	errs := []error{}
	if o.Owner == "" || o.Repo == "" {
		errs = append(errs, errors.New("no repository set"))
	}
	if o.Tag == "" {
		errs = append(errs, errors.New("no release tag set"))
	}
	return errors.Join(errs...)
}
