// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package attester

import (
	"errors"
	"fmt"
	"strings"

	"github.com/carabiner-dev/attester/store"
)

// Mode selects the kind of predicate the agent generates
type Mode string

const (
	// ModeReference uploads the SBOM and generates a reference predicate
	ModeReference Mode = "reference"

	// ModeEmbedded generates a predicate containing the SBOM itself
	ModeEmbedded Mode = "embedded"
)

// WorkflowRefVariable is the CI variable identifying the running workflow
const WorkflowRefVariable = "GITHUB_WORKFLOW_REF"

//nolint:staticcheck // Surfaced verbatim to the user
var ErrMissingWorkflowRef = fmt.Errorf("Missing %s environment variable", WorkflowRefVariable)

var defaultOptions = Options{
	Mode:      ModeReference,
	ServerURL: "https://github.com",
}

// Options groups the configuration of an attester run
type Options struct {
	Mode     Mode
	SBOMPath string

	// TempDir is the base directory for the output files
	TempDir string

	// GitHub context, only needed in reference mode
	ServerURL   string
	Repository  string
	WorkflowRef string
	RunID       int64
	Token       string

	// APIHost is the GitHub API endpoint, empty means api.github.com
	APIHost string

	// VerifyUpload downloads the uploaded SBOM and checks its digest
	VerifyUpload bool

	// WriteStatement also writes an unsigned in-toto statement
	WriteStatement bool
}

// Validate checks the options before any work is done. The errors about
// missing CI variables are returned alone so their text is preserved.
func (o *Options) Validate() error {
	errs := []error{}
	switch o.Mode {
	case ModeReference, ModeEmbedded:
	default:
		errs = append(errs, fmt.Errorf("invalid mode %q", o.Mode))
	}
	if o.SBOMPath == "" {
		errs = append(errs, errors.New("no SBOM path set"))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if o.TempDir == "" {
		return store.ErrMissingTempDir
	}

	if o.Mode != ModeReference {
		return nil
	}

	if o.WorkflowRef == "" {
		return ErrMissingWorkflowRef
	}
	if o.ServerURL == "" {
		errs = append(errs, errors.New("no server URL set"))
	}
	if owner, repo, ok := strings.Cut(o.Repository, "/"); !ok || owner == "" || repo == "" {
		errs = append(errs, fmt.Errorf("invalid repository %q", o.Repository))
	}
	if o.RunID <= 0 {
		errs = append(errs, errors.New("no workflow run ID set"))
	}
	return errors.Join(errs...)
}

type InitFunction func(*Agent) error

func WithOptions(opts *Options) InitFunction {
	return func(agent *Agent) error {
		agent.Options = *opts
		return nil
	}
}

func WithMode(mode Mode) InitFunction {
	return func(agent *Agent) error {
		agent.Options.Mode = mode
		return nil
	}
}

func WithSBOMPath(path string) InitFunction {
	return func(agent *Agent) error {
		agent.Options.SBOMPath = path
		return nil
	}
}

func WithTempDir(dir string) InitFunction {
	return func(agent *Agent) error {
		agent.Options.TempDir = dir
		return nil
	}
}

// WithPublisher sets the publisher used in reference mode
func WithPublisher(pub Publisher) InitFunction {
	return func(agent *Agent) error {
		agent.Publisher = pub
		return nil
	}
}
