// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package attester generates the predicates used to attest an SBOM. The
// agent classifies the SBOM, optionally publishes it to a release and
// writes the resulting predicate to disk.
package attester

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/carabiner-dev/attester/digest"
	"github.com/carabiner-dev/attester/predicate"
	"github.com/carabiner-dev/attester/release"
	"github.com/carabiner-dev/attester/sbom"
	"github.com/carabiner-dev/attester/statement/intoto"
	"github.com/carabiner-dev/attester/store"
)

// Publisher uploads the SBOM so a reference predicate can point to it
type Publisher interface {
	Upload(ctx context.Context, runID int64, path string) (*release.UploadResult, error)
	VerifyAsset(ctx context.Context, downloadURL, expected string) error
}

var _ Publisher = (*release.Publisher)(nil)

// New returns a new agent with the default options
func New(funcs ...InitFunction) (*Agent, error) {
	agent := NewWithOptions(&defaultOptions)
	for _, fn := range funcs {
		if err := fn(agent); err != nil {
			return nil, err
		}
	}
	return agent, nil
}

// NewWithOptions returns a new agent configured with a specific options set
func NewWithOptions(opts *Options) *Agent {
	return &Agent{
		Options: *opts,
	}
}

// Agent runs the steps to go from an SBOM file to a stored predicate.
// If Publisher is nil, a release publisher is created from the options
// when running in reference mode.
type Agent struct {
	Options   Options
	Publisher Publisher
}

// Result holds the outputs of a successful run
type Result struct {
	PredicatePath string
	PredicateType string
	StatementPath string
}

// Run executes the steps in order and stops at the first error. Errors
// from the SBOM, predicate and store packages are returned unwrapped.
func (agent *Agent) Run(ctx context.Context) (*Result, error) {
	if err := agent.Options.Validate(); err != nil {
		return nil, err
	}

	st, err := store.New(store.WithTempDir(agent.Options.TempDir))
	if err != nil {
		return nil, err
	}

	logrus.Debugf("Reading SBOM from %s", agent.Options.SBOMPath)
	doc, err := sbom.ParseFile(agent.Options.SBOMPath)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("SBOM is %s", doc.Kind)

	var pred predicate.Predicate
	switch agent.Options.Mode {
	case ModeEmbedded:
		pred, err = predicate.NewEmbedded(doc)
	case ModeReference:
		pred, err = agent.buildReference(ctx, doc)
	default:
		err = fmt.Errorf("invalid mode %q", agent.Options.Mode)
	}
	if err != nil {
		return nil, err
	}

	path, err := st.Store(pred)
	if err != nil {
		return nil, err
	}

	res := &Result{
		PredicatePath: path,
		PredicateType: string(pred.GetType()),
	}

	if agent.Options.WriteStatement {
		res.StatementPath, err = agent.writeStatement(st, doc, pred)
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

// buildReference publishes the SBOM and returns a predicate pointing to
// the published copy.
func (agent *Agent) buildReference(ctx context.Context, doc *sbom.SBOM) (*predicate.Reference, error) {
	mediaType, err := doc.Kind.MediaType()
	if err != nil {
		return nil, err
	}

	logrus.Debug("Calculating SBOM digest")
	sum, err := digest.SHA256File(agent.Options.SBOMPath)
	if err != nil {
		return nil, err
	}

	pub, err := agent.publisher()
	if err != nil {
		return nil, err
	}

	logrus.Debug("Uploading SBOM to release")
	upload, err := pub.Upload(ctx, agent.Options.RunID, agent.Options.SBOMPath)
	if err != nil {
		return nil, err
	}
	logrus.Infof("SBOM published as %s", upload.DownloadURL)

	if agent.Options.VerifyUpload {
		if err := pub.VerifyAsset(ctx, upload.DownloadURL, sum); err != nil {
			return nil, err
		}
	}

	return predicate.NewReference(predicate.ReferenceParams{
		AttesterID:       release.BuildAttesterID(agent.Options.ServerURL, agent.Options.WorkflowRef),
		DownloadLocation: upload.DownloadURL,
		Digest:           sum,
		MediaType:        mediaType,
	}), nil
}

func (agent *Agent) publisher() (Publisher, error) {
	if agent.Publisher != nil {
		return agent.Publisher, nil
	}
	pub, err := release.New(
		release.WithRepo(agent.Options.Repository),
		release.WithToken(agent.Options.Token),
		release.WithAPIHost(agent.Options.APIHost),
	)
	if err != nil {
		return nil, fmt.Errorf("creating release publisher: %w", err)
	}
	agent.Publisher = pub
	return pub, nil
}

// writeStatement stores an unsigned statement with the SBOM as subject
func (agent *Agent) writeStatement(st *store.Store, doc *sbom.SBOM, pred predicate.Predicate) (string, error) {
	subject, err := digest.ResourceDescriptor(filepath.Base(agent.Options.SBOMPath), doc.Data)
	if err != nil {
		return "", fmt.Errorf("hashing statement subject: %w", err)
	}
	stmt := intoto.NewStatement(
		intoto.WithPredicate(pred),
		intoto.WithSubject(subject),
	)
	return st.StoreStatement(stmt)
}
