// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"sigs.k8s.io/release-utils/http"

	"github.com/carabiner-dev/attester/digest"
)

var ErrDigestMismatch = errors.New("downloaded asset digest does not match")

// VerifyAsset downloads a published asset and checks its SHA-256 matches
// the digest computed from the local file.
//
// The download is anonymous, browser download URLs of private
// repositories require a session and cannot be verified this way. The
// HTTP agent takes no context, ctx is only checked before downloading.
func (p *Publisher) VerifyAsset(ctx context.Context, downloadURL, expected string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a := http.NewAgent().WithRetries(p.Options.Retries).WithFailOnHTTPError(true)
	data, err := a.Get(downloadURL)
	if err != nil {
		return fmt.Errorf("downloading asset: %w", err)
	}

	got, err := digest.SHA256(data)
	if err != nil {
		return fmt.Errorf("hashing downloaded asset: %w", err)
	}

	if got != expected {
		return fmt.Errorf("%w: expected sha256:%s got sha256:%s", ErrDigestMismatch, expected, got)
	}
	logrus.Debugf("verified %s matches sha256:%s", downloadURL, expected)
	return nil
}
