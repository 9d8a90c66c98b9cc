// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package digest computes the content digests that bind predicates to
// the exact bytes of an artifact.
package digest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/carabiner-dev/hasher"
	gointoto "github.com/in-toto/attestation/go/v1"
)

var ErrNoDigest = errors.New("hasher returned no sha256 digest")

// SHA256File returns the lowercase hex SHA-256 of the file contents. The
// error from reading the file is returned unmodified.
func SHA256File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return SHA256(data)
}

// SHA256 returns the lowercase hex SHA-256 of data.
func SHA256(data []byte) (string, error) {
	rd, err := ResourceDescriptor("", data)
	if err != nil {
		return "", err
	}
	v, ok := rd.GetDigest()[string(gointoto.AlgorithmSHA256)]
	if !ok || v == "" {
		return "", ErrNoDigest
	}
	return v, nil
}

// ResourceDescriptor hashes data with all the algorithms supported by
// the hasher and returns a descriptor carrying the digests.
func ResourceDescriptor(name string, data []byte) (*gointoto.ResourceDescriptor, error) {
	digests, err := hasher.New().HashReaders([]io.Reader{bytes.NewReader(data)})
	if err != nil {
		return nil, fmt.Errorf("hashing data: %w", err)
	}
	if digests == nil || len(*digests) == 0 {
		return nil, ErrNoDigest
	}

	src := digests.ToResourceDescriptors()[0]
	return &gointoto.ResourceDescriptor{
		Name:   name,
		Digest: src.GetDigest(),
	}, nil
}
