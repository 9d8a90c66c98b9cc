// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package predicate builds the attestation predicates describing an SBOM.
// A predicate is either Embedded, carrying the SBOM itself, or Reference,
// pointing to a published copy of it.
package predicate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/carabiner-dev/attestation"
)

const (
	TypeReference attestation.PredicateType = "https://in-toto.io/attestation/reference/v0.1"
	TypeCycloneDX attestation.PredicateType = "https://cyclonedx.org/bom"

	// typeSPDXPrefix is completed with the document's SPDX version
	typeSPDXPrefix = "https://spdx.dev/Document/v"
)

// Predicate is implemented only by Embedded and Reference.
type Predicate interface {
	attestation.Predicate
	json.Marshaler
	isPredicate()
}

var (
	_ Predicate = (*Embedded)(nil)
	_ Predicate = (*Reference)(nil)
)

// Payload returns the compact JSON form of the predicate body.
func Payload(p Predicate) ([]byte, error) {
	data, err := p.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshaling predicate: %w", err)
	}
	var b bytes.Buffer
	if err := json.Compact(&b, data); err != nil {
		return nil, fmt.Errorf("compacting predicate json: %w", err)
	}
	return b.Bytes(), nil
}

// base carries the attestation.Predicate bookkeeping shared by the
// predicate variants.
type base struct {
	Type         attestation.PredicateType
	Source       attestation.Subject
	Verification attestation.Verification
}

func (b *base) isPredicate() {}

func (b *base) GetType() attestation.PredicateType { return b.Type }

func (b *base) SetType(pt attestation.PredicateType) error {
	if pt == "" {
		return fmt.Errorf("predicate type cannot be empty")
	}
	b.Type = pt
	return nil
}

func (b *base) GetOrigin() attestation.Subject              { return b.Source }
func (b *base) SetOrigin(src attestation.Subject)           { b.Source = src }
func (b *base) SetVerification(vf attestation.Verification) { b.Verification = vf }
func (b *base) GetVerification() attestation.Verification   { return b.Verification }
