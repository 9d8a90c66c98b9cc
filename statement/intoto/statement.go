// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package intoto assembles unsigned in-toto statements around the
// predicates generated for an SBOM.
package intoto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/carabiner-dev/attestation"
	gointoto "github.com/in-toto/attestation/go/v1"
)

var (
	ErrNoPredicate = errors.New("statement has no predicate")
	ErrNoSubjects  = errors.New("statement has no subjects")
)

type StatementOption func(*Statement)

func WithPredicate(pred attestation.Predicate) StatementOption {
	return func(stmnt *Statement) {
		stmnt.Predicate = pred
		stmnt.PredicateType = pred.GetType()
	}
}

func WithSubject(subjects ...*gointoto.ResourceDescriptor) StatementOption {
	return func(stmnt *Statement) {
		stmnt.Subject = append(stmnt.Subject, subjects...)
	}
}

func NewStatement(opts ...StatementOption) *Statement {
	s := &Statement{
		Predicate: nil,
		Type:      gointoto.StatementTypeUri,
		Statement: gointoto.Statement{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Statement is an in-toto v1 statement whose predicate is kept as an
// attestation.Predicate so it serializes through its own marshaler.
type Statement struct {
	PredicateType attestation.PredicateType `json:"predicateType"`
	Predicate     attestation.Predicate     `json:"predicate"`
	Type          string                    `json:"_type"`
	gointoto.Statement
}

func (s *Statement) AddSubject(sbj attestation.Subject) {
	descr := gointoto.ResourceDescriptor{
		Name:   sbj.GetName(),
		Uri:    sbj.GetUri(),
		Digest: sbj.GetDigest(),
	}
	s.Subject = append(s.Subject, &descr)
}

func (s *Statement) GetPredicate() attestation.Predicate {
	return s.Predicate
}

// GetSubjects returns the statement's subjects
func (s *Statement) GetSubjects() []attestation.Subject {
	ret := make([]attestation.Subject, 0, len(s.Subject))
	for i := range s.Subject {
		ret = append(ret, s.Subject[i])
	}
	return ret
}

func (s *Statement) GetPredicateType() attestation.PredicateType {
	return s.PredicateType
}

// Validate checks the statement is complete enough to be written out
func (s *Statement) Validate() error {
	errs := []error{}
	if s.Predicate == nil {
		errs = append(errs, ErrNoPredicate)
	}
	if len(s.Subject) == 0 {
		errs = append(errs, ErrNoSubjects)
	}
	return errors.Join(errs...)
}

// ToJson returns a byte slice with the statement in JSON
func (s *Statement) ToJson() ([]byte, error) {
	var b bytes.Buffer
	if err := s.WriteJson(&b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (s *Statement) WriteJson(w io.Writer) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validating statement: %w", err)
	}
	s.Type = gointoto.StatementTypeUri // This needs to be coerced as it will not be read from proto
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("writing JSON stream: %w", err)
	}
	return nil
}
