// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package sbom classifies JSON documents as SPDX or CycloneDX software
// bills of materials.
package sbom

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

//nolint:staticcheck // These messages are surfaced verbatim to the user
var (
	ErrUnsupportedFormat = errors.New("Unsupported SBOM format")
	ErrUnknownMediaType  = errors.New("no media type defined for SBOM kind")
)

// Kind is the SBOM format detected by the classifier
type Kind string

const (
	KindUnsupported Kind = ""
	KindSPDX        Kind = "spdx"
	KindCycloneDX   Kind = "cyclonedx"
)

const (
	MediaTypeSPDX      = "application/spdx+json"
	MediaTypeCycloneDX = "application/vnd.cyclonedx+json"
)

// MediaType returns the JSON media type of the SBOM kind.
func (k Kind) MediaType() (string, error) {
	switch k {
	case KindSPDX:
		return MediaTypeSPDX, nil
	case KindCycloneDX:
		return MediaTypeCycloneDX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMediaType, string(k))
	}
}

// SBOM is a classified document. Data holds the bytes exactly as they
// were read, Document is the decoded view used for inspection.
type SBOM struct {
	Kind     Kind
	Document map[string]any
	Data     []byte
}

// rule matches a kind when all of its fields are truthy
type rule struct {
	kind   Kind
	fields []string
}

// Rules are evaluated in order, the first match wins.
var rules = []rule{
	{kind: KindSPDX, fields: []string{"spdxVersion", "SPDXID"}},
	{kind: KindCycloneDX, fields: []string{"bomFormat", "serialNumber", "specVersion"}},
}

func (r *rule) matches(doc map[string]any) bool {
	for _, f := range r.fields {
		if !truthy(doc[f]) {
			return false
		}
	}
	return true
}

// truthy mimics the loose truth value of a decoded JSON value.
func truthy(v any) bool {
	switch tv := v.(type) {
	case nil:
		return false
	case bool:
		return tv
	case string:
		return tv != ""
	case float64:
		return tv != 0
	default:
		return true
	}
}

// Classify inspects a decoded JSON object and returns the SBOM kind it
// represents. Documents matching no rule return ErrUnsupportedFormat.
func Classify(doc map[string]any) (*SBOM, error) {
	if doc == nil {
		return nil, ErrUnsupportedFormat
	}
	for i := range rules {
		if rules[i].matches(doc) {
			return &SBOM{
				Kind:     rules[i].kind,
				Document: doc,
			}, nil
		}
	}
	return nil, ErrUnsupportedFormat
}

// Parse decodes JSON data and classifies it. The returned SBOM keeps a
// reference to data.
func Parse(data []byte) (*SBOM, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing SBOM json: %w", err)
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrUnsupportedFormat
	}

	s, err := Classify(doc)
	if err != nil {
		return nil, err
	}
	s.Data = data

	crossCheck(s)
	return s, nil
}

// ParseFile reads an SBOM from disk and classifies it. Read errors are
// returned as is.
func ParseFile(path string) (*SBOM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("read %d bytes from %s", len(data), path)
	return Parse(data)
}
