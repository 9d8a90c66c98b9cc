// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package predicate

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/carabiner-dev/attestation"

	"github.com/carabiner-dev/attester/sbom"
)

//nolint:staticcheck // Surfaced verbatim to the user
var ErrMissingSPDXVersion = errors.New("Cannot find spdxVersion in the SBOM")

// Embedded is a predicate whose body is the SBOM document.
type Embedded struct {
	base
	SBOM *sbom.SBOM
}

// NewEmbedded builds the embedded predicate for a classified SBOM.
//
// ref: https://github.com/in-toto/attestation/blob/main/spec/predicates/spdx.md
// ref: https://github.com/in-toto/attestation/blob/main/spec/predicates/cyclonedx.md
func NewEmbedded(s *sbom.SBOM) (*Embedded, error) {
	if s == nil {
		return nil, sbom.ErrUnsupportedFormat
	}

	var pt attestation.PredicateType
	switch s.Kind {
	case sbom.KindSPDX:
		v, ok := s.Document["spdxVersion"].(string)
		if !ok || v == "" {
			return nil, ErrMissingSPDXVersion
		}
		pt = attestation.PredicateType(typeSPDXPrefix + spdxVersionNumber(v))
	case sbom.KindCycloneDX:
		pt = TypeCycloneDX
	default:
		return nil, sbom.ErrUnsupportedFormat
	}

	return &Embedded{
		base: base{Type: pt},
		SBOM: s,
	}, nil
}

// spdxVersionNumber returns the second dash separated field of the
// spdxVersion string ("SPDX-2.3" -> "2.3"). Malformed strings are not
// rejected: "SPDX-" and "SPDX" produce an empty version.
func spdxVersionNumber(v string) string {
	parts := strings.Split(v, "-")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func (e *Embedded) GetParsed() any {
	if e.SBOM == nil {
		return nil
	}
	return e.SBOM.Document
}

func (e *Embedded) GetData() []byte {
	if e.SBOM == nil {
		return nil
	}
	return e.SBOM.Data
}

// MarshalJSON returns the original SBOM bytes when available so the
// payload is never a re-encoding of the parsed document.
func (e *Embedded) MarshalJSON() ([]byte, error) {
	if data := e.GetData(); data != nil {
		return data, nil
	}
	return json.Marshal(e.GetParsed())
}
