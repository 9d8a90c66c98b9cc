// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package predicate

import (
	"encoding/json"
	"testing"

	"github.com/carabiner-dev/attestation"
	gointoto "github.com/in-toto/attestation/go/v1"
	"github.com/stretchr/testify/require"

	"github.com/carabiner-dev/attester/sbom"
)

func TestNewEmbedded(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		name       string
		data       string
		kind       sbom.Kind
		expectType attestation.PredicateType
		expectErr  error
	}{
		{"spdx-2.2", `{"spdxVersion":"SPDX-2.2","SPDXID":"SPDXRef-DOCUMENT"}`, sbom.KindSPDX, "https://spdx.dev/Document/v2.2", nil},
		{"spdx-2.3", `{"spdxVersion":"SPDX-2.3","SPDXID":"SPDXRef-DOCUMENT","packages":[]}`, sbom.KindSPDX, "https://spdx.dev/Document/v2.3", nil},
		{"spdx-extra-dash", `{"spdxVersion":"SPDX-2.3-rc1","SPDXID":"x"}`, sbom.KindSPDX, "https://spdx.dev/Document/v2.3", nil},
		{"spdx-trailing-dash", `{"spdxVersion":"SPDX-","SPDXID":"x"}`, sbom.KindSPDX, "https://spdx.dev/Document/v", nil},
		{"spdx-no-version", `{"SPDXID":"x"}`, sbom.KindSPDX, "", ErrMissingSPDXVersion},
		{"spdx-numeric-version", `{"spdxVersion":2.2,"SPDXID":"x"}`, sbom.KindSPDX, "", ErrMissingSPDXVersion},
		{"cdx-1.2", `{"bomFormat":"CycloneDX","serialNumber":"123","specVersion":"1.2"}`, sbom.KindCycloneDX, TypeCycloneDX, nil},
		{"cdx-1.6", `{"bomFormat":"CycloneDX","serialNumber":"123","specVersion":"1.6"}`, sbom.KindCycloneDX, TypeCycloneDX, nil},
		{"unsupported", `{}`, sbom.KindUnsupported, "", sbom.ErrUnsupportedFormat},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc := map[string]any{}
			require.NoError(t, json.Unmarshal([]byte(tc.data), &doc))
			s := &sbom.SBOM{Kind: tc.kind, Document: doc, Data: []byte(tc.data)}

			pred, err := NewEmbedded(s)
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectType, pred.GetType())
			require.Equal(t, doc, pred.GetParsed())

			// The payload is the document verbatim
			payload, err := Payload(pred)
			require.NoError(t, err)
			require.JSONEq(t, tc.data, string(payload))
		})
	}
}

func TestNewEmbeddedNil(t *testing.T) {
	t.Parallel()
	_, err := NewEmbedded(nil)
	require.ErrorIs(t, err, sbom.ErrUnsupportedFormat)
}

func TestMissingSPDXVersionMessage(t *testing.T) {
	t.Parallel()
	_, err := NewEmbedded(&sbom.SBOM{Kind: sbom.KindSPDX, Document: map[string]any{"SPDXID": "x"}})
	require.Error(t, err)
	require.Equal(t, "Cannot find spdxVersion in the SBOM", err.Error())
}

func TestEmbeddedKeepsBytes(t *testing.T) {
	t.Parallel()
	// Number formatting would be lost on a re-encode of the parsed map
	data := []byte(`{"spdxVersion":"SPDX-2.3","SPDXID":"x","n":1.0e2,"z":1,"a":2}`)
	s, err := sbom.Parse(data)
	require.NoError(t, err)

	pred, err := NewEmbedded(s)
	require.NoError(t, err)

	payload, err := Payload(pred)
	require.NoError(t, err)
	require.Equal(t, data, payload)
}

func TestNewReference(t *testing.T) {
	t.Parallel()
	pred := NewReference(ReferenceParams{
		AttesterID:       "https://github.com/owner/repo/.github/workflows/ci.yml",
		DownloadLocation: "https://github.com/owner/repo/releases/download/sbom/sbom.json",
		Digest:           "abc123def456",
		MediaType:        "application/spdx+json",
	})

	require.Equal(t, TypeReference, pred.GetType())
	require.Equal(t, attestation.PredicateType("https://in-toto.io/attestation/reference/v0.1"), pred.GetType())

	payload, err := Payload(pred)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"attester": {"id": "https://github.com/owner/repo/.github/workflows/ci.yml"},
		"references": [
			{
				"downloadLocation": "https://github.com/owner/repo/releases/download/sbom/sbom.json",
				"digest": {"sha256": "abc123def456"},
				"mediaType": "application/spdx+json"
			}
		]
	}`, string(payload))
}

func TestNewReferenceLiteral(t *testing.T) {
	t.Parallel()
	pred := NewReference(ReferenceParams{AttesterID: "A", DownloadLocation: "D", Digest: "H", MediaType: "M"})
	require.Len(t, pred.Body.References, 1)
	require.Equal(t, ReferenceBody{
		Attester: Attester{ID: "A"},
		References: []ResourceDescriptor{
			{DownloadLocation: "D", MediaType: "M", Digest: DigestSet{SHA256: "H"}},
		},
	}, pred.Body)
	require.Equal(t, pred.GetData(), mustPayload(t, pred))

	origin, ok := pred.GetOrigin().(*gointoto.ResourceDescriptor)
	require.True(t, ok)
	require.Equal(t, "D", origin.GetDownloadLocation())
	require.Equal(t, "M", origin.GetMediaType())
	require.Equal(t, map[string]string{string(gointoto.AlgorithmSHA256): "H"}, origin.GetDigest())
}

func TestToInToto(t *testing.T) {
	t.Parallel()
	rd := ResourceDescriptor{DownloadLocation: "D", MediaType: "M", Digest: DigestSet{SHA256: "H"}}
	res := rd.ToInToto()
	require.Equal(t, "D", res.GetDownloadLocation())
	require.Equal(t, "M", res.GetMediaType())
	require.Equal(t, map[string]string{string(gointoto.AlgorithmSHA256): "H"}, res.GetDigest())
}

func TestSetType(t *testing.T) {
	t.Parallel()
	pred := NewReference(ReferenceParams{})
	require.Error(t, pred.SetType(""))
	require.NoError(t, pred.SetType("https://example.com/custom"))
	require.Equal(t, attestation.PredicateType("https://example.com/custom"), pred.GetType())
}

func mustPayload(t *testing.T, p Predicate) []byte {
	t.Helper()
	data, err := Payload(p)
	require.NoError(t, err)
	return data
}
