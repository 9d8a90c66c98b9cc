// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package predicate

import (
	"encoding/json"

	gointoto "github.com/in-toto/attestation/go/v1"
)

// Reference is a predicate pointing to an externally stored artifact.
type Reference struct {
	base
	Body ReferenceBody
}

type ReferenceBody struct {
	Attester   Attester             `json:"attester"`
	References []ResourceDescriptor `json:"references"`
}

type Attester struct {
	ID string `json:"id"`
}

type ResourceDescriptor struct {
	DownloadLocation string    `json:"downloadLocation"`
	Digest           DigestSet `json:"digest"`
	MediaType        string    `json:"mediaType"`
}

type DigestSet struct {
	SHA256 string `json:"sha256"`
}

// ToInToto converts the descriptor to its in-toto v1 form.
func (rd *ResourceDescriptor) ToInToto() *gointoto.ResourceDescriptor {
	return &gointoto.ResourceDescriptor{
		DownloadLocation: rd.DownloadLocation,
		MediaType:        rd.MediaType,
		Digest: map[string]string{
			string(gointoto.AlgorithmSHA256): rd.Digest.SHA256,
		},
	}
}

// ReferenceParams are the inputs of a reference predicate
type ReferenceParams struct {
	AttesterID       string
	DownloadLocation string
	Digest           string
	MediaType        string
}

// NewReference builds a reference predicate with a single descriptor.
// The predicate origin is the referenced artifact.
func NewReference(params ReferenceParams) *Reference {
	ref := &Reference{
		base: base{Type: TypeReference},
		Body: ReferenceBody{
			Attester: Attester{ID: params.AttesterID},
			References: []ResourceDescriptor{
				{
					DownloadLocation: params.DownloadLocation,
					Digest:           DigestSet{SHA256: params.Digest},
					MediaType:        params.MediaType,
				},
			},
		},
	}
	ref.SetOrigin(ref.Body.References[0].ToInToto())
	return ref
}

func (r *Reference) GetParsed() any { return &r.Body }

func (r *Reference) GetData() []byte {
	data, err := json.Marshal(&r.Body)
	if err != nil {
		return nil
	}
	return data
}

func (r *Reference) MarshalJSON() ([]byte, error) {
	return json.Marshal(&r.Body)
}
