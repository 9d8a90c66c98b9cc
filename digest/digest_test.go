// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	gointoto "github.com/in-toto/attestation/go/v1"
	"github.com/stretchr/testify/require"
)

func TestSHA256File(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for _, tc := range []struct {
		name    string
		content string
		expect  string
	}{
		{"known-value", "test content for hashing", "e25dd806d495b413931f4eea50b677a7a5c02d00460924661283f211a37f7e7f"},
		{"json", `{"spdxVersion":"SPDX-2.2"}`, ""},
		{"whitespace-matters", "{ \"spdxVersion\" : \"SPDX-2.2\" }\n", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(dir, tc.name+".json")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))

			expect := tc.expect
			if expect == "" {
				sum := sha256.Sum256([]byte(tc.content))
				expect = hex.EncodeToString(sum[:])
			}

			res, err := SHA256File(path)
			require.NoError(t, err)
			require.Len(t, res, 64)
			require.Equal(t, expect, res)
		})
	}
}

func TestSHA256FileDiffers(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	p1 := filepath.Join(dir, "file1.json")
	p2 := filepath.Join(dir, "file2.json")
	require.NoError(t, os.WriteFile(p1, []byte("content one"), 0o600))
	require.NoError(t, os.WriteFile(p2, []byte("content two"), 0o600))

	d1, err := SHA256File(p1)
	require.NoError(t, err)
	d2, err := SHA256File(p2)
	require.NoError(t, err)
	require.NotEqual(t, d1, d2)

	again, err := SHA256File(p1)
	require.NoError(t, err)
	require.Equal(t, d1, again)
}

func TestSHA256FileMissing(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nope.json")
	_, err := SHA256File(path)
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)

	// The read error is not wrapped
	_, readErr := os.ReadFile(path)
	require.Equal(t, readErr.Error(), err.Error())
}

func TestResourceDescriptor(t *testing.T) {
	t.Parallel()
	rd, err := ResourceDescriptor("sbom.json", []byte("test content for hashing"))
	require.NoError(t, err)
	require.Equal(t, "sbom.json", rd.GetName())
	require.Equal(t,
		"e25dd806d495b413931f4eea50b677a7a5c02d00460924661283f211a37f7e7f",
		rd.GetDigest()[string(gointoto.AlgorithmSHA256)],
	)
}
