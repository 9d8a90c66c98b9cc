// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"fmt"
	"path/filepath"
	"strings"
)

// AssetName returns the name of the release asset for a file uploaded
// by a workflow run: "<runID>-<basename>".
func AssetName(runID int64, path string) string {
	return fmt.Sprintf("%d-%s", runID, filepath.Base(path))
}

// BuildAttesterID returns the URL of the workflow file from a workflow
// ref such as "owner/repo/.github/workflows/ci.yml@refs/heads/main".
// Everything from the first @ on is dropped.
func BuildAttesterID(serverURL, workflowRef string) string {
	workflowPath, _, _ := strings.Cut(workflowRef, "@")
	return serverURL + "/" + workflowPath
}
