// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package sbom

import (
	"bytes"

	"github.com/protobom/protobom/pkg/formats"
	"github.com/sirupsen/logrus"
)

// sniffedKind runs the protobom sniffer over the raw data and maps its
// verdict to a Kind. It returns KindUnsupported when the sniffer does not
// recognize a JSON SBOM.
func sniffedKind(data []byte) Kind {
	sniffer := formats.Sniffer{}
	format, err := sniffer.SniffReader(bytes.NewReader(data))
	if err != nil {
		logrus.Debugf("protobom sniffer: %v", err)
		return KindUnsupported
	}

	if format.Encoding() != "json" {
		return KindUnsupported
	}

	switch format.Type() {
	case formats.SPDXFORMAT:
		return KindSPDX
	case formats.CDXFORMAT:
		return KindCycloneDX
	default:
		return KindUnsupported
	}
}

// crossCheck compares the classifier verdict with protobom's. The
// classifier result always stands, a mismatch is only reported.
func crossCheck(s *SBOM) {
	if len(s.Data) == 0 {
		return
	}
	sniffed := sniffedKind(s.Data)
	switch sniffed {
	case s.Kind:
		logrus.Debugf("protobom agrees the document is %s", s.Kind)
	case KindUnsupported:
		logrus.Debugf("protobom could not identify the %s document", s.Kind)
	default:
		logrus.Warnf("document classified as %s but protobom sniffed %s", s.Kind, sniffed)
	}
}
