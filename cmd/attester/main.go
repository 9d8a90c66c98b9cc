// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"

	"github.com/sethvargo/go-githubactions"
	"github.com/sirupsen/logrus"

	"github.com/carabiner-dev/attester/internal/cli"
)

func main() {
	logrus.SetOutput(os.Stderr)
	if err := cli.Execute(context.Background(), githubactions.New(), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
