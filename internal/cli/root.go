// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package cli implements the attester command and its GitHub Actions
// integration.
package cli

import (
	"context"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"
	"sigs.k8s.io/release-utils/version"

	"github.com/carabiner-dev/attester"
)

// New returns the root command. Inputs come from flags or the action
// environment, outputs and failures are reported through action.
func New(action *githubactions.Action) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attester",
		Short: "Generate attestation predicates for an SBOM",
		Long: `attester identifies the format of an SPDX or CycloneDX SBOM and writes
the predicate of an in-toto attestation describing it.

In reference mode the SBOM is uploaded to the "sbom" release of the
repository and the predicate points to it. In embedded mode the SBOM
itself is the predicate.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addFlags(cmd.PersistentFlags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		v, err := newViper(cmd.PersistentFlags(), action)
		if err != nil {
			return err
		}
		if err := setLogLevel(v, action); err != nil {
			return err
		}

		opts, err := loadOptions(v, action)
		if err != nil {
			return err
		}

		agent, err := attester.New(attester.WithOptions(opts))
		if err != nil {
			return err
		}

		res, err := agent.Run(cmd.Context())
		if err != nil {
			return err
		}

		action.SetOutput(outputPredicatePath, res.PredicatePath)
		action.SetOutput(outputPredicateType, res.PredicateType)
		if res.StatementPath != "" {
			action.SetOutput(outputStatementPath, res.StatementPath)
		}
		return nil
	}

	cmd.AddCommand(version.Version())
	return cmd
}

// Execute runs the command. Any error is reported as a single failure
// annotation carrying the error text.
func Execute(ctx context.Context, action *githubactions.Action, args []string) error {
	cmd := New(action)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		action.Errorf("%s", err.Error())
		return err
	}
	return nil
}
