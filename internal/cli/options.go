// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"strings"

	"github.com/sethvargo/go-githubactions"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/carabiner-dev/attester"
	"github.com/carabiner-dev/attester/store"
)

// Action inputs. Each one is also a flag of the same name.
const (
	inputSBOMPath       = "sbom-path"
	inputToken          = "github-token"
	inputMode           = "mode"
	inputVerifyUpload   = "verify-upload"
	inputWriteStatement = "write-statement"
	inputLogLevel       = "log-level"
)

const (
	outputPredicatePath = "predicate-path"
	outputPredicateType = "predicate-type"
	outputStatementPath = "statement-path"
)

func addFlags(fs *pflag.FlagSet) {
	fs.String(inputSBOMPath, "", "path to the SBOM JSON file")
	fs.String(inputToken, "", "GitHub token used to publish the SBOM")
	fs.String(inputMode, string(attester.ModeReference), "predicate to generate: reference or embedded")
	fs.Bool(inputVerifyUpload, false, "download the published SBOM and check its digest")
	fs.Bool(inputWriteStatement, false, "also write an unsigned in-toto statement")
	fs.String(inputLogLevel, "info", "log level (debug, info, warn, error)")
}

// newViper binds the flags and the action inputs. Flags set on the
// command line win over inputs, inputs win over the flag defaults.
func newViper(fs *pflag.FlagSet, action *githubactions.Action) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	fs.VisitAll(func(f *pflag.Flag) {
		if in := action.GetInput(f.Name); in != "" {
			v.SetDefault(f.Name, in)
		}
	})
	return v, nil
}

// loadOptions assembles the agent options from the inputs and the
// workflow run environment.
func loadOptions(v *viper.Viper, action *githubactions.Action) (*attester.Options, error) {
	ghctx, err := action.Context()
	if err != nil {
		return nil, fmt.Errorf("reading workflow context: %w", err)
	}

	opts := &attester.Options{
		Mode:           attester.Mode(strings.ToLower(strings.TrimSpace(v.GetString(inputMode)))),
		SBOMPath:       v.GetString(inputSBOMPath),
		Token:          v.GetString(inputToken),
		VerifyUpload:   v.GetBool(inputVerifyUpload),
		WriteStatement: v.GetBool(inputWriteStatement),
		TempDir:        action.Getenv(store.TempDirVariable),
		WorkflowRef:    action.Getenv(attester.WorkflowRefVariable),
		ServerURL:      ghctx.ServerURL,
		APIHost:        ghctx.APIURL,
		Repository:     ghctx.Repository,
		RunID:          ghctx.RunID,
	}
	if opts.Mode == "" {
		opts.Mode = attester.ModeReference
	}
	if opts.ServerURL == "" {
		opts.ServerURL = "https://github.com"
	}
	return opts, nil
}

// setLogLevel configures logrus from the input, switching to debug when
// the runner has step debugging enabled.
func setLogLevel(v *viper.Viper, action *githubactions.Action) error {
	lvl := v.GetString(inputLogLevel)
	if action.Getenv("RUNNER_DEBUG") == "1" {
		lvl = "debug"
	}
	level, err := logrus.ParseLevel(lvl)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	logrus.SetLevel(level)
	return nil
}
