// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package store writes generated predicates to fresh temporary files.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/carabiner-dev/attester/predicate"
	"github.com/carabiner-dev/attester/statement/intoto"
)

// TempDirVariable is the CI variable holding the base temporary directory
const TempDirVariable = "RUNNER_TEMP"

//nolint:staticcheck // Surfaced verbatim to the user
var ErrMissingTempDir = fmt.Errorf("Missing %s environment variable", TempDirVariable)

var defaultOptions = Options{
	FileName:          "predicate.json",
	StatementFileName: "statement.json",
}

type Options struct {
	// TempDir is the base directory where the unique subdirectories
	// holding the output files are created.
	TempDir           string
	FileName          string
	StatementFileName string
}

func (o *Options) Validate() error {
	errs := []error{}
	if o.TempDir == "" {
		return ErrMissingTempDir
	}
	if o.FileName == "" {
		errs = append(errs, errors.New("predicate file name not set"))
	}
	if o.StatementFileName == "" {
		errs = append(errs, errors.New("statement file name not set"))
	}
	return errors.Join(errs...)
}

type optFn = func(*Store)

func WithTempDir(dir string) optFn {
	return func(s *Store) {
		s.Options.TempDir = dir
	}
}

func WithFileName(name string) optFn {
	return func(s *Store) {
		s.Options.FileName = name
	}
}

// New returns a store writing under the configured temporary directory.
// The options are validated before any file is written.
func New(funcs ...optFn) (*Store, error) {
	s := &Store{
		Options: defaultOptions,
	}
	for _, fn := range funcs {
		fn(s)
	}
	if err := s.Options.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Store writes predicates to disk. Directories are never cleaned up,
// the CI runner owns the lifecycle of its temporary directory.
type Store struct {
	Options Options
	dir     string
}

// Store writes the compact predicate payload into a new uniquely named
// directory and returns the path to the file.
func (s *Store) Store(p predicate.Predicate) (string, error) {
	data, err := predicate.Payload(p)
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp(s.Options.TempDir, "")
	if err != nil {
		return "", err
	}
	s.dir = dir

	path := filepath.Join(dir, s.Options.FileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	logrus.Debugf("wrote %d byte predicate to %s", len(data), path)
	return path, nil
}

// StoreStatement writes an unsigned statement next to the last stored
// predicate, or into a fresh directory if none was stored.
func (s *Store) StoreStatement(stmt *intoto.Statement) (string, error) {
	data, err := stmt.ToJson()
	if err != nil {
		return "", fmt.Errorf("serializing statement: %w", err)
	}

	dir, err := s.outputDir()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, s.Options.StatementFileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	logrus.Debugf("wrote statement to %s", path)
	return path, nil
}

// outputDir returns the directory of the last stored predicate or
// creates a new one.
func (s *Store) outputDir() (string, error) {
	if s.dir != "" {
		return s.dir, nil
	}
	dir, err := os.MkdirTemp(s.Options.TempDir, "")
	if err != nil {
		return "", err
	}
	s.dir = dir
	return dir, nil
}
