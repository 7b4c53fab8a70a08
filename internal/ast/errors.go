package ast

import (
	"context"
	"errors"
	"fmt"
)

// Failure kinds recorded in aggregates.
const (
	FailureNotSupported = "not_supported"
	FailureParse        = "parse"
	FailureIO           = "io"
	FailureManifest     = "manifest"
	FailureCanceled     = "canceled"
)

// NotSupportedError reports that no registered analyzer claims a file.
type NotSupportedError struct {
	Path string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("no analyzer supports %s", e.Path)
}

// ParseError reports that a dialect's grammar produced no recognizable
// structure for a file. Error-tolerant partial trees are surfaced as
// best-effort results instead of this error.
type ParseError struct {
	Path     string
	Language string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s (%s): %s", e.Path, e.Language, e.Reason)
}

// ManifestError reports a project or solution descriptor that is missing or
// malformed. Fatal to the unit it describes; sibling units continue.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// FailureFor classifies err into a Failure marker for path. I/O errors and
// anything unrecognized degrade to FailureIO so batch continuation treats
// them like per-file parse failures.
func FailureFor(path string, err error) Failure {
	var notSupported *NotSupportedError
	var parseErr *ParseError
	var manifestErr *ManifestError

	kind := FailureIO
	switch {
	case errors.As(err, &notSupported):
		kind = FailureNotSupported
	case errors.As(err, &parseErr):
		kind = FailureParse
	case errors.As(err, &manifestErr):
		kind = FailureManifest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = FailureCanceled
	}
	return Failure{Path: path, Kind: kind, Message: err.Error()}
}
