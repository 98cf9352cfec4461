package core

import (
	"errors"
	"fmt"
)

// DescriptorFetchError indicates the descriptor itself could not be obtained.
// It is fatal: no operations are built from a descriptor that never arrived.
type DescriptorFetchError struct {
	Source string
	Err    error
}

func (e *DescriptorFetchError) Error() string {
	return fmt.Sprintf("fetching descriptor from %s: %v", e.Source, e.Err)
}

func (e *DescriptorFetchError) Unwrap() error {
	return e.Err
}

// DescriptorParseError indicates the descriptor content did not match the
// expected grammar. FormatGuess carries the format the detector settled on
// before parsing failed.
type DescriptorParseError struct {
	FormatGuess string
	Err         error
}

func (e *DescriptorParseError) Error() string {
	if e.FormatGuess != "" {
		return fmt.Sprintf("parsing descriptor as %s: %v", e.FormatGuess, e.Err)
	}
	return fmt.Sprintf("parsing descriptor: %v", e.Err)
}

func (e *DescriptorParseError) Unwrap() error {
	return e.Err
}

// OperationBuildError marks a single operation whose parameters could not be
// resolved. The operation is skipped; the run continues.
type OperationBuildError struct {
	Operation string
	Err       error
}

func (e *OperationBuildError) Error() string {
	return fmt.Sprintf("building operation %s: %v", e.Operation, e.Err)
}

func (e *OperationBuildError) Unwrap() error {
	return e.Err
}

var ErrUnknownFormat = errors.New("unrecognized descriptor format")

func IsFatal(err error) bool {
	var fetchErr *DescriptorFetchError
	var parseErr *DescriptorParseError
	return errors.As(err, &fetchErr) || errors.As(err, &parseErr)
}
