// Package parsererror holds the error taxonomy of the statement pipeline.
package parsererror

import (
	"errors"
	"fmt"
)

var (
	// ErrReadFailed matches any ReadError via errors.Is.
	ErrReadFailed = errors.New("failed to read statement")

	// ErrStandardizationFailed is the single failure callers see when the
	// pipeline breaks after the content was read.
	ErrStandardizationFailed = errors.New("failed to standardize statement")
)

// ReadError reports that the statement content could not be retrieved.
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%v: %v", ErrReadFailed, e.Err)
	}
	return fmt.Sprintf("%v '%s': %v", ErrReadFailed, e.Source, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrReadFailed) succeed for every ReadError.
func (e *ReadError) Is(target error) bool {
	return target == ErrReadFailed
}

// ParseError describes a single cell that could not be normalized. These never
// abort a run; they end up in debug logs.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s='%s': %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError is returned by callers that refuse an input before it
// reaches the pipeline, e.g. a file without the .csv extension.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}
