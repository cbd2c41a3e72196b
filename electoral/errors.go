// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package electoral

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the input has no data rows.
	ErrEmptyInput = errors.New("empty or incomplete input")
	// ErrMissingColumn is returned when a mandatory column can't be resolved.
	ErrMissingColumn = errors.New("missing mandatory column")
)

// ErrorType classifies ingestion failures.
type ErrorType int

const (
	// ErrorTypeUnknown unclassified failure.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeEmptyInput fewer than two lines.
	ErrorTypeEmptyInput
	// ErrorTypeMissingColumn station or votes header not found.
	ErrorTypeMissingColumn
	// ErrorTypeReference invalid reference tables.
	ErrorTypeReference
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeEmptyInput:
		return "empty_input"
	case ErrorTypeMissingColumn:
		return "missing_column"
	case ErrorTypeReference:
		return "reference"
	default:
		return "unknown"
	}
}

// IngestError is a configuration error that aborts an ingestion. No partial
// dataset is ever returned alongside it.
type IngestError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *IngestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is an ingestion configuration
// error, that is, one caused by the shape of the input file.
func IsConfigurationError(err error) bool {
	var ingestErr *IngestError
	if errors.As(err, &ingestErr) {
		return ingestErr.Type == ErrorTypeEmptyInput || ingestErr.Type == ErrorTypeMissingColumn
	}

	return false
}

func emptyInputError(lines int) *IngestError {
	return &IngestError{
		Type:    ErrorTypeEmptyInput,
		Message: fmt.Sprintf("input has %d line(s), need a header and at least one row", lines),
		Err:     ErrEmptyInput,
	}
}

func missingColumnError(fields ...Field) *IngestError {
	return &IngestError{
		Type:    ErrorTypeMissingColumn,
		Message: fmt.Sprintf("required columns not found: %v", fields),
		Err:     ErrMissingColumn,
	}
}

func sharedColumnError(a, b Field) *IngestError {
	return &IngestError{
		Type:    ErrorTypeMissingColumn,
		Message: fmt.Sprintf("required columns %v and %v resolve to the same header", a, b),
		Err:     ErrMissingColumn,
	}
}
