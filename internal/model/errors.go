package model

import (
	"fmt"
	"strings"
)

// ValidationError reports caller input that violates a precondition.
// It maps to HTTP 400.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Message: message}
}

// EmptyInputError is a ValidationError for blank observation text.
type EmptyInputError struct {
	Message string
}

func (e *EmptyInputError) Error() string {
	return e.Message
}

func (e *EmptyInputError) Unwrap() error {
	return &ValidationError{Fields: []string{"observations"}, Message: e.Message}
}

// MissingMetadataError is a ValidationError naming the absent metadata fields.
type MissingMetadataError struct {
	Fields []string
}

func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("metadata with childId and sessionDate is required (missing: %s)", strings.Join(e.Fields, ", "))
}

func (e *MissingMetadataError) Unwrap() error {
	return &ValidationError{Fields: e.Fields, Message: e.Error()}
}

// UpstreamError reports a failed, unparseable or contract-violating response
// from the completion service. It maps to HTTP 500.
type UpstreamError struct {
	StatusCode int // 0 when no HTTP response was received
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// UnknownDomainError is returned when a domain key is outside the closed set.
type UnknownDomainError struct {
	Key string
}

func (e *UnknownDomainError) Error() string {
	return fmt.Sprintf("unknown developmental domain %q", e.Key)
}
