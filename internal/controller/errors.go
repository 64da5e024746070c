package controller

import (
	"errors"
	"fmt"
)

// Validation sentinels, checked with errors.Is.
var (
	// ErrEmptyDomain is returned when a domain is blank after normalization.
	ErrEmptyDomain = errors.New("domain is empty")

	// ErrNoScanInput is returned when a scan has neither a target nor a file.
	ErrNoScanInput = errors.New("enter a URL or choose a file to scan")

	// ErrEmptyPassword is returned when logging in without a password.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrInvalidIndex is returned for a negative history index.
	ErrInvalidIndex = errors.New("history index must not be negative")

	// ErrEmptySettingsEdit is returned when a save changes nothing.
	ErrEmptySettingsEdit = errors.New("no settings changed")
)

// ValidationError is an input problem caught before any request is made.
type ValidationError struct {
	// Field names the offending input.
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}
