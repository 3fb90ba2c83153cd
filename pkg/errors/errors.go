/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package errors provides coded errors shared across the kdump tooling.
// A code classifies what went wrong; the top-level CLI decides how each
// class is reported to the operator.
package errors

import (
	"errors"
	"fmt"
)

// Error codes as constants
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeUnsupported   = "UNSUPPORTED_PLATFORM"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeVerifyFailed  = "VERIFY_FAILED"
	ErrCodeAmbiguous     = "AMBIGUOUS_RESULT"
	ErrCodeIO            = "IO_ERROR"
	ErrCodeCommandFailed = "COMMAND_FAILED"
	ErrCodePrivilege     = "PRIVILEGE_REQUIRED"
	ErrCodeInternal      = "INTERNAL"
)

// StructuredError is an error carrying a classification code and an
// optional wrapped cause.
type StructuredError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause to errors.Is/As.
func (e *StructuredError) Unwrap() error {
	return e.Err
}

// New returns a StructuredError with the given code and message.
func New(code, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// Newf returns a StructuredError with a formatted message.
func Newf(code, format string, args ...any) *StructuredError {
	return &StructuredError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a StructuredError wrapping err.
func Wrap(code string, err error, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the outermost StructuredError in err's chain,
// or ErrCodeInternal when there is none.
func CodeOf(err error) string {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err's chain contains a StructuredError with code.
func IsCode(err error, code string) bool {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// reportedError marks an error whose user-facing message has already been
// printed; the CLI still exits non-zero but must not print it again.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// Reported wraps err as already reported to the operator.
func Reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// IsReported reports whether err was marked with Reported.
func IsReported(err error) bool {
	var re *reportedError
	return errors.As(err, &re)
}
