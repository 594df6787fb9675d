// SPDX-License-Identifier: Apache-2.0

package winevent

import "fmt"

// ErrorKind tags which validator produced a ValidationError.
type ErrorKind string

const (
	KindDescriptor ErrorKind = "descriptor"
	KindSchema     ErrorKind = "schema"
	KindSecurity   ErrorKind = "security"
)

// ValidationError is the single failure channel for all record
// validators. It carries a human-readable message only; there are no
// machine codes.
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func descriptorErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Kind: KindDescriptor, Message: fmt.Sprintf(format, args...)}
}

func schemaErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Kind: KindSchema, Message: fmt.Sprintf(format, args...)}
}

func securityErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Kind: KindSecurity, Message: fmt.Sprintf(format, args...)}
}
