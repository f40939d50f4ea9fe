// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package faults

import (
	"errors"
	"net/http"
)

// GenericServerErrorMessage replaces internal error detail in responses
// with status >= 500. Internal messages are never leaked to callers.
const GenericServerErrorMessage = "Internal server error"

// OperationalError is an anticipated failure carrying an intended status
// code and a message safe to expose to the caller (validation failures,
// not-found, and the like). Anything else reaching the boundary is an
// unexpected fault.
type OperationalError struct {
	Code    int
	Message string
}

// Error implements the error interface
func (e *OperationalError) Error() string {
	return e.Message
}

// StatusCode returns the intended HTTP status
func (e *OperationalError) StatusCode() int {
	return e.Code
}

// NewOperationalError creates an operational error with a status and a
// caller-safe message.
func NewOperationalError(code int, message string) *OperationalError {
	return &OperationalError{Code: code, Message: message}
}

// statusCoder is the custom-code surface checked first at the boundary
type statusCoder interface {
	StatusCode() int
}

// statuser is the generic status surface checked second
type statuser interface {
	Status() int
}

// StatusFromError derives an HTTP status from an error: the custom-code
// field is consulted before the generic status field, and anything else
// defaults to 500.
func StatusFromError(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	var st statuser
	if errors.As(err, &st) {
		return st.Status()
	}
	return http.StatusInternalServerError
}
