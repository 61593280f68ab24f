package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports a malformed draft caught before any request is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError reports that the server could not be reached or did not
// answer in time.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AuthorizationError reports that the server rejected the session token.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	if e.Message == "" {
		return "session expired, please log in again"
	}
	return e.Message
}

// ServerError reports a business-rule or unexpected server failure.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if msg == "" {
		msg = "request failed"
	}
	return msg
}

// IsAuthorization reports whether err is or wraps an *AuthorizationError.
func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransport reports whether err is or wraps a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsServer reports whether err is or wraps a *ServerError.
func IsServer(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

// Message returns the text shown to a user for err, or "" when err is nil.
func Message(err error) string {
	var ae *AuthorizationError
	var te *TransportError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ae):
		return ae.Error()
	case errors.As(err, &te):
		return "network error: " + te.Err.Error()
	default:
		return err.Error()
	}
}
