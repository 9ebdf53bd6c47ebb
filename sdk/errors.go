// Package sdk is the HTTP client for the remote configuration store. It
// implements the store interface the migration engine plans against:
// tenant/profile enumeration, deep tree reads, cluster listing, and
// single-operation mutations.
package sdk

import "errors"

// Common SDK errors that callers can check for specific error handling.
var (
	// ErrInvalidConfig indicates the client configuration is invalid or incomplete.
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrLoginFailed indicates the store rejected the login credentials.
	ErrLoginFailed = errors.New("login rejected by the configuration store")

	// ErrUnauthorized indicates the session token was missing or expired.
	ErrUnauthorized = errors.New("unauthorized: invalid or expired session")

	// ErrMissingAuth indicates neither login credentials nor a client
	// certificate were provided.
	ErrMissingAuth = errors.New("missing authentication credentials")

	// ErrServerError indicates an internal store error occurred.
	ErrServerError = errors.New("internal store error")

	// ErrBadRequest indicates the request was malformed or invalid.
	ErrBadRequest = errors.New("bad request")
)
