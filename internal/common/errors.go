// Package common defines sentinel errors shared by the repositories,
// services and the HTTP layer. Match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrorValidation      = errors.New("validation error")
	ErrorTooManyRequests = errors.New("too many requests")

	// ErrorUpstream marks failures of collaborators we do not own:
	// mail transport, bot check.
	ErrorUpstream = errors.New("upstream failure")

	// Token lifecycle errors, used for both verification tokens and
	// session credentials.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
