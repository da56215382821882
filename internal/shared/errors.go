package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenMissing occurs when no bearer token accompanies a request.
	ErrTokenMissing = errors.New("token missing")
	// ErrTokenExpired occurs when a bearer token is unknown or past its TTL.
	ErrTokenExpired = errors.New("token expired")
)
