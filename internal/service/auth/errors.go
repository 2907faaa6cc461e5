package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token is malformed, its signature does
	// not verify, or the payload lacks a subject claim.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrWrongTokenType indicates an access token was presented where a
	// refresh token was expected, or vice versa.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")
)
