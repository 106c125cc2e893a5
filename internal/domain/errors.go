package domain

import "errors"

var (
	ErrGenerationFailure = errors.New("generation failure")
	ErrParseFailure      = errors.New("parse failure")
	ErrFetchExhausted    = errors.New("fetch exhausted")
	ErrConfiguration     = errors.New("configuration error")
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrFileNotFound      = errors.New("file not found")
)
