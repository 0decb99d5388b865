package domain

import "errors"

// Credential errors
var (
	ErrDecodeFailure     = errors.New("credential could not be decoded")
	ErrExpiredCredential = errors.New("credential has expired")
	ErrMissingCredential = errors.New("no credential")
)

// Schedule errors
var (
	ErrUnparsableScheduleRow = errors.New("unparsable schedule row")
	ErrUnknownMajor          = errors.New("major not found in schedule")
	ErrSourceUnavailable     = errors.New("schedule source unavailable")
	ErrInvalidWindow         = errors.New("instance window requires an end bound")
	ErrInvalidDuration       = errors.New("occurrence ends before it starts")
)
