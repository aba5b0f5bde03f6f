package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates a validation failure on caller-supplied data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden indicates the caller lacks the required guild permissions.
	ErrForbidden = errors.New("forbidden")
	// ErrNoChannel indicates no announce channel is configured for the guild.
	ErrNoChannel = errors.New("no announce channel configured")
	// ErrBoardClosed indicates the sign-up board no longer accepts votes.
	ErrBoardClosed = errors.New("sign-up board is closed")
)
