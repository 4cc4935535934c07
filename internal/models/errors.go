package models

import "errors"

var (
	// ErrNotFound is returned when the provider does not recognise a symbol.
	ErrNotFound = errors.New("symbol not found")
	// ErrRateLimited is returned when the provider signals throttling.
	ErrRateLimited = errors.New("rate limited by quote provider")
	// ErrInvalidInput covers non-positive prices or shares and degenerate arithmetic.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNetworkFailure is a transport-level failure talking to the provider.
	ErrNetworkFailure = errors.New("network failure")
	// ErrDuplicateSymbol is returned when a symbol is already on the comparison board.
	ErrDuplicateSymbol = errors.New("symbol already tracked")
)
