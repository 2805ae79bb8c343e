package types

import "errors"

var (
	// ErrNotFound is returned by a summary lookup when the record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNotParseable is returned by a collection lookup whose value is not a set of ids.
	ErrNotParseable = errors.New("value is not a collection of ids")

	// ErrUnknownType is returned when a type has no backing table in the store.
	ErrUnknownType = errors.New("unknown record type")

	// ErrBackendUnavailable marks connection-level failures. A traversal that sees it aborts.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrSeedNotFound is returned when the seed record itself does not exist.
	ErrSeedNotFound = errors.New("seed record not found")

	// ErrInvalidLimit is returned for an object limit below 1 or a negative depth limit.
	ErrInvalidLimit = errors.New("invalid traversal limit")
)
