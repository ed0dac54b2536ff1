package defs

import "errors"

// Every error returned by the nr packages wraps exactly one of these.
// Match with errors.Is.
var (
	// ErrOutOfRange is a scalar outside its documented domain
	ErrOutOfRange = errors.New("nr: value out of range")

	// ErrInconsistentConfig is a contradiction between configuration fields
	ErrInconsistentConfig = errors.New("nr: inconsistent configuration")

	// ErrUnsupported is a valid configuration this implementation refuses
	ErrUnsupported = errors.New("nr: unsupported configuration")

	// ErrNoSuchConfigIndex is a PRACH configuration index missing from the tables
	ErrNoSuchConfigIndex = errors.New("nr: no such PRACH configuration index")
)
