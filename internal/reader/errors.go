// File: internal/reader/errors.go
package reader

import "errors"

var (
	// ErrNotStarted is returned by any cursor, navigation, or log operation
	// invoked before Start or after Stop.
	ErrNotStarted = errors.New("reader: engine not started")

	// ErrMissingContainer is returned by Start when no container is given.
	ErrMissingContainer = errors.New("reader: start requires a container")
)
