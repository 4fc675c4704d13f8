package domain

import "errors"

// ErrGraphNotFound is returned when a run is requested against an
// unregistered graph identifier.
var ErrGraphNotFound = errors.New("graph not found")

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")
