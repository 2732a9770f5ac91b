package store

import "errors"

// ErrNotFound is returned when a requested entity does not exist or a tenant
// has no active rows of the requested kind.
var ErrNotFound = errors.New("not found")
