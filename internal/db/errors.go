package db

import "errors"

// ErrNotFound is wrapped by write operations whose target row does not exist.
// Lookups return nil instead.
var ErrNotFound = errors.New("not found")
