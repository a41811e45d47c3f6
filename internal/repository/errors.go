package repository

import "errors"

// ErrNotFound is wrapped by every repository when a lookup matches no
// row. Callers test with errors.Is.
var ErrNotFound = errors.New("not found")
