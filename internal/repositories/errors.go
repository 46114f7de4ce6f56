package repositories

import "errors"

// ErrNotFound is returned when a requested record does not exist. All
// implementations wrap it so callers can match with errors.Is.
var ErrNotFound = errors.New("record not found")
