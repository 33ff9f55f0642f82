package repository

import "errors"

// ErrNotFound is returned when a requested document does not exist.
// Implementations map their driver's not-found signal to this sentinel so
// usecases stay storage-agnostic.
var ErrNotFound = errors.New("not found")
