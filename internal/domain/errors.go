package domain

import "errors"

// ErrNotFound is returned by repo functions when the requested record does
// not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when caller input fails business rule validation
// (e.g. unsupported departure port, end date before start date, non-positive
// adult count).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")
