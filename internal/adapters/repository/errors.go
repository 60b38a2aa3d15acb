package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrGameNotFound = errors.New("game not found")
)
