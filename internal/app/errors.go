package service

import (
	"errors"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrNoAnalysis    = errors.New("analysis not found")
	ErrEventNotFound = errors.New("event not found")
)
