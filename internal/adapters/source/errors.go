package source

import "errors"

// Sentinel kinds for upstream fetch errors.
var (
	ErrUpstream = errors.New("upstream fetch failed")
	ErrDecode   = errors.New("upstream payload decode failed")
)
