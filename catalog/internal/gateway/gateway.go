package gateway

import "errors"

// ErrUpstream is returned when the upstream catalog cannot be reached or
// responds with a non-success status.
var ErrUpstream = errors.New("upstream catalog unavailable")
