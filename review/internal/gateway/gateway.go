package gateway

import "errors"

// ErrUnauthenticated is returned when a credential is missing or the
// identity provider rejects it.
var ErrUnauthenticated = errors.New("unauthenticated")
