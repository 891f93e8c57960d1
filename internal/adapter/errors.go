package adapter

import "errors"

var (
	ErrUpstreamUnavailable = errors.New("analysis provider unavailable")
	ErrUpstreamRejected    = errors.New("analysis provider rejected request")
)
