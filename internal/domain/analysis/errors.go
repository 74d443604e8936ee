package analysis

import "errors"

// ErrInvalidRequestID indicates the submitted request_id is not a positive integer.
// Surfaced to the client as HTTP 400; such requests are never scheduled.
var ErrInvalidRequestID = errors.New("invalid request id")
