package leetcode

import "errors"

var (
	// ErrBadStatus is the cause recorded when upstream answers with a
	// non-2xx status code.
	ErrBadStatus = errors.New("unexpected upstream status")

	// ErrMalformedResponse is the cause recorded when the body cannot be
	// decoded as a GraphQL envelope.
	ErrMalformedResponse = errors.New("malformed upstream response")

	// ErrMissingData is the cause recorded when the envelope has no data
	// field.
	ErrMissingData = errors.New("upstream response missing data")
)
