package roast

import "errors"

var (
	// ErrInvalidInput is returned when the username is missing or blank.
	ErrInvalidInput = errors.New("username is required")

	// ErrGenerationFailed wraps any failure of the generative backend,
	// including a generation that produced no text.
	ErrGenerationFailed = errors.New("roast generation failed")

	// ErrStreamConsumed is returned when a fragment sequence is ranged
	// over a second time.
	ErrStreamConsumed = errors.New("roast stream already consumed")
)
