package roast

import (
	"context"
	"iter"
)

// Request is a single generation request handed to a backend.
type Request struct {
	// System is the system instruction.
	System string

	// Prompt is the user prompt.
	Prompt string

	// MaxTokens is the output budget for this request.
	MaxTokens int
}

// TextBackend is a generative text model that streams its output.
//
// Stream returns a sequence that yields text fragments as the model produces
// them. A non-nil error ends the sequence. Implementations must stop work
// when ctx is cancelled or when the consumer stops iterating.
type TextBackend interface {
	// Name identifies the backend in logs.
	Name() string

	// Stream starts a generation for req.
	Stream(ctx context.Context, req Request) iter.Seq2[string, error]
}
