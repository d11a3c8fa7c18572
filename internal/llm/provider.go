// Package llm wraps the upstream chat-completion API.
//
// Provider responses are wrapped at the boundary into a Completion, which is
// either Streamed (an ordered sequence of content deltas) or Complete (one
// finished message). Callers switch on the concrete type instead of probing
// the provider's shape.
package llm

import (
	"context"

	"portfolio-chatbot/backend/internal/models"
)

// Request is a provider call: the full message list plus generation parameters
type Request struct {
	Messages []models.Message
	Config   models.ModelConfiguration
}

// Provider creates chat completions
type Provider interface {
	Complete(ctx context.Context, req Request) (Completion, error)
}

// Completion is the tagged union of provider results
type Completion interface {
	completion()
}

// ChunkStream yields content deltas in generation order. Recv returns io.EOF
// after the last delta. A delta may be empty.
type ChunkStream interface {
	Recv() (string, error)
	Close() error
}

// Streamed is a completion delivered incrementally
type Streamed struct {
	Chunks ChunkStream
}

// Complete is a completion delivered as one message
type Complete struct {
	Message models.Message
}

func (Streamed) completion() {}
func (Complete) completion() {}

// ProviderFunc adapts a function to the Provider interface
type ProviderFunc func(ctx context.Context, req Request) (Completion, error)

// Complete calls f
func (f ProviderFunc) Complete(ctx context.Context, req Request) (Completion, error) {
	return f(ctx, req)
}
