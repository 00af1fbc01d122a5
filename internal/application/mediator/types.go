package mediator

import (
	"context"
)

// Request is a planning command or query dispatched through the mediator.
type Request interface{}

// Response is whatever the handler returns for its request.
type Response interface{}

// RequestHandler handles one concrete request type.
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc adapts a bare function to the handler call shape.
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Middleware wraps dispatch with a cross-cutting concern such as logging
// or error translation.
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)
