// Package context carries per-request correlation values. The logger reads
// them so every line of a request shares the same identifiers.
package context

import (
	"context"

	"github.com/google/uuid"
)

// TraceContext holds the correlation identifiers of one request.
type TraceContext struct {
	TraceID   string
	RequestID string
}

type traceKey struct{}

// NewTraceContext creates a TraceContext with generated identifiers.
func NewTraceContext() *TraceContext {
	return &TraceContext{
		TraceID:   uuid.New().String(),
		RequestID: uuid.New().String(),
	}
}

// WithTrace attaches the trace to the context.
func WithTrace(ctx context.Context, t *TraceContext) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

// GetTrace returns the trace carried by the context, or nil.
func GetTrace(ctx context.Context) *TraceContext {
	if t, ok := ctx.Value(traceKey{}).(*TraceContext); ok {
		return t
	}
	return nil
}
