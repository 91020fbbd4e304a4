package common

import "context"

type contextKey string

const contextKeyRequestID contextKey = "request_id"

// WithRequestID attaches an ingest trace ID to the context so logs from one
// document run can be correlated across the queue and the pipeline.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID, or "" when none is set.
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}
