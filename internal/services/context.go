package services

import "context"

type contextKey string

const (
	groupKeyKey  contextKey = "group_key"
	operationKey contextKey = "operation"
	sessionIDKey contextKey = "session_id"
)

// WithGroupKey annotates context with the catalog group key being processed.
func WithGroupKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, groupKeyKey, key)
}

// GroupKeyFromContext extracts the catalog group key if present.
func GroupKeyFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(groupKeyKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithOperation annotates context with the migration operation name.
func WithOperation(ctx context.Context, op string) context.Context {
	if op == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKey, op)
}

// OperationFromContext returns the operation name if present.
func OperationFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(operationKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSessionID annotates context with the CLI session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
