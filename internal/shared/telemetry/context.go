package telemetry

import "context"

type ctxKey int

const (
	requestIDCtxKey ctxKey = iota
	sessionIDCtxKey
)

// WithRequestID stores the request id so service-level logs can carry it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey, id)
}

// WithSessionID stores the session id so service-level logs can carry it.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDCtxKey, id)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}

// SessionID returns the session id stored in ctx, if any.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDCtxKey).(string)
	return id
}

// InfoCtx is Info with the request and session ids from ctx added.
func InfoCtx(ctx context.Context, msg string, fields map[string]any) {
	Info(msg, withCorrelation(ctx, fields))
}

// WarnCtx is Warn with the request and session ids from ctx added.
func WarnCtx(ctx context.Context, msg string, fields map[string]any) {
	Warn(msg, withCorrelation(ctx, fields))
}

// ErrorCtx is Error with the request and session ids from ctx added.
func ErrorCtx(ctx context.Context, msg string, fields map[string]any) {
	Error(msg, withCorrelation(ctx, fields))
}

func withCorrelation(ctx context.Context, fields map[string]any) map[string]any {
	if ctx == nil {
		return fields
	}
	out := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		out[k] = v
	}
	if id := RequestID(ctx); id != "" {
		out["request_id"] = id
	}
	if id := SessionID(ctx); id != "" {
		out["session_id"] = id
	}
	return out
}
