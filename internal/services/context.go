package services

import "context"

type contextKey string

const (
	requestIDKey   contextKey = "request_id"
	routeKey       contextKey = "route"
	rotationKeyKey contextKey = "rotation_key"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRoute annotates context with the HTTP route being served.
func WithRoute(ctx context.Context, route string) context.Context {
	if route == "" {
		return ctx
	}
	return context.WithValue(ctx, routeKey, route)
}

// RouteFromContext returns the route if present.
func RouteFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(routeKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRotationKey annotates context with the rotation key a request targets.
func WithRotationKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, rotationKeyKey, key)
}

// RotationKeyFromContext returns the rotation key if present.
func RotationKeyFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(rotationKeyKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
