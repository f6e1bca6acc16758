package kit

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	TransportKey contextKey = "kit_transport"
	RequestIDKey contextKey = "kit_request_id"
)

// Transport names.
const (
	TransportHTTP     = "http"
	TransportMCPHTTP  = "mcp_http"
	TransportMCPStdio = "mcp_stdio"
)

func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, TransportKey, t)
}

// GetTransport defaults to "http" when unset.
func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(TransportKey).(string); ok {
		return v
	}
	return TransportHTTP
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(RequestIDKey).(string)
	return v
}

// NewRequestID returns a random UUIDv4 string.
func NewRequestID() string {
	return uuid.NewString()
}
