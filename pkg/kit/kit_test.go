package kit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChainOrder(t *testing.T) {
	var trace []string
	mw := func(name string) Middleware {
		return func(next Endpoint) Endpoint {
			return func(ctx context.Context, req any) (any, error) {
				trace = append(trace, name)
				return next(ctx, req)
			}
		}
	}
	e := Chain(mw("a"), mw("b"), mw("c"))(func(context.Context, any) (any, error) {
		trace = append(trace, "endpoint")
		return nil, nil
	})
	e(context.Background(), nil)

	if got := strings.Join(trace, ","); got != "a,b,c,endpoint" {
		t.Errorf("trace = %s", got)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if GetTransport(ctx) != TransportHTTP {
		t.Errorf("default transport = %q", GetTransport(ctx))
	}
	ctx = WithTransport(WithRequestID(ctx, "r1"), TransportMCPStdio)
	if GetTransport(ctx) != TransportMCPStdio || GetRequestID(ctx) != "r1" {
		t.Errorf("transport=%q request_id=%q", GetTransport(ctx), GetRequestID(ctx))
	}
	a, b := NewRequestID(), NewRequestID()
	if len(a) != 36 || a == b {
		t.Errorf("request ids %q %q", a, b)
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ok := Logging(logger, "search")(func(context.Context, any) (any, error) { return "x", nil })
	fail := Logging(logger, "best")(func(context.Context, any) (any, error) { return nil, errors.New("boom") })

	ctx := WithRequestID(context.Background(), "req-7")
	if resp, err := ok(ctx, nil); resp != "x" || err != nil {
		t.Fatalf("ok endpoint = %v, %v", resp, err)
	}
	if _, err := fail(ctx, nil); err == nil {
		t.Fatal("expected error")
	}

	out := buf.String()
	for _, want := range []string{"endpoint=search", "endpoint=best", "request_id=req-7", "level=WARN", "error=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestStatusOf(t *testing.T) {
	cause := errors.New("unknown country")
	tests := []struct {
		err  error
		want int
	}{
		{InvalidRequest("bad %s", "limit"), http.StatusBadRequest},
		{NotFound(cause, "no data"), http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", NotFound(nil, "x")), http.StatusNotFound},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.want {
			t.Errorf("StatusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
	if err := NotFound(cause, "no data"); !errors.Is(err, cause) || err.Error() != "no data: unknown country" {
		t.Errorf("NotFound = %v", err)
	}
}

func TestHTTPHandler(t *testing.T) {
	var sawTransport string
	e := func(ctx context.Context, req any) (any, error) {
		sawTransport = GetTransport(ctx)
		if req.(string) == "" {
			return nil, InvalidRequest("empty")
		}
		return map[string]string{"echo": req.(string)}, nil
	}
	decode := func(r *http.Request) (any, error) { return r.URL.Query().Get("v"), nil }
	h := HTTPHandler(e, decode)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/?v=hi", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"echo":"hi"`) {
		t.Errorf("ok response = %d %s", rec.Code, rec.Body.String())
	}
	if sawTransport != TransportHTTP {
		t.Errorf("transport = %q", sawTransport)
	}

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"error":"empty"`) {
		t.Errorf("error response = %d %s", rec.Code, rec.Body.String())
	}

	failing := HTTPHandler(e, func(*http.Request) (any, error) { return nil, InvalidRequest("nope") })
	rec = httptest.NewRecorder()
	failing(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("decode failure status = %d", rec.Code)
	}
}
