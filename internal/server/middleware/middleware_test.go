package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-evaluator/internal/logger"
	"github.com/jonathan/resume-evaluator/internal/server/ratelimit"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func TestRequestID_Generated(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.NotEmpty(t, seen)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
}

func TestRequestID_Propagated(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestGetRequestID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetRequestID(req.Context()))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(logger.Config{Level: "info", Format: "json"}, &buf)
	t.Cleanup(func() { logger.InitWithWriter(logger.Config{Level: "info"}, &bytes.Buffer{}) })

	h := Chain(http.NotFoundHandler(), RequestID, Logging)
	req := httptest.NewRequest(http.MethodGet, "/evaluations/missing", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"message":"request completed"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"path":"/evaluations/missing"`)
	assert.Contains(t, out, `"request_id":"req-1"`)
}

func TestLogging_DefaultStatus(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(logger.Config{Level: "info", Format: "json"}, &buf)
	t.Cleanup(func() { logger.InitWithWriter(logger.Config{Level: "info"}, &bytes.Buffer{}) })

	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/roles", nil))

	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"bytes":5`)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantOrigin string
	}{
		{"wildcard", []string{"*"}, "https://app.example.com", "*"},
		{"listed origin", []string{"https://app.example.com"}, "https://app.example.com", "https://app.example.com"},
		{"unlisted origin", []string{"https://app.example.com"}, "https://evil.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := CORS(tt.origins)(http.HandlerFunc(okHandler))
			req := httptest.NewRequest(http.MethodGet, "/roles", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	h := CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/evaluations", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, called)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestRateLimit(t *testing.T) {
	cfg := ratelimit.DefaultConfig()
	cfg.CleanupInterval = 0
	cfg.DefaultLimit = 1
	cfg.DefaultWindow = time.Hour
	limiter := ratelimit.NewLimiter(cfg)
	defer limiter.Stop()

	h := RateLimit(limiter)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())

	other := httptest.NewRequest(http.MethodGet, "/roles", nil)
	other.RemoteAddr = "192.0.2.2:1234"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, other)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_HealthUnlimited(t *testing.T) {
	cfg := ratelimit.DefaultConfig()
	cfg.CleanupInterval = 0
	cfg.DefaultLimit = 1
	limiter := ratelimit.NewLimiter(cfg)
	defer limiter.Stop()

	h := RateLimit(limiter)(http.HandlerFunc(okHandler))
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	assert.Equal(t, "203.0.113.7", ClientIP(req))

	req.RemoteAddr = "not-an-address"
	assert.Equal(t, "not-an-address", ClientIP(req))
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(okHandler), mark("first"), mark("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"first", "second"}, order)
}
