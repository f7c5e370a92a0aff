package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{
			name:     "with request ID",
			ctx:      WithRequestID(context.Background(), "test-id-123"),
			expected: "test-id-123",
		},
		{
			name:     "without request ID",
			ctx:      context.Background(),
			expected: "",
		},
		{
			name:     "string key does not collide",
			ctx:      context.WithValue(context.Background(), "request_id", "other"), //nolint:staticcheck
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromContext(tt.ctx))
		})
	}
}

func TestNew(t *testing.T) {
	a, b := New(), New()

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, a, b)
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		inbound  string
		wantKept bool
	}{
		{name: "propagates client id", inbound: "client-req.42_a", wantKept: true},
		{name: "generates when missing", inbound: "", wantKept: false},
		{name: "rejects spaces", inbound: "id with spaces", wantKept: false},
		{name: "rejects newline injection", inbound: "abc\ninjected=1", wantKept: false},
		{name: "rejects oversized id", inbound: strings.Repeat("a", maxInboundLength+1), wantKept: false},
		{name: "accepts max length", inbound: strings.Repeat("a", maxInboundLength), wantKept: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = FromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodPost, "/extract_information", nil)
			if tt.inbound != "" {
				req.Header.Set(RequestIDHeader, tt.inbound)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
			if tt.wantKept {
				assert.Equal(t, tt.inbound, seen)
			} else {
				_, err := uuid.Parse(seen)
				assert.NoError(t, err, "generated id should be a UUID")
			}
		})
	}
}

func TestMiddleware_UniquePerRequest(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	ids := make(map[string]struct{})
	for range 50 {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		ids[rr.Header().Get(RequestIDHeader)] = struct{}{}
	}
	assert.Len(t, ids, 50)
}
