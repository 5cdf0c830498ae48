package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("sandbox-test-secret")

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return s
}

func TestAuth(t *testing.T) {
	var seen string
	h := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetAdminID(r.Context())
	}))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, jwt.MapClaims{"sub": "ad1", "exp": time.Now().Add(-time.Minute).Unix()}), http.StatusUnauthorized},
		{"no exp", "Bearer " + sign(t, jwt.MapClaims{"sub": "ad1"}), http.StatusUnauthorized},
		{"valid", "Bearer " + sign(t, jwt.MapClaims{"sub": "ad1", "exp": time.Now().Add(time.Hour).Unix()}), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/projects/create", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tc.status, rr.Code)
			if tc.status == http.StatusUnauthorized {
				assert.Contains(t, rr.Body.String(), `"detail"`)
			}
		})
	}
	assert.Equal(t, "ad1", seen)
}

func TestRateLimit(t *testing.T) {
	l := NewLimiter(1, 2)
	h := l.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 3)
	for i := range codes {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/projects/all", nil))
		codes[i] = rr.Code
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	l.Sweep(0)
	assert.Empty(t, l.visitors)
}

func TestRecoveryAndRequestID(t *testing.T) {
	h := RequestID(Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "req-1", rr.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `{"detail":"Internal server error"}`, rr.Body.String())
}

func TestRequestIDReplacesUnusableIDs(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	for _, in := range []string{"", "has space", "line\nbreak", strings.Repeat("x", maxRequestIDLen+1)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, in)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		_, err := uuid.Parse(seen)
		assert.NoError(t, err, "id for %q", in)
		assert.Equal(t, seen, rr.Header().Get(HeaderRequestID))
	}

	assert.Empty(t, GetRequestID(context.Background()))
}
