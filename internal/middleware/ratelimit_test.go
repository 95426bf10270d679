package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("auth routes use the stricter limiter", func(t *testing.T) {
		mw := NewRateLimitMiddleware(100, 1)
		handler := mw.Handler(okHandler)

		req1 := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		rec1 := httptest.NewRecorder()
		handler.ServeHTTP(rec1, req1)
		require.Equal(t, http.StatusOK, rec1.Code)

		// Burst of one: the second immediate request must be rejected.
		req2 := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		rec2 := httptest.NewRecorder()
		handler.ServeHTTP(rec2, req2)
		require.Equal(t, http.StatusTooManyRequests, rec2.Code)
		require.Equal(t, "60", rec2.Header().Get("Retry-After"))
	})

	t.Run("health endpoint bypasses limiting", func(t *testing.T) {
		mw := NewRateLimitMiddleware(1, 1)
		handler := mw.Handler(okHandler)

		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("invalid configuration falls back to defaults", func(t *testing.T) {
		mw := NewRateLimitMiddleware(-1, 0)
		require.Equal(t, 100, mw.generalRPM)
		require.Equal(t, 10, mw.authRPM)
	})
}
