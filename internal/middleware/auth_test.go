package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"verbum/internal/httputil"
)

func TestAuthMiddleware_TrustedHeaderMode(t *testing.T) {
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = httputil.GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	mw := AuthMiddleware(nil)(next)

	t.Run("passes header subject through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/quota", nil)
		req.Header.Set("X-User-ID", "u1")
		rec := httptest.NewRecorder()

		mw.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotUserID != "u1" {
			t.Errorf("expected user id u1, got %q", gotUserID)
		}
	})

	t.Run("rejects missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/quota", nil)
		rec := httptest.NewRecorder()

		mw.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestSkipAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mw := SkipAuth(AuthMiddleware(nil), map[string]bool{"/health": true})(next)

	t.Run("exempt route needs no credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		mw.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("other routes still authenticate", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/quota", nil)
		rec := httptest.NewRecorder()

		mw.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
