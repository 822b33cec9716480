package pkgrouter

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authedHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuthDisabledWhenNoToken(t *testing.T) {
	called := false
	wrapped := BearerAuth(func() string { return "" })(authedHandler(&called))

	req := httptest.NewRequest(http.MethodPost, "http://example.com/search", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected handler reached without credentials")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBearerAuthRejectsMissingToken(t *testing.T) {
	called := false
	wrapped := BearerAuth(func() string { return "secret" })(authedHandler(&called))

	req := httptest.NewRequest(http.MethodPost, "http://example.com/search", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if called {
		t.Fatalf("expected handler not reached")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestBearerAuthRejectsWrongToken(t *testing.T) {
	called := false
	wrapped := BearerAuth(func() string { return "secret" })(authedHandler(&called))

	req := httptest.NewRequest(http.MethodPost, "http://example.com/search", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if called {
		t.Fatalf("expected handler not reached")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestBearerAuthAcceptsMatchingToken(t *testing.T) {
	called := false
	wrapped := BearerAuth(func() string { return "secret" })(authedHandler(&called))

	req := httptest.NewRequest(http.MethodPost, "http://example.com/search", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected handler reached")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBearerTokenParsing(t *testing.T) {
	if _, ok := bearerToken(""); ok {
		t.Fatalf("expected no token for empty header")
	}
	if _, ok := bearerToken("Basic abc"); ok {
		t.Fatalf("expected no token for non-bearer scheme")
	}
	if got, ok := bearerToken("bearer abc"); !ok || got != "abc" {
		t.Fatalf("expected case-insensitive scheme, got %q ok=%v", got, ok)
	}
	if _, ok := bearerToken("Bearer   "); ok {
		t.Fatalf("expected no token for blank value")
	}
}
