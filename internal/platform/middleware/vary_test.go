package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVaryPreservesDownstreamResponse(t *testing.T) {
	h := Vary()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Custom", "value")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("body"))
	}))

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", resp.Code)
	}
	if resp.Header().Get("X-Custom") != "value" || resp.Body.String() != "body" {
		t.Fatal("expected downstream header and body to be preserved")
	}
	if got := resp.Header().Get("Vary"); got != "Accept" {
		t.Fatalf("expected Vary: Accept, got %q", got)
	}
}
