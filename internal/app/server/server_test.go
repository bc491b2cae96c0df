package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"civitec/internal/platform/config"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Config{
		BaseURL:            "http://localhost:8080",
		JWTSecret:          "router-test-secret",
		FrontendDir:        t.TempDir(),
		Environment:        "development",
		SeedMunicipality:   "Prefeitura de Teste",
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 1,
		DefaultPageSize:    20,
		MaxPageSize:        100,
	}
	return newRouter(cfg, nil, nil)
}

func TestProbesBypassRateLimit(t *testing.T) {
	router := testRouter(t)

	// Limit is 1/min, so any throttled probe would 429 on the second
	// request. Health checks hammer far harder than that.
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("probe %d: expected 200, got %d", i+1, rec.Code)
		}
	}
}

func TestAPIRoutesAreRateLimited(t *testing.T) {
	router := testRouter(t)

	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send(); code != http.StatusUnauthorized {
		t.Fatalf("first request: expected 401, got %d", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", code)
	}
}
