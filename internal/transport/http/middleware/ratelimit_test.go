package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"civitec/internal/domain/access"
	"civitec/internal/domain/auth"
)

func TestRateLimitFixedWindow(t *testing.T) {
	handler := RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/rh/funcionarios", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/rh/funcionarios", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}

	// A different client gets its own bucket.
	req = httptest.NewRequest(http.MethodGet, "/rh/funcionarios", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for second client, got %d", rec.Code)
	}
}

func TestRateLimitKeysAuthenticatedActors(t *testing.T) {
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler = RateLimit(1, time.Minute)(handler)
	handler = Auth(testSecret)(handler)

	sendAs := func(userID string) int {
		token, err := auth.GenerateToken(testSecret, auth.Claims{
			UserID: userID,
			Name:   "Teste",
			Role:   string(access.RoleSectorAdmin),
			Sector: string(access.SectorTributos),
		}, auth.TokenTTL)
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/tributos/guias", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Two accounts behind the same address do not share a bucket.
	if code := sendAs("u-1"); code != http.StatusOK {
		t.Fatalf("first user: expected 200, got %d", code)
	}
	if code := sendAs("u-2"); code != http.StatusOK {
		t.Fatalf("second user: expected 200, got %d", code)
	}
	if code := sendAs("u-1"); code != http.StatusTooManyRequests {
		t.Fatalf("first user again: expected 429, got %d", code)
	}
}

func TestSensitiveRateScope(t *testing.T) {
	cases := []struct {
		method string
		path   string
		want   sensitiveScope
	}{
		{http.MethodPost, "/api/v1/auth/login", sensitiveScopeAuth},
		{http.MethodPost, "/api/v1/convites/aceitar", sensitiveScopeAuth},
		{http.MethodPost, "/api/v1/configuracoes/convites", sensitiveScopeActor},
		{http.MethodPost, "/api/v1/rh/ferias/abc/aprovar", sensitiveScopeActor},
		{http.MethodPost, "/api/v1/rh/ferias/abc/rejeitar", sensitiveScopeActor},
		{http.MethodPost, "/api/v1/licitacao/processos/abc/adjudicar", sensitiveScopeActor},
		{http.MethodGet, "/api/v1/auth/login", sensitiveScopeNone},
		{http.MethodGet, "/api/v1/rh/funcionarios", sensitiveScopeNone},
		{http.MethodPost, "/api/v1/rh/funcionarios", sensitiveScopeNone},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		if got := sensitiveRateScope(req); got != tc.want {
			t.Fatalf("%s %s: expected scope %q, got %q", tc.method, tc.path, tc.want, got)
		}
	}
}
