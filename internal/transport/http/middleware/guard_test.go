package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"civitec/internal/domain/access"
	"civitec/internal/domain/auth"
	"civitec/internal/transport/http/api"
)

const testSecret = "guard-test-secret"

func guardedServer(t *testing.T, module access.Module) http.Handler {
	t.Helper()
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler = RequireModule(module)(handler)
	return Auth(testSecret)(handler)
}

func tokenFor(t *testing.T, role access.Role, sector access.Sector) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{
		UserID: "u-1",
		Name:   "Teste",
		Role:   string(role),
		Sector: string(sector),
	}, auth.TokenTTL)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) api.Envelope {
	t.Helper()
	var env api.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestRequireModuleAnonymousGetsRedirect(t *testing.T) {
	srv := guardedServer(t, access.ModuleTributos)

	req := httptest.NewRequest(http.MethodGet, "/tributos/guias", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "unauthorized" {
		t.Fatalf("unexpected error payload: %+v", env.Error)
	}
	details, _ := env.Error.Details.(map[string]any)
	if details["redirect"] != LoginRoute {
		t.Fatalf("expected redirect to %q, got %v", LoginRoute, details["redirect"])
	}
}

func TestRequireModuleDeniedStaysInPlace(t *testing.T) {
	srv := guardedServer(t, access.ModuleTributos)

	req := httptest.NewRequest(http.MethodGet, "/tributos/guias", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, access.RoleSectorOperator, access.SectorObras))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "access_denied" {
		t.Fatalf("unexpected error payload: %+v", env.Error)
	}
	details, _ := env.Error.Details.(map[string]any)
	if details["module"] != string(access.ModuleTributos) {
		t.Fatalf("expected module detail, got %v", details["module"])
	}
	if details["home"] != HomeRoute {
		t.Fatalf("expected home %q, got %v", HomeRoute, details["home"])
	}
	if details["redirect"] != nil {
		t.Fatalf("denial must not carry a redirect, got %v", details["redirect"])
	}
}

func TestRequireModuleAllowsMatchingSector(t *testing.T) {
	srv := guardedServer(t, access.ModuleTributos)

	req := httptest.NewRequest(http.MethodGet, "/tributos/guias", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, access.RoleSectorOperator, access.SectorTributos))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireModuleMasterAdminBypasses(t *testing.T) {
	for _, module := range []access.Module{
		access.ModuleRH, access.ModuleTributos, access.ModuleLicitacao,
		access.ModuleObras, access.ModuleRelatorios, access.ModuleConfiguracoes,
	} {
		srv := guardedServer(t, module)
		req := httptest.NewRequest(http.MethodGet, "/"+string(module), nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, access.RoleMasterAdmin, access.SectorNone))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("module %s: expected 200 for master_admin, got %d", module, rec.Code)
		}
	}
}

func TestRequireModuleEmployeeOnlyReachesHR(t *testing.T) {
	cases := map[access.Module]int{
		access.ModuleRH:            http.StatusOK,
		access.ModuleTributos:      http.StatusForbidden,
		access.ModuleRelatorios:    http.StatusForbidden,
		access.ModuleConfiguracoes: http.StatusForbidden,
	}
	for module, want := range cases {
		srv := guardedServer(t, module)
		req := httptest.NewRequest(http.MethodGet, "/"+string(module), nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, access.RoleEmployee, access.SectorNone))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != want {
			t.Fatalf("module %s: expected %d for employee, got %d", module, want, rec.Code)
		}
	}
}

func TestAuthIgnoresMalformedTokens(t *testing.T) {
	srv := guardedServer(t, access.ModuleRH)

	req := httptest.NewRequest(http.MethodGet, "/rh/funcionarios", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	// A garbage token leaves the request anonymous, so the guard answers
	// with the unauthenticated shape rather than a denial.
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthenticated(t *testing.T) {
	var handler http.Handler = RequireAuthenticated(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler = Auth(testSecret)(handler)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, access.RoleEmployee, access.SectorNone))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
}
