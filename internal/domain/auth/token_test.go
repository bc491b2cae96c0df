package auth

import (
	"testing"
	"time"

	"civitec/internal/domain/access"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	claims := Claims{UserID: "u1", Name: "Ana", Role: "sector_admin", Sector: "obras"}
	token, err := GenerateToken(testSecret, claims, time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	parsed, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.UserID != "u1" || parsed.Role != "sector_admin" || parsed.Sector != "obras" {
		t.Fatalf("unexpected claims: %+v", parsed)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, Claims{UserID: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("expected parse to fail with wrong secret")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken(testSecret, Claims{UserID: "u1"}, -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := ParseToken(testSecret, token); err == nil {
		t.Fatal("expected parse to fail for expired token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3nha-forte")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := CheckPassword(hash, "s3nha-forte"); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}
	if err := CheckPassword(hash, "errada"); err == nil {
		t.Fatal("wrong password accepted")
	}
}

func TestSnapshotAdaptsToResolver(t *testing.T) {
	user := UserContext{UserID: "u1", Role: access.RoleSectorAdmin, Sector: access.SectorObras}
	snap := user.Snapshot()
	if !access.CanAccessModule(snap, access.ModuleObras) {
		t.Fatal("snapshot should grant obras")
	}
	if access.CanAccessModule(snap, access.ModuleTributos) {
		t.Fatal("snapshot should deny tributos")
	}
}
