package users

import (
	"testing"
	"time"

	"civitec/internal/domain/access"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func TestNewInviteRequiresSectorForSectorRoles(t *testing.T) {
	if _, err := NewInvite("a@b.gov.br", access.RoleSectorAdmin, access.SectorNone, "admin", time.Hour, testNow); err != ErrSectorRequired {
		t.Fatalf("expected ErrSectorRequired, got %v", err)
	}
	if _, err := NewInvite("a@b.gov.br", access.RoleSectorOperator, access.Sector("cultura"), "admin", time.Hour, testNow); err != ErrSectorInvalid {
		t.Fatalf("expected ErrSectorInvalid, got %v", err)
	}
}

func TestNewInviteDropsSectorForGlobalRoles(t *testing.T) {
	inv, err := NewInvite("a@b.gov.br", access.RoleMasterAdmin, access.SectorObras, "admin", time.Hour, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Sector != access.SectorNone {
		t.Fatalf("master_admin invite must not carry a sector, got %q", inv.Sector)
	}
	if inv.Token == "" || inv.Status != InvitePending {
		t.Fatalf("invite not initialized: %+v", inv)
	}
	if !inv.ExpiresAt.Equal(testNow.Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %v", inv.ExpiresAt)
	}
}

func TestNewInviteRejectsUnknownRole(t *testing.T) {
	if _, err := NewInvite("a@b.gov.br", access.Role("prefeito"), access.SectorNone, "admin", time.Hour, testNow); err != ErrRoleInvalid {
		t.Fatalf("expected ErrRoleInvalid, got %v", err)
	}
}

func TestAcceptLifecycle(t *testing.T) {
	inv, err := NewInvite("a@b.gov.br", access.RoleEmployee, access.SectorNone, "admin", time.Hour, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := Accept(inv, testNow.Add(30*time.Minute)); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if inv.Status != InviteAccepted || inv.AcceptedAt == nil {
		t.Fatalf("acceptance not recorded: %+v", inv)
	}

	if err := Accept(inv, testNow); err != ErrInviteConsumed {
		t.Fatalf("double accept should fail, got %v", err)
	}
}

func TestAcceptExpired(t *testing.T) {
	inv, err := NewInvite("a@b.gov.br", access.RoleEmployee, access.SectorNone, "admin", time.Hour, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Accept(inv, testNow.Add(2*time.Hour)); err != ErrInviteExpired {
		t.Fatalf("expected ErrInviteExpired, got %v", err)
	}
	if inv.Status != InviteExpired {
		t.Fatalf("expired invite should be marked, got %s", inv.Status)
	}
}
