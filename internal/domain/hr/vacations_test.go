package hr

import (
	"testing"
	"time"
)

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestVacationDaysInclusive(t *testing.T) {
	days, err := VacationDays(day("2026-01-10"), day("2026-01-19"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 10 {
		t.Fatalf("expected 10 days, got %d", days)
	}

	days, err = VacationDays(day("2026-01-10"), day("2026-01-10"))
	if err != nil || days != 1 {
		t.Fatalf("single day range should count 1, got %d (%v)", days, err)
	}
}

func TestVacationDaysRejectsInvertedRange(t *testing.T) {
	if _, err := VacationDays(day("2026-01-19"), day("2026-01-10")); err != ErrInvalidRange {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestValidateRequestRejectsOverlap(t *testing.T) {
	existing := []VacationRequest{
		{StartDate: day("2026-02-01"), EndDate: day("2026-02-10"), Status: VacationApproved},
	}
	if _, err := ValidateRequest(day("2026-02-08"), day("2026-02-12"), existing, 10); err != ErrOverlap {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}
}

func TestValidateRequestIgnoresRejected(t *testing.T) {
	existing := []VacationRequest{
		{StartDate: day("2026-02-01"), EndDate: day("2026-02-10"), Status: VacationRejected},
	}
	days, err := ValidateRequest(day("2026-02-08"), day("2026-02-12"), existing, 0)
	if err != nil {
		t.Fatalf("rejected requests must not block: %v", err)
	}
	if days != 5 {
		t.Fatalf("expected 5 days, got %d", days)
	}
}

func TestValidateRequestEnforcesAllowance(t *testing.T) {
	if _, err := ValidateRequest(day("2026-03-01"), day("2026-03-20"), nil, 15); err != ErrAllowanceExceeded {
		t.Fatalf("expected ErrAllowanceExceeded, got %v", err)
	}
	days, err := ValidateRequest(day("2026-03-01"), day("2026-03-15"), nil, 15)
	if err != nil || days != 15 {
		t.Fatalf("exact allowance should pass, got %d (%v)", days, err)
	}
}

func TestDecideIsTerminal(t *testing.T) {
	now := day("2026-04-01")
	req := &VacationRequest{Status: VacationPending}
	if err := Decide(req, true, "admin", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Status != VacationApproved || req.DecidedBy != "admin" || req.DecidedAt == nil {
		t.Fatalf("approval not recorded: %+v", req)
	}
	if err := Decide(req, false, "other", now); err != ErrAlreadyDecided {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
}
