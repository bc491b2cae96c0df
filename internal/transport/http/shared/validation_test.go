package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestValidatorKeepsFieldOrder(t *testing.T) {
	v := NewValidator()
	v.Required("number", "", "number is required")
	v.Positive("amount", -5)
	v.Add("number", "number already in use")

	issues := v.Issues()
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(issues))
	}
	// Reasons group under the field that was checked first.
	if issues[0].Field != "number" || issues[1].Field != "number" || issues[2].Field != "amount" {
		t.Fatalf("unexpected issue order: %+v", issues)
	}
}

func TestValidatorPositive(t *testing.T) {
	v := NewValidator()
	v.Positive("amount", 0)
	v.Positive("budget", 1200.50)
	issues := v.Issues()
	if len(issues) != 1 || issues[0].Field != "amount" {
		t.Fatalf("expected only the zero amount flagged, got %+v", issues)
	}
}

func TestValidatorMinLenCountsRunes(t *testing.T) {
	v := NewValidator()
	v.MinLen("name", "João", 4)
	if v.HasIssues() {
		t.Fatalf("accented 4-rune name rejected: %+v", v.Issues())
	}
	v.MinLen("password", "curta", 8)
	if !v.HasIssues() {
		t.Fatal("expected short password flagged")
	}
}

func TestValidatorDateAcceptsBrazilianFormat(t *testing.T) {
	v := NewValidator()
	parsed, ok := v.Date("dueDate", "15/03/2026")
	if !ok || v.HasIssues() {
		t.Fatalf("DD/MM/YYYY rejected: %+v", v.Issues())
	}
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Fatalf("expected %v, got %v", want, parsed)
	}

	if _, ok := v.Date("dueDate", "15-03-2026"); ok {
		t.Fatal("expected unrecognized layout to fail")
	}
}

func TestValidatorRejectWritesEnvelope(t *testing.T) {
	v := NewValidator()
	rec := httptest.NewRecorder()
	if v.Reject(rec, "req-1") {
		t.Fatal("clean validator must not reject")
	}

	v.Required("name", "", "name is required")
	rec = httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("expected rejection")
	}
	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestParseDateLayouts(t *testing.T) {
	for _, raw := range []string{"2026-03-15", "15/03/2026", "2026-03-15T00:00:00Z"} {
		parsed, err := ParseDate(raw)
		if err != nil {
			t.Fatalf("%s: %v", raw, err)
		}
		if parsed.Year() != 2026 || parsed.Month() != time.March || parsed.Day() != 15 {
			t.Fatalf("%s parsed to %v", raw, parsed)
		}
	}
	if _, err := ParseDate("ontem"); err == nil {
		t.Fatal("expected error for free-form text")
	}
	if parsed, err := ParseDate(""); err != nil || !parsed.IsZero() {
		t.Fatalf("empty input: %v %v", parsed, err)
	}
}
