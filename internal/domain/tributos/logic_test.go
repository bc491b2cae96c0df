package tributos

import (
	"testing"
	"time"
)

func TestNormalizeDocument(t *testing.T) {
	doc, kind, err := NormalizeDocument("123.456.789-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc != "12345678909" || kind != TaxpayerPerson {
		t.Fatalf("got %q kind %q", doc, kind)
	}

	doc, kind, err = NormalizeDocument("12.345.678/0001-95")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc != "12345678000195" || kind != TaxpayerCompany {
		t.Fatalf("got %q kind %q", doc, kind)
	}

	if _, _, err := NormalizeDocument("12345"); err != ErrInvalidDocument {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	inv := Invoice{Status: InvoicePending, DueDate: due}
	if got := EffectiveStatus(inv, now); got != InvoiceOverdue {
		t.Fatalf("past-due pending invoice should be overdue, got %q", got)
	}

	inv.Status = InvoicePaid
	if got := EffectiveStatus(inv, now); got != InvoicePaid {
		t.Fatalf("paid invoices stay paid, got %q", got)
	}

	inv = Invoice{Status: InvoicePending, DueDate: now.AddDate(0, 0, 5)}
	if got := EffectiveStatus(inv, now); got != InvoicePending {
		t.Fatalf("future invoice should be pending, got %q", got)
	}
}
