package tributos

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDocument = errors.New("document must be a CPF (11 digits) or CNPJ (14 digits)")

// NormalizeDocument strips formatting and classifies the document by
// length. Check-digit validation is the revenue backend's concern; the
// admin screens only need the canonical form.
func NormalizeDocument(raw string) (string, TaxpayerKind, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	normalized := digits.String()
	switch len(normalized) {
	case 11:
		return normalized, TaxpayerPerson, nil
	case 14:
		return normalized, TaxpayerCompany, nil
	default:
		return "", "", ErrInvalidDocument
	}
}

// EffectiveStatus derives the display status of an invoice: a stored
// pending invoice past its due date reads as overdue.
func EffectiveStatus(inv Invoice, now time.Time) InvoiceStatus {
	if inv.Status == InvoicePaid {
		return InvoicePaid
	}
	if now.After(inv.DueDate) {
		return InvoiceOverdue
	}
	return InvoicePending
}
