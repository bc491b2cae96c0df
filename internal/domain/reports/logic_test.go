package reports

import (
	"bytes"
	"testing"
	"time"
)

func TestCollectionRate(t *testing.T) {
	if got := CollectionRate(1000, 250); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
	if got := CollectionRate(0, 100); got != 0 {
		t.Fatalf("zero billed must return 0, got %v", got)
	}
}

func TestSummaryPDFProducesDocument(t *testing.T) {
	sum := Summary{Employees: 12, RevenueBilled: 1000, RevenueCollected: 800}
	data, err := SummaryPDF("Prefeitura Municipal", sum, time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("pdf generation failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a PDF document")
	}
}

func TestPayslipPDFProducesDocument(t *testing.T) {
	data, err := PayslipPDF("Prefeitura Municipal", "Ana Souza", "2026-01", 5000, 1200, 3800)
	if err != nil {
		t.Fatalf("pdf generation failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a PDF document")
	}
}
