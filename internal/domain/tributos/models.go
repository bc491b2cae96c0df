package tributos

import "time"

type TaxpayerKind string

const (
	TaxpayerPerson  TaxpayerKind = "pf"
	TaxpayerCompany TaxpayerKind = "pj"
)

type Taxpayer struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Document  string       `json:"document"`
	Kind      TaxpayerKind `json:"kind"`
	Address   string       `json:"address"`
	Active    bool         `json:"active"`
	CreatedAt time.Time    `json:"createdAt"`
}

type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

type Invoice struct {
	ID         string        `json:"id"`
	TaxpayerID string        `json:"taxpayerId"`
	Taxpayer   string        `json:"taxpayer"`
	Number     string        `json:"number"`
	Amount     float64       `json:"amount"`
	DueDate    time.Time     `json:"dueDate"`
	PaidAt     *time.Time    `json:"paidAt,omitempty"`
	Status     InvoiceStatus `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
}

type Assessment struct {
	ID         string    `json:"id"`
	TaxpayerID string    `json:"taxpayerId"`
	Taxpayer   string    `json:"taxpayer"`
	Kind       string    `json:"kind"`
	Year       int       `json:"year"`
	Amount     float64   `json:"amount"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
