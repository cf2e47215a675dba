package models

import "time"

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

type Invoice struct {
	ID               int64         `json:"id"`
	Number           string        `json:"number"`
	CustomerID       int64         `json:"customer_id"`
	BillingProfileID *int64        `json:"billing_profile_id,omitempty"`
	SummaryInvoiceID *int64        `json:"summary_invoice_id,omitempty"`
	Status           InvoiceStatus `json:"status"`
	IssueDate        string        `json:"issue_date"` // YYYY-MM-DD
	DueDate          string        `json:"due_date"`
	Currency         string        `json:"currency"`
	NetCents         int64         `json:"net_cents"`
	TaxCents         int64         `json:"tax_cents"`
	GrossCents       int64         `json:"gross_cents"`
	Notes            string        `json:"notes"`
	Items            []InvoiceItem `json:"items,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

type InvoiceItem struct {
	ID             int64   `json:"id"`
	InvoiceID      int64   `json:"invoice_id"`
	Position       int     `json:"position"`
	Description    string  `json:"description"`
	Quantity       float64 `json:"quantity"`
	UnitPriceCents int64   `json:"unit_price_cents"`
	TotalCents     int64   `json:"total_cents"`
}

// SummaryInvoice aggregates a customer's invoices over a period into
// one document; the recipient name can be overridden at PDF time.
type SummaryInvoice struct {
	ID            int64     `json:"id"`
	Number        string    `json:"number"`
	CustomerID    int64     `json:"customer_id"`
	RecipientName string    `json:"recipient_name"`
	PeriodStart   string    `json:"period_start"` // YYYY-MM-DD
	PeriodEnd     string    `json:"period_end"`
	NetCents      int64     `json:"net_cents"`
	GrossCents    int64     `json:"gross_cents"`
	CreatedAt     time.Time `json:"created_at"`
}
