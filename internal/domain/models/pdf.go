package models

import "time"

// PDFType names the document family a stored PDF belongs to. A6
// invoices are a compact render of a normal invoice and link through
// invoice_id like the full-size variant.
type PDFType string

const (
	PDFInvoices        PDFType = "invoices"
	PDFSummaryInvoices PDFType = "summary_invoices"
	PDFA6Invoices      PDFType = "a6_invoices"
)

// PDFDocument is a stored, already-rendered PDF. Content is base64;
// exactly one linkage field is set, depending on Type.
type PDFDocument struct {
	ID               string    `json:"id"`
	Type             PDFType   `json:"type"`
	Content          string    `json:"content"`
	InvoiceID        *int64    `json:"invoice_id,omitempty"`
	SummaryInvoiceID *int64    `json:"summary_invoice_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
