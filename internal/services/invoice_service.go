package services

import (
	"math"
	"strings"
	"time"

	"billino/internal/domain"
	"billino/internal/domain/models"
	"billino/internal/logging"
	"billino/internal/repositories"
)

const dateLayout = "2006-01-02"

// InvoiceService assembles invoices and summary invoices: numbering,
// item totals, tax, and input validation.
type InvoiceService struct {
	Invoices  repositories.InvoiceRepository
	Summaries repositories.SummaryInvoiceRepository
	Customers repositories.CustomerRepository
	Log       logging.Logger

	Now func() time.Time
}

type InvoiceItemInput struct {
	Description    string  `json:"description"`
	Quantity       float64 `json:"quantity"`
	UnitPriceCents int64   `json:"unit_price_cents"`
}

type InvoiceInput struct {
	CustomerID       int64              `json:"customer_id"`
	BillingProfileID *int64             `json:"billing_profile_id"`
	IssueDate        string             `json:"issue_date"`
	DueDate          string             `json:"due_date"`
	Currency         string             `json:"currency"`
	TaxRateBps       int                `json:"tax_rate_bps"`
	Notes            string             `json:"notes"`
	Items            []InvoiceItemInput `json:"items"`
}

type SummaryInput struct {
	CustomerID    int64   `json:"customer_id"`
	RecipientName string  `json:"recipient_name"`
	PeriodStart   string  `json:"period_start"`
	PeriodEnd     string  `json:"period_end"`
	InvoiceIDs    []int64 `json:"invoice_ids"`
}

func (s InvoiceService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s InvoiceService) log() logging.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logging.Nop()
}

// Create validates the input, numbers the invoice and stores it as a
// draft.
func (s InvoiceService) Create(in InvoiceInput) (models.Invoice, error) {
	inv, err := s.assemble(in)
	if err != nil {
		return models.Invoice{}, err
	}
	if _, err := s.Customers.GetByID(in.CustomerID); err != nil {
		return models.Invoice{}, err
	}

	number, err := s.Invoices.NextNumber(s.now().Year())
	if err != nil {
		return models.Invoice{}, err
	}
	inv.Number = number
	inv.Status = models.InvoiceDraft

	created, err := s.Invoices.Create(inv)
	if err != nil {
		return models.Invoice{}, err
	}
	s.log().Info("invoice created", "invoice_id", created.ID, "number", created.Number)
	return created, nil
}

// Update recomputes totals from the given input and replaces the
// stored invoice; the number never changes.
func (s InvoiceService) Update(id int64, status models.InvoiceStatus, in InvoiceInput) (models.Invoice, error) {
	existing, err := s.Invoices.GetByID(id)
	if err != nil {
		return models.Invoice{}, err
	}

	inv, err := s.assemble(in)
	if err != nil {
		return models.Invoice{}, err
	}
	inv.ID = existing.ID
	inv.Number = existing.Number
	inv.Status = existing.Status
	// membership in a summary invoice is managed by the summary
	// endpoints, never by an invoice update
	inv.SummaryInvoiceID = existing.SummaryInvoiceID
	if status != "" {
		if !validStatus(status) {
			return models.Invoice{}, domain.Invalid("status", "unknown status")
		}
		inv.Status = status
	}

	if err := s.Invoices.Update(inv); err != nil {
		return models.Invoice{}, err
	}
	return s.Invoices.GetByID(id)
}

// CreateSummary aggregates the given invoices into a new summary
// invoice for the customer.
func (s InvoiceService) CreateSummary(in SummaryInput) (models.SummaryInvoice, error) {
	if in.CustomerID <= 0 {
		return models.SummaryInvoice{}, domain.Invalid("customer_id", "required")
	}
	if len(in.InvoiceIDs) == 0 {
		return models.SummaryInvoice{}, domain.Invalid("invoice_ids", "at least one invoice required")
	}
	start, err := time.Parse(dateLayout, in.PeriodStart)
	if err != nil {
		return models.SummaryInvoice{}, domain.Invalid("period_start", "expected YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, in.PeriodEnd)
	if err != nil {
		return models.SummaryInvoice{}, domain.Invalid("period_end", "expected YYYY-MM-DD")
	}
	if end.Before(start) {
		return models.SummaryInvoice{}, domain.Invalid("period_end", "before period_start")
	}
	if _, err := s.Customers.GetByID(in.CustomerID); err != nil {
		return models.SummaryInvoice{}, err
	}

	number, err := s.Summaries.NextNumber(s.now().Year())
	if err != nil {
		return models.SummaryInvoice{}, err
	}

	created, err := s.Summaries.Create(models.SummaryInvoice{
		Number:        number,
		CustomerID:    in.CustomerID,
		RecipientName: strings.TrimSpace(in.RecipientName),
		PeriodStart:   in.PeriodStart,
		PeriodEnd:     in.PeriodEnd,
	}, in.InvoiceIDs)
	if err != nil {
		return models.SummaryInvoice{}, err
	}
	s.log().Info("summary invoice created",
		"summary_invoice_id", created.ID, "number", created.Number, "invoices", len(in.InvoiceIDs))
	return created, nil
}

func (s InvoiceService) assemble(in InvoiceInput) (models.Invoice, error) {
	var fields []domain.FieldError
	if in.CustomerID <= 0 {
		fields = append(fields, domain.FieldError{Field: "customer_id", Msg: "required"})
	}
	if len(in.Items) == 0 {
		fields = append(fields, domain.FieldError{Field: "items", Msg: "at least one item required"})
	}
	issue, err := time.Parse(dateLayout, in.IssueDate)
	if err != nil {
		fields = append(fields, domain.FieldError{Field: "issue_date", Msg: "expected YYYY-MM-DD"})
	}
	if in.TaxRateBps < 0 || in.TaxRateBps > 10000 {
		fields = append(fields, domain.FieldError{Field: "tax_rate_bps", Msg: "out of range"})
	}
	for _, it := range in.Items {
		if strings.TrimSpace(it.Description) == "" || it.Quantity <= 0 {
			fields = append(fields, domain.FieldError{Field: "items", Msg: "item needs description and positive quantity"})
			break
		}
	}
	if len(fields) > 0 {
		return models.Invoice{}, domain.ValidationError{Fields: fields}
	}

	due := in.DueDate
	if due == "" {
		due = issue.AddDate(0, 0, 14).Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, due); err != nil {
		return models.Invoice{}, domain.Invalid("due_date", "expected YYYY-MM-DD")
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "EUR"
	}

	inv := models.Invoice{
		CustomerID:       in.CustomerID,
		BillingProfileID: in.BillingProfileID,
		IssueDate:        in.IssueDate,
		DueDate:          due,
		Currency:         currency,
		Notes:            in.Notes,
	}
	for _, it := range in.Items {
		total := int64(math.Round(it.Quantity * float64(it.UnitPriceCents)))
		inv.Items = append(inv.Items, models.InvoiceItem{
			Description:    strings.TrimSpace(it.Description),
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			TotalCents:     total,
		})
		inv.NetCents += total
	}
	inv.TaxCents = int64(math.Round(float64(inv.NetCents) * float64(in.TaxRateBps) / 10000))
	inv.GrossCents = inv.NetCents + inv.TaxCents
	return inv, nil
}

func validStatus(s models.InvoiceStatus) bool {
	switch s {
	case models.InvoiceDraft, models.InvoiceSent, models.InvoicePaid, models.InvoiceCancelled:
		return true
	}
	return false
}
