// Package services holds the business operations behind the handlers:
// invoice assembly, summary aggregation and PDF rendering.
package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"billino/internal/domain"
	"billino/internal/domain/models"
	"billino/internal/logging"
	"billino/internal/repositories"

	"github.com/google/uuid"
	"github.com/phpdave11/gofpdf"
)

// PDFService renders invoice documents and stores them as base64 rows.
// The Load* seams let tests feed document data without a database.
type PDFService struct {
	Invoices  repositories.InvoiceRepository
	Summaries repositories.SummaryInvoiceRepository
	Customers repositories.CustomerRepository
	Profiles  repositories.BillingProfileRepository
	PDFs      repositories.PDFRepository
	Log       logging.Logger

	LoadInvoice func(id int64) (invoiceDocData, error)
	LoadSummary func(id int64) (summaryDocData, error)
}

type invoiceDocData struct {
	Invoice      models.Invoice
	CustomerName string
	Street       string
	Zip          string
	City         string
	Country      string
	IssuerName   string
	IssuerTaxID  string
}

type summaryDocData struct {
	Summary      models.SummaryInvoice
	CustomerName string
	Invoices     []models.Invoice
}

func (s PDFService) log() logging.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logging.Nop()
}

// GenerateInvoice renders and stores the PDF for an invoice. a6
// switches to the compact receipt layout, stored as its own document
// type. A concurrent generation surfaces as a ConflictError from the
// store's unique key.
func (s PDFService) GenerateInvoice(invoiceID int64, a6 bool) (models.PDFDocument, error) {
	data, err := s.loadInvoiceDocData(invoiceID)
	if err != nil {
		return models.PDFDocument{}, err
	}

	var (
		raw []byte
		typ = models.PDFInvoices
	)
	if a6 {
		typ = models.PDFA6Invoices
		raw, err = buildA6InvoicePDF(data)
	} else {
		raw, err = buildInvoicePDF(data)
	}
	if err != nil {
		return models.PDFDocument{}, domain.InternalError{Msg: "render invoice pdf", Err: err}
	}

	doc := models.PDFDocument{
		ID:        uuid.NewString(),
		Type:      typ,
		Content:   base64.StdEncoding.EncodeToString(raw),
		InvoiceID: &data.Invoice.ID,
	}
	if err := s.PDFs.Insert(doc); err != nil {
		return models.PDFDocument{}, err
	}
	s.log().Info("invoice pdf generated", "invoice_id", invoiceID, "type", string(typ), "bytes", len(raw))
	return doc, nil
}

// GenerateSummary renders and stores the PDF for a summary invoice.
// recipientName, when non-empty, overrides the stored recipient.
func (s PDFService) GenerateSummary(summaryID int64, recipientName string) (models.PDFDocument, error) {
	data, err := s.loadSummaryDocData(summaryID)
	if err != nil {
		return models.PDFDocument{}, err
	}
	if recipientName = strings.TrimSpace(recipientName); recipientName != "" {
		data.Summary.RecipientName = recipientName
	}

	raw, err := buildSummaryPDF(data)
	if err != nil {
		return models.PDFDocument{}, domain.InternalError{Msg: "render summary pdf", Err: err}
	}

	doc := models.PDFDocument{
		ID:               uuid.NewString(),
		Type:             models.PDFSummaryInvoices,
		Content:          base64.StdEncoding.EncodeToString(raw),
		SummaryInvoiceID: &data.Summary.ID,
	}
	if err := s.PDFs.Insert(doc); err != nil {
		return models.PDFDocument{}, err
	}
	s.log().Info("summary pdf generated", "summary_invoice_id", summaryID, "bytes", len(raw))
	return doc, nil
}

func (s PDFService) loadInvoiceDocData(id int64) (invoiceDocData, error) {
	if s.LoadInvoice != nil {
		return s.LoadInvoice(id)
	}
	inv, err := s.Invoices.GetByID(id)
	if err != nil {
		return invoiceDocData{}, err
	}
	data := invoiceDocData{Invoice: inv}
	if cust, err := s.Customers.GetByID(inv.CustomerID); err == nil {
		data.CustomerName = cust.Name
		data.Street = cust.Street
		data.Zip = cust.Zip
		data.City = cust.City
		data.Country = cust.Country
	}
	if inv.BillingProfileID != nil {
		if prof, err := s.Profiles.GetByID(*inv.BillingProfileID); err == nil {
			data.IssuerName = prof.CompanyName
			data.IssuerTaxID = prof.TaxID
			if prof.Street != "" {
				data.Street = prof.Street
				data.Zip = prof.Zip
				data.City = prof.City
				data.Country = prof.Country
			}
		}
	}
	return data, nil
}

func (s PDFService) loadSummaryDocData(id int64) (summaryDocData, error) {
	if s.LoadSummary != nil {
		return s.LoadSummary(id)
	}
	sum, err := s.Summaries.GetByID(id)
	if err != nil {
		return summaryDocData{}, err
	}
	data := summaryDocData{Summary: sum}
	if cust, err := s.Customers.GetByID(sum.CustomerID); err == nil {
		data.CustomerName = cust.Name
	}
	if members, err := s.Summaries.ListInvoices(id); err == nil {
		data.Invoices = members
	}
	return data, nil
}

func buildInvoicePDF(d invoiceDocData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+d.Invoice.Number, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Number : "+d.Invoice.Number)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date   : "+safe(d.Invoice.IssueDate, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Due    : "+safe(d.Invoice.DueDate, "-"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, safe(billName(d), "-"))
	pdf.Ln(7)
	if addr := addressLine(d); addr != "" {
		pdf.Cell(0, 7, addr)
		pdf.Ln(7)
	}
	if d.IssuerTaxID != "" {
		pdf.Cell(0, 7, "Tax ID: "+d.IssuerTaxID)
		pdf.Ln(7)
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Items:")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 11)
	for i, it := range d.Invoice.Items {
		line := fmt.Sprintf("%d) %s  x%.3g  %s", i+1, it.Description, it.Quantity,
			formatAmount(it.TotalCents, d.Invoice.Currency))
		pdf.MultiCell(0, 6, line, "", "", false)
	}
	pdf.Ln(4)

	pdf.Cell(0, 6, "Net : "+formatAmount(d.Invoice.NetCents, d.Invoice.Currency))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Tax : "+formatAmount(d.Invoice.TaxCents, d.Invoice.Currency))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+formatAmount(d.Invoice.GrossCents, d.Invoice.Currency))
	pdf.Ln(10)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildA6InvoicePDF is the compact render used for receipt printers
// and enclosure slips: A6 page, header plus totals only.
func buildA6InvoicePDF(d invoiceDocData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A6", "")
	pdf.SetTitle("Invoice "+d.Invoice.Number, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 6, "INVOICE "+d.Invoice.Number)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, "Date: "+safe(d.Invoice.IssueDate, "-"))
	pdf.Ln(5)
	pdf.Cell(0, 5, "To: "+safe(billName(d), "-"))
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, "Total: "+formatAmount(d.Invoice.GrossCents, d.Invoice.Currency))
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, "Compact copy. See the full invoice for the itemized breakdown.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildSummaryPDF(d summaryDocData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Summary Invoice "+d.Summary.Number, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "SUMMARY INVOICE")
	pdf.Ln(12)

	recipient := safe(d.Summary.RecipientName, d.CustomerName)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Number    : "+d.Summary.Number)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Recipient : "+safe(recipient, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Period    : %s to %s",
		safe(d.Summary.PeriodStart, "-"), safe(d.Summary.PeriodEnd, "-")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Included invoices:")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 11)
	currency := "EUR"
	for i, inv := range d.Invoices {
		currency = inv.Currency
		line := fmt.Sprintf("%d) %s  %s  %s", i+1, inv.Number, safe(inv.IssueDate, "-"),
			formatAmount(inv.GrossCents, inv.Currency))
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+formatAmount(d.Summary.GrossCents, currency))
	pdf.Ln(10)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func billName(d invoiceDocData) string {
	if d.IssuerName != "" {
		return d.IssuerName
	}
	return d.CustomerName
}

func addressLine(d invoiceDocData) string {
	parts := make([]string, 0, 3)
	if d.Street != "" {
		parts = append(parts, d.Street)
	}
	if d.Zip != "" || d.City != "" {
		parts = append(parts, strings.TrimSpace(d.Zip+" "+d.City))
	}
	if d.Country != "" {
		parts = append(parts, d.Country)
	}
	return strings.Join(parts, ", ")
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func formatAmount(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	if currency == "" {
		currency = "EUR"
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, currency)
}
