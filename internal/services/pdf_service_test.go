package services

import (
	"encoding/base64"
	"testing"

	"billino/internal/domain"
	"billino/internal/domain/models"
	"billino/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func sampleInvoiceDocData() invoiceDocData {
	return invoiceDocData{
		Invoice: models.Invoice{
			ID:         7,
			Number:     "INV-2026-0042",
			CustomerID: 1,
			Status:     models.InvoiceSent,
			IssueDate:  "2026-03-15",
			DueDate:    "2026-03-29",
			Currency:   "EUR",
			NetCents:   30498,
			TaxCents:   5795,
			GrossCents: 36293,
			Items: []models.InvoiceItem{
				{Description: "Office chair", Quantity: 2, UnitPriceCents: 14999, TotalCents: 29998},
				{Description: "Delivery", Quantity: 1, UnitPriceCents: 500, TotalCents: 500},
			},
		},
		CustomerName: "Acme GmbH",
		Street:       "Main St 1",
		Zip:          "10115",
		City:         "Berlin",
		Country:      "DE",
	}
}

func expectPDFInsert(mock sqlmock.Sqlmock) {
	mock.ExpectExec("INSERT INTO pdfs").
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestGenerateInvoicePDF(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	expectPDFInsert(mock)

	svc := PDFService{
		PDFs:        repositories.PDFRepository{DB: db},
		LoadInvoice: func(int64) (invoiceDocData, error) { return sampleInvoiceDocData(), nil },
	}
	doc, err := svc.GenerateInvoice(7, false)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}
	if doc.Type != models.PDFInvoices {
		t.Fatalf("type = %q", doc.Type)
	}
	if doc.InvoiceID == nil || *doc.InvoiceID != 7 || doc.SummaryInvoiceID != nil {
		t.Fatalf("linkage = %+v", doc)
	}
	if doc.ID == "" {
		t.Fatal("document id missing")
	}

	raw, err := base64.StdEncoding.DecodeString(doc.Content)
	if err != nil {
		t.Fatalf("content is not base64: %v", err)
	}
	if len(raw) == 0 || string(raw[:5]) != "%PDF-" {
		t.Fatalf("content is not a pdf, starts with %q", raw[:min(5, len(raw))])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGenerateInvoicePDFA6Variant(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	expectPDFInsert(mock)

	svc := PDFService{
		PDFs:        repositories.PDFRepository{DB: db},
		LoadInvoice: func(int64) (invoiceDocData, error) { return sampleInvoiceDocData(), nil },
	}
	doc, err := svc.GenerateInvoice(7, true)
	if err != nil {
		t.Fatalf("GenerateInvoice a6: %v", err)
	}
	if doc.Type != models.PDFA6Invoices {
		t.Fatalf("type = %q, want a6_invoices", doc.Type)
	}
	if doc.InvoiceID == nil || *doc.InvoiceID != 7 {
		t.Fatalf("linkage = %+v", doc)
	}
}

func TestGenerateInvoicePDFConflictPropagates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectExec("INSERT INTO pdfs").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	svc := PDFService{
		PDFs:        repositories.PDFRepository{DB: db},
		LoadInvoice: func(int64) (invoiceDocData, error) { return sampleInvoiceDocData(), nil },
	}
	_, err = svc.GenerateInvoice(7, false)
	if !domain.IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestGenerateInvoicePDFMissingInvoice(t *testing.T) {
	svc := PDFService{
		LoadInvoice: func(int64) (invoiceDocData, error) {
			return invoiceDocData{}, domain.NotFoundError{Resource: "invoice"}
		},
	}
	_, err := svc.GenerateInvoice(99, false)
	if !domain.IsNotFound(err) {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestGenerateSummaryPDFRecipientOverride(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	expectPDFInsert(mock)

	svc := PDFService{
		PDFs: repositories.PDFRepository{DB: db},
		LoadSummary: func(int64) (summaryDocData, error) {
			return summaryDocData{
				Summary: models.SummaryInvoice{
					ID:            3,
					Number:        "SUM-2026-0001",
					CustomerID:    1,
					RecipientName: "Acme GmbH",
					PeriodStart:   "2026-01-01",
					PeriodEnd:     "2026-01-31",
					GrossCents:    72586,
				},
				CustomerName: "Acme GmbH",
				Invoices: []models.Invoice{
					{Number: "INV-2026-0041", IssueDate: "2026-01-10", GrossCents: 36293, Currency: "EUR"},
					{Number: "INV-2026-0042", IssueDate: "2026-01-20", GrossCents: 36293, Currency: "EUR"},
				},
			}, nil
		},
	}
	doc, err := svc.GenerateSummary(3, "Globex Holding")
	if err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}
	if doc.Type != models.PDFSummaryInvoices {
		t.Fatalf("type = %q", doc.Type)
	}
	if doc.SummaryInvoiceID == nil || *doc.SummaryInvoiceID != 3 || doc.InvoiceID != nil {
		t.Fatalf("linkage = %+v", doc)
	}
	if doc.Content == "" {
		t.Fatal("content missing")
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		cents    int64
		currency string
		want     string
	}{
		{36293, "EUR", "362.93 EUR"},
		{5, "EUR", "0.05 EUR"},
		{-1250, "USD", "-12.50 USD"},
		{100, "", "1.00 EUR"},
	}
	for _, tc := range cases {
		if got := formatAmount(tc.cents, tc.currency); got != tc.want {
			t.Fatalf("formatAmount(%d, %q) = %q, want %q", tc.cents, tc.currency, got, tc.want)
		}
	}
}
