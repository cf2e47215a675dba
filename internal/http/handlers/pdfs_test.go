package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"billino/internal/domain/models"
	"billino/internal/repositories"
	"billino/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

func TestPDFGetByInvoiceStored(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	invoiceID := int64(7)
	mock.ExpectQuery("SELECT (.+) FROM pdfs WHERE type = \\? AND invoice_id = \\?").
		WithArgs("invoices", invoiceID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "type", "content", "invoice_id", "summary_invoice_id", "created_at",
		}).AddRow("doc1", "invoices", "JVBERi0=", invoiceID, nil, time.Now()))

	h := PDFHandler{PDFs: repositories.PDFRepository{DB: db}}
	r := gin.New()
	r.GET("/api/pdfs/by-invoice/:id", h.GetByInvoice)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pdfs/by-invoice/7", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var doc models.PDFDocument
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.ID != "doc1" || doc.InvoiceID == nil || *doc.InvoiceID != 7 {
		t.Fatalf("doc = %+v", doc)
	}
}

func TestPDFGetByInvoiceMissingIs404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM pdfs").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	h := PDFHandler{PDFs: repositories.PDFRepository{DB: db}}
	r := gin.New()
	r.GET("/api/pdfs/by-invoice/:id", h.GetByInvoice)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pdfs/by-invoice/99", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Detail != "pdf not found" {
		t.Fatalf("detail = %q", body.Detail)
	}
}

func TestPDFCreateConflictIs400(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	// invoice + customer lookups feeding the render
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM invoices WHERE id = \\?").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "number", "customer_id", "billing_profile_id", "summary_invoice_id", "status",
			"issue_date", "due_date", "currency", "net_cents", "tax_cents", "gross_cents",
			"COALESCE(notes, '')", "created_at", "updated_at",
		}).AddRow(7, "INV-2026-0042", 1, nil, nil, "sent",
			"2026-03-15", "2026-03-29", "EUR", 30498, 5795, 36293, "", now, now))
	mock.ExpectQuery("SELECT (.+) FROM invoice_items").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "invoice_id", "position", "description", "quantity", "unit_price_cents", "total_cents",
		}).AddRow(1, 7, 1, "Office chair", 2.0, 14999, 29998))
	mock.ExpectQuery("SELECT (.+) FROM customers WHERE id = \\?").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "phone", "street", "zip", "city", "country", "created_at", "updated_at",
		}).AddRow(1, "Acme GmbH", "", "", "", "", "", "", now, now))
	mock.ExpectExec("INSERT INTO pdfs").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	h := PDFHandler{
		Svc: services.PDFService{
			Invoices:  repositories.InvoiceRepository{DB: db},
			Customers: repositories.CustomerRepository{DB: db},
			PDFs:      repositories.PDFRepository{DB: db},
		},
	}
	r := gin.New()
	r.POST("/api/pdfs/invoices/:id", h.CreateInvoicePDF)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/pdfs/invoices/7", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 on a lost generation race", w.Code)
	}
	if !strings.Contains(w.Body.String(), "pdf already generated") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func newSummaryPDFRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := PDFHandler{
		Svc: services.PDFService{
			Summaries: repositories.SummaryInvoiceRepository{DB: db},
			Customers: repositories.CustomerRepository{DB: db},
			PDFs:      repositories.PDFRepository{DB: db},
		},
	}
	r := gin.New()
	r.POST("/api/pdfs/summary-invoices/:id", h.CreateSummaryPDF)
	return r, mock
}

func expectSummaryLoad(mock sqlmock.Sqlmock) {
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM summary_invoices WHERE id = \\?").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "number", "customer_id", "recipient_name", "period_start", "period_end",
			"net_cents", "gross_cents", "created_at",
		}).AddRow(3, "SUM-2026-0001", 1, "Acme GmbH", "2026-01-01", "2026-01-31", 100, 119, now))
	mock.ExpectQuery("SELECT (.+) FROM customers WHERE id = \\?").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "phone", "street", "zip", "city", "country", "created_at", "updated_at",
		}).AddRow(1, "Acme GmbH", "", "", "", "", "", "", now, now))
	mock.ExpectQuery("SELECT (.+) FROM invoices WHERE summary_invoice_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO pdfs").
		WillReturnResult(sqlmock.NewResult(0, 1))
}

// A chunked request carries no Content-Length; the body must still be
// read. A malformed chunked body has to fail, not be silently ignored.
func TestSummaryPDFChunkedBodyIsBound(t *testing.T) {
	r, _ := newSummaryPDFRouter(t)

	// io.MultiReader keeps httptest from knowing the length
	body := io.MultiReader(strings.NewReader(`{"recipient_name":`))
	req := httptest.NewRequest(http.MethodPost, "/api/pdfs/summary-invoices/3", body)
	if req.ContentLength != -1 {
		t.Fatalf("ContentLength = %d, want -1 for the chunked case", req.ContentLength)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for malformed body", w.Code)
	}
}

func TestSummaryPDFChunkedRecipientAccepted(t *testing.T) {
	r, mock := newSummaryPDFRouter(t)
	expectSummaryLoad(mock)

	body := io.MultiReader(strings.NewReader(`{"recipient_name":"Globex Holding"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/pdfs/summary-invoices/3", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSummaryPDFEmptyBodyStillGenerates(t *testing.T) {
	r, mock := newSummaryPDFRouter(t)
	expectSummaryLoad(mock)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/pdfs/summary-invoices/3", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCustomerListParsesIndexedQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM customers WHERE name LIKE ?")).
		WithArgs("%Acme%").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM customers WHERE name LIKE \\? ORDER BY name ASC LIMIT \\? OFFSET \\?").
		WithArgs("%Acme%", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "phone", "street", "zip", "city", "country", "created_at", "updated_at",
		}).AddRow(1, "Acme GmbH", "billing@acme.test", "", "Main St 1", "10115", "Berlin", "DE", now, now))

	h := CustomerHandler{Repo: repositories.CustomerRepository{DB: db}}
	r := gin.New()
	r.GET("/api/customers", h.List)

	target := "/api/customers?filter%5B0%5D.field=name&filter%5B0%5D.operator=contains&filter%5B0%5D.value=Acme&page=1&pageSize=10"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var page struct {
		Items []models.Customer `json:"items"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].Name != "Acme GmbH" {
		t.Fatalf("page = %+v", page)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCustomerListUnknownFilterFieldIs400(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	h := CustomerHandler{Repo: repositories.CustomerRepository{DB: db}}
	r := gin.New()
	r.GET("/api/customers", h.List)

	target := "/api/customers?filter%5B0%5D.field=password&filter%5B0%5D.operator=equals&filter%5B0%5D.value=x"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
