package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"billino/internal/domain/models"
	"billino/internal/retry"
)

const (
	pdfRetryAttempts  = 3
	pdfRetryBaseDelay = 100 * time.Millisecond
)

// Document is a retrieved PDF ready to hand to the user: raw bytes,
// the canonical filename and the media type.
type Document struct {
	Blob     []byte
	Filename string
	Type     string
}

// InvoicePDF retrieves the full-size PDF for an invoice, generating it
// on first access.
func (c *Client) InvoicePDF(ctx context.Context, invoiceID int64) (Document, error) {
	id := strconv.FormatInt(invoiceID, 10)
	return c.pdfWithFallback(ctx, "/api/pdfs/by-invoice/"+id, "/api/pdfs/invoices/"+id, struct{}{})
}

// A6InvoicePDF retrieves the compact A6 render of an invoice.
func (c *Client) A6InvoicePDF(ctx context.Context, invoiceID int64) (Document, error) {
	id := strconv.FormatInt(invoiceID, 10)
	return c.pdfWithFallback(ctx, "/api/pdfs/by-a6-invoice/"+id, "/api/pdfs/a6-invoices/"+id, struct{}{})
}

// SummaryInvoicePDF retrieves the PDF for a summary invoice.
// recipientName, when non-empty, overrides the stored recipient if
// generation is needed; an already-stored PDF is returned as-is.
func (c *Client) SummaryInvoicePDF(ctx context.Context, summaryID int64, recipientName string) (Document, error) {
	id := strconv.FormatInt(summaryID, 10)
	body := struct {
		RecipientName string `json:"recipient_name,omitempty"`
	}{RecipientName: recipientName}
	return c.pdfWithFallback(ctx, "/api/pdfs/by-summary/"+id, "/api/pdfs/summary-invoices/"+id, body)
}

// pdfWithFallback is the retrieval protocol: GET the stored PDF; a 404
// means it was never generated, so POST the generation endpoint; a 400
// there means a concurrent request generated it in between, so the GET
// is retried with backoff until the row is visible. Every other error
// propagates untouched.
func (c *Client) pdfWithFallback(ctx context.Context, getPath, postPath string, body any) (Document, error) {
	doc, err := c.fetchStored(ctx, getPath)
	if err == nil {
		return doc, nil
	}
	if !IsStatus(err, http.StatusNotFound) {
		return Document{}, err
	}

	doc, err = c.generate(ctx, postPath, body)
	if err == nil {
		return doc, nil
	}
	if !IsStatus(err, http.StatusBadRequest) {
		return Document{}, err
	}

	c.log().Debug("pdf generation raced, refetching", "path", getPath)
	return retry.Do(ctx, retry.Options{
		MaxAttempts: pdfRetryAttempts,
		BaseDelay:   pdfRetryBaseDelay,
		Sleep:       c.sleep,
	}, func() (Document, error) {
		return c.fetchStored(ctx, getPath)
	}, nil)
}

func (c *Client) fetchStored(ctx context.Context, path string) (Document, error) {
	var rec models.PDFDocument
	if err := c.getJSON(ctx, path, &rec); err != nil {
		return Document{}, err
	}
	return documentFromRecord(rec)
}

func (c *Client) generate(ctx context.Context, path string, body any) (Document, error) {
	var rec models.PDFDocument
	if err := c.postJSON(ctx, path, body, &rec); err != nil {
		return Document{}, err
	}
	return documentFromRecord(rec)
}

// documentFromRecord decodes the stored base64 payload and derives the
// filename from the record's entity linkage. A record with no linkage
// is a server bug and fails loudly.
func documentFromRecord(rec models.PDFDocument) (Document, error) {
	blob, err := base64.StdEncoding.DecodeString(rec.Content)
	if err != nil {
		return Document{}, fmt.Errorf("decode pdf content: %w", err)
	}

	var filename string
	switch {
	case rec.Type == models.PDFA6Invoices && rec.InvoiceID != nil:
		filename = fmt.Sprintf("a6Invoices-%d.pdf", *rec.InvoiceID)
	case rec.InvoiceID != nil:
		filename = fmt.Sprintf("invoice-%d.pdf", *rec.InvoiceID)
	case rec.SummaryInvoiceID != nil:
		filename = fmt.Sprintf("summaryInvoice-%d.pdf", *rec.SummaryInvoiceID)
	default:
		return Document{}, fmt.Errorf("pdf record %s has no entity linkage", rec.ID)
	}

	return Document{Blob: blob, Filename: filename, Type: "application/pdf"}, nil
}
