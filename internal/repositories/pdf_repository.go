package repositories

import (
	"database/sql"

	"billino/internal/config"
	"billino/internal/domain"
	"billino/internal/domain/models"
)

const pdfCols = "id, type, content, invoice_id, summary_invoice_id, created_at"

type PDFRepository struct {
	DB *sql.DB
}

func (r PDFRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

// GetByInvoice fetches the stored PDF of the given type for an
// invoice. Used for both full-size and A6 renders.
func (r PDFRepository) GetByInvoice(t models.PDFType, invoiceID int64) (models.PDFDocument, error) {
	return r.get("SELECT "+pdfCols+" FROM pdfs WHERE type = ? AND invoice_id = ?", string(t), invoiceID)
}

func (r PDFRepository) GetBySummaryInvoice(summaryID int64) (models.PDFDocument, error) {
	return r.get("SELECT "+pdfCols+" FROM pdfs WHERE type = ? AND summary_invoice_id = ?",
		string(models.PDFSummaryInvoices), summaryID)
}

func (r PDFRepository) get(query string, args ...any) (models.PDFDocument, error) {
	var d models.PDFDocument
	err := r.db().QueryRow(query, args...).
		Scan(&d.ID, &d.Type, &d.Content, &d.InvoiceID, &d.SummaryInvoiceID, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return models.PDFDocument{}, domain.NotFoundError{Resource: "pdf"}
	}
	if err != nil {
		return models.PDFDocument{}, domain.InternalError{Msg: "get pdf", Err: err}
	}
	return d, nil
}

// Insert stores a rendered document. A duplicate (type, entity) pair
// means another request generated it first; callers translate the
// conflict into a re-fetch.
func (r PDFRepository) Insert(d models.PDFDocument) error {
	_, err := r.db().Exec(`
        INSERT INTO pdfs (id, type, content, invoice_id, summary_invoice_id)
        VALUES (?, ?, ?, ?, ?)
    `, d.ID, d.Type, d.Content, d.InvoiceID, d.SummaryInvoiceID)
	if err != nil {
		if isDuplicateKey(err) {
			return domain.ConflictError{Resource: "pdf", Msg: "already generated"}
		}
		return domain.InternalError{Msg: "insert pdf", Err: err}
	}
	return nil
}
