package repositories

import (
	"database/sql"
	"fmt"

	"billino/internal/config"
	"billino/internal/domain"
	"billino/internal/domain/models"
	"billino/internal/tablequery"
)

var summaryInvoiceListSpec = ListSpec{
	Table: "summary_invoices",
	Columns: map[string]string{
		"id":             "id",
		"number":         "number",
		"customer_id":    "customer_id",
		"recipient_name": "recipient_name",
		"period_start":   "period_start",
		"period_end":     "period_end",
		"net_cents":      "net_cents",
		"gross_cents":    "gross_cents",
		"created_at":     "created_at",
	},
	Searchable:  []string{"number", "recipient_name"},
	DefaultSort: "period_end DESC, id DESC",
}

const summaryInvoiceCols = "id, number, customer_id, recipient_name, period_start, period_end, net_cents, gross_cents, created_at"

type SummaryInvoiceRepository struct {
	DB *sql.DB
}

func (r SummaryInvoiceRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

func (r SummaryInvoiceRepository) List(state tablequery.TableState) (tablequery.Page[models.SummaryInvoice], error) {
	var zero tablequery.Page[models.SummaryInvoice]

	q, err := buildListQuery(summaryInvoiceListSpec, summaryInvoiceCols, state)
	if err != nil {
		return zero, err
	}

	var total int
	if err := r.db().QueryRow(q.CountQuery, q.CountArgs...).Scan(&total); err != nil {
		return zero, domain.InternalError{Msg: "count summary invoices", Err: err}
	}

	rows, err := r.db().Query(q.Query, q.Args...)
	if err != nil {
		return zero, domain.InternalError{Msg: "list summary invoices", Err: err}
	}
	defer rows.Close()

	var items []models.SummaryInvoice
	for rows.Next() {
		var s models.SummaryInvoice
		if err := rows.Scan(&s.ID, &s.Number, &s.CustomerID, &s.RecipientName,
			&s.PeriodStart, &s.PeriodEnd, &s.NetCents, &s.GrossCents, &s.CreatedAt); err != nil {
			return zero, domain.InternalError{Msg: "scan summary invoice", Err: err}
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return zero, domain.InternalError{Msg: "list summary invoices", Err: err}
	}

	return tablequery.NewPage(items, total, state.Pagination.Page, state.Pagination.PageSize), nil
}

func (r SummaryInvoiceRepository) GetByID(id int64) (models.SummaryInvoice, error) {
	var s models.SummaryInvoice
	err := r.db().QueryRow("SELECT "+summaryInvoiceCols+" FROM summary_invoices WHERE id = ?", id).
		Scan(&s.ID, &s.Number, &s.CustomerID, &s.RecipientName,
			&s.PeriodStart, &s.PeriodEnd, &s.NetCents, &s.GrossCents, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return models.SummaryInvoice{}, domain.NotFoundError{Resource: "summary invoice"}
	}
	if err != nil {
		return models.SummaryInvoice{}, domain.InternalError{Msg: "get summary invoice", Err: err}
	}
	return s, nil
}

// ListInvoices returns the invoices aggregated into a summary invoice,
// oldest first.
func (r SummaryInvoiceRepository) ListInvoices(summaryID int64) ([]models.Invoice, error) {
	rows, err := r.db().Query(
		"SELECT "+invoiceCols+" FROM invoices WHERE summary_invoice_id = ? ORDER BY issue_date, id",
		summaryID)
	if err != nil {
		return nil, domain.InternalError{Msg: "list summary members", Err: err}
	}
	defer rows.Close()

	var items []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.CustomerID, &inv.BillingProfileID,
			&inv.SummaryInvoiceID, &inv.Status, &inv.IssueDate, &inv.DueDate, &inv.Currency,
			&inv.NetCents, &inv.TaxCents, &inv.GrossCents, &inv.Notes,
			&inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, domain.InternalError{Msg: "scan summary member", Err: err}
		}
		items = append(items, inv)
	}
	return items, rows.Err()
}

// NextNumber advances past the highest suffix issued for the year, so
// deleted summaries never cause a number to be reissued.
func (r SummaryInvoiceRepository) NextNumber(year int) (string, error) {
	prefix := fmt.Sprintf("SUM-%d-", year)
	var max int
	err := r.db().QueryRow(
		"SELECT COALESCE(MAX(CAST(SUBSTRING(number, ?) AS UNSIGNED)), 0) FROM summary_invoices WHERE number LIKE ?",
		len(prefix)+1, prefix+"%",
	).Scan(&max)
	if err != nil {
		return "", domain.InternalError{Msg: "next summary number", Err: err}
	}
	return fmt.Sprintf("%s%04d", prefix, max+1), nil
}

// Create inserts the summary and attaches the given invoices to it,
// rolling their totals up into the summary row.
func (r SummaryInvoiceRepository) Create(s models.SummaryInvoice, invoiceIDs []int64) (models.SummaryInvoice, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return models.SummaryInvoice{}, domain.InternalError{Msg: "begin tx", Err: err}
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
        INSERT INTO summary_invoices (number, customer_id, recipient_name, period_start, period_end, net_cents, gross_cents)
        VALUES (?, ?, ?, ?, ?, 0, 0)
    `, s.Number, s.CustomerID, s.RecipientName, s.PeriodStart, s.PeriodEnd)
	if err != nil {
		if isDuplicateKey(err) {
			return models.SummaryInvoice{}, domain.ConflictError{Resource: "summary invoice", Msg: "number already used"}
		}
		return models.SummaryInvoice{}, domain.InternalError{Msg: "insert summary invoice", Err: err}
	}
	s.ID, _ = res.LastInsertId()

	for _, invID := range invoiceIDs {
		res, err := tx.Exec(`
            UPDATE invoices SET summary_invoice_id = ?
            WHERE id = ? AND customer_id = ? AND summary_invoice_id IS NULL
        `, s.ID, invID, s.CustomerID)
		if err != nil {
			return models.SummaryInvoice{}, domain.InternalError{Msg: "attach invoice", Err: err}
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return models.SummaryInvoice{}, domain.Invalid("invoice_ids",
				fmt.Sprintf("invoice %d missing, foreign, or already summarized", invID))
		}
	}

	err = tx.QueryRow(`
        SELECT COALESCE(SUM(net_cents), 0), COALESCE(SUM(gross_cents), 0)
        FROM invoices WHERE summary_invoice_id = ?
    `, s.ID).Scan(&s.NetCents, &s.GrossCents)
	if err != nil {
		return models.SummaryInvoice{}, domain.InternalError{Msg: "sum summary invoice", Err: err}
	}
	if _, err := tx.Exec("UPDATE summary_invoices SET net_cents = ?, gross_cents = ? WHERE id = ?",
		s.NetCents, s.GrossCents, s.ID); err != nil {
		return models.SummaryInvoice{}, domain.InternalError{Msg: "update summary totals", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return models.SummaryInvoice{}, domain.InternalError{Msg: "commit summary invoice", Err: err}
	}
	return s, nil
}

// Delete detaches member invoices before removing the summary row.
func (r SummaryInvoiceRepository) Delete(id int64) error {
	tx, err := r.db().Begin()
	if err != nil {
		return domain.InternalError{Msg: "begin tx", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE invoices SET summary_invoice_id = NULL WHERE summary_invoice_id = ?", id); err != nil {
		return domain.InternalError{Msg: "detach invoices", Err: err}
	}
	res, err := tx.Exec("DELETE FROM summary_invoices WHERE id = ?", id)
	if err != nil {
		return domain.InternalError{Msg: "delete summary invoice", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "summary invoice"}
	}
	return tx.Commit()
}
