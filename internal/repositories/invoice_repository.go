package repositories

import (
	"database/sql"
	"fmt"

	"billino/internal/config"
	"billino/internal/domain"
	"billino/internal/domain/models"
	"billino/internal/tablequery"
)

var invoiceListSpec = ListSpec{
	Table: "invoices",
	Columns: map[string]string{
		"id":                 "id",
		"number":             "number",
		"customer_id":        "customer_id",
		"summary_invoice_id": "summary_invoice_id",
		"status":             "status",
		"issue_date":         "issue_date",
		"due_date":           "due_date",
		"currency":           "currency",
		"net_cents":          "net_cents",
		"gross_cents":        "gross_cents",
		"created_at":         "created_at",
	},
	Searchable:  []string{"number", "notes"},
	DefaultSort: "issue_date DESC, id DESC",
}

const invoiceCols = "id, number, customer_id, billing_profile_id, summary_invoice_id, status, " +
	"issue_date, due_date, currency, net_cents, tax_cents, gross_cents, COALESCE(notes, ''), created_at, updated_at"

type InvoiceRepository struct {
	DB *sql.DB
}

func (r InvoiceRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

func (r InvoiceRepository) List(state tablequery.TableState) (tablequery.Page[models.Invoice], error) {
	var zero tablequery.Page[models.Invoice]

	q, err := buildListQuery(invoiceListSpec, invoiceCols, state)
	if err != nil {
		return zero, err
	}

	var total int
	if err := r.db().QueryRow(q.CountQuery, q.CountArgs...).Scan(&total); err != nil {
		return zero, domain.InternalError{Msg: "count invoices", Err: err}
	}

	rows, err := r.db().Query(q.Query, q.Args...)
	if err != nil {
		return zero, domain.InternalError{Msg: "list invoices", Err: err}
	}
	defer rows.Close()

	var items []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.CustomerID, &inv.BillingProfileID,
			&inv.SummaryInvoiceID, &inv.Status, &inv.IssueDate, &inv.DueDate, &inv.Currency,
			&inv.NetCents, &inv.TaxCents, &inv.GrossCents, &inv.Notes,
			&inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return zero, domain.InternalError{Msg: "scan invoice", Err: err}
		}
		items = append(items, inv)
	}
	if err := rows.Err(); err != nil {
		return zero, domain.InternalError{Msg: "list invoices", Err: err}
	}

	return tablequery.NewPage(items, total, state.Pagination.Page, state.Pagination.PageSize), nil
}

// GetByID loads one invoice including its line items.
func (r InvoiceRepository) GetByID(id int64) (models.Invoice, error) {
	var inv models.Invoice
	err := r.db().QueryRow("SELECT "+invoiceCols+" FROM invoices WHERE id = ?", id).
		Scan(&inv.ID, &inv.Number, &inv.CustomerID, &inv.BillingProfileID,
			&inv.SummaryInvoiceID, &inv.Status, &inv.IssueDate, &inv.DueDate, &inv.Currency,
			&inv.NetCents, &inv.TaxCents, &inv.GrossCents, &inv.Notes,
			&inv.CreatedAt, &inv.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.Invoice{}, domain.NotFoundError{Resource: "invoice"}
	}
	if err != nil {
		return models.Invoice{}, domain.InternalError{Msg: "get invoice", Err: err}
	}

	rows, err := r.db().Query(`
        SELECT id, invoice_id, position, description, quantity, unit_price_cents, total_cents
        FROM invoice_items
        WHERE invoice_id = ?
        ORDER BY position
    `, id)
	if err != nil {
		return models.Invoice{}, domain.InternalError{Msg: "get invoice items", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var it models.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Position, &it.Description,
			&it.Quantity, &it.UnitPriceCents, &it.TotalCents); err != nil {
			return models.Invoice{}, domain.InternalError{Msg: "scan invoice item", Err: err}
		}
		inv.Items = append(inv.Items, it)
	}
	if err := rows.Err(); err != nil {
		return models.Invoice{}, domain.InternalError{Msg: "get invoice items", Err: err}
	}
	return inv, nil
}

// NextNumber produces the next invoice number for a year, e.g.
// INV-2026-0042. Sequences restart per year and advance past the
// highest suffix ever issued, so deletions leave gaps instead of
// reusing numbers.
func (r InvoiceRepository) NextNumber(year int) (string, error) {
	prefix := fmt.Sprintf("INV-%d-", year)
	var max int
	err := r.db().QueryRow(
		"SELECT COALESCE(MAX(CAST(SUBSTRING(number, ?) AS UNSIGNED)), 0) FROM invoices WHERE number LIKE ?",
		len(prefix)+1, prefix+"%",
	).Scan(&max)
	if err != nil {
		return "", domain.InternalError{Msg: "next invoice number", Err: err}
	}
	return fmt.Sprintf("%s%04d", prefix, max+1), nil
}

// Create inserts the invoice and its items in one transaction.
func (r InvoiceRepository) Create(inv models.Invoice) (models.Invoice, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return models.Invoice{}, domain.InternalError{Msg: "begin tx", Err: err}
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
        INSERT INTO invoices
            (number, customer_id, billing_profile_id, summary_invoice_id, status,
             issue_date, due_date, currency, net_cents, tax_cents, gross_cents, notes)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, inv.Number, inv.CustomerID, inv.BillingProfileID, inv.SummaryInvoiceID, inv.Status,
		inv.IssueDate, inv.DueDate, inv.Currency, inv.NetCents, inv.TaxCents, inv.GrossCents, inv.Notes)
	if err != nil {
		if isDuplicateKey(err) {
			return models.Invoice{}, domain.ConflictError{Resource: "invoice", Msg: "number already used"}
		}
		return models.Invoice{}, domain.InternalError{Msg: "insert invoice", Err: err}
	}
	inv.ID, _ = res.LastInsertId()

	for i := range inv.Items {
		it := &inv.Items[i]
		it.InvoiceID = inv.ID
		it.Position = i + 1
		ires, err := tx.Exec(`
            INSERT INTO invoice_items (invoice_id, position, description, quantity, unit_price_cents, total_cents)
            VALUES (?, ?, ?, ?, ?, ?)
        `, it.InvoiceID, it.Position, it.Description, it.Quantity, it.UnitPriceCents, it.TotalCents)
		if err != nil {
			return models.Invoice{}, domain.InternalError{Msg: "insert invoice item", Err: err}
		}
		it.ID, _ = ires.LastInsertId()
	}

	if err := tx.Commit(); err != nil {
		return models.Invoice{}, domain.InternalError{Msg: "commit invoice", Err: err}
	}
	return inv, nil
}

// Update rewrites the invoice header and replaces its items.
func (r InvoiceRepository) Update(inv models.Invoice) error {
	tx, err := r.db().Begin()
	if err != nil {
		return domain.InternalError{Msg: "begin tx", Err: err}
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
        UPDATE invoices
        SET status = ?, issue_date = ?, due_date = ?, currency = ?,
            net_cents = ?, tax_cents = ?, gross_cents = ?, notes = ?,
            billing_profile_id = ?, summary_invoice_id = ?
        WHERE id = ?
    `, inv.Status, inv.IssueDate, inv.DueDate, inv.Currency,
		inv.NetCents, inv.TaxCents, inv.GrossCents, inv.Notes,
		inv.BillingProfileID, inv.SummaryInvoiceID, inv.ID)
	if err != nil {
		return domain.InternalError{Msg: "update invoice", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := tx.QueryRow("SELECT COUNT(*) FROM invoices WHERE id = ?", inv.ID).Scan(&exists); err == nil && exists == 0 {
			return domain.NotFoundError{Resource: "invoice"}
		}
	}

	if _, err := tx.Exec("DELETE FROM invoice_items WHERE invoice_id = ?", inv.ID); err != nil {
		return domain.InternalError{Msg: "replace invoice items", Err: err}
	}
	for i, it := range inv.Items {
		if _, err := tx.Exec(`
            INSERT INTO invoice_items (invoice_id, position, description, quantity, unit_price_cents, total_cents)
            VALUES (?, ?, ?, ?, ?, ?)
        `, inv.ID, i+1, it.Description, it.Quantity, it.UnitPriceCents, it.TotalCents); err != nil {
			return domain.InternalError{Msg: "replace invoice items", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.InternalError{Msg: "commit invoice", Err: err}
	}
	return nil
}

func (r InvoiceRepository) Delete(id int64) error {
	res, err := r.db().Exec("DELETE FROM invoices WHERE id = ?", id)
	if err != nil {
		return domain.InternalError{Msg: "delete invoice", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "invoice"}
	}
	return nil
}
