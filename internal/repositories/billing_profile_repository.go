package repositories

import (
	"database/sql"

	"billino/internal/config"
	"billino/internal/domain"
	"billino/internal/domain/models"
	"billino/internal/tablequery"
)

var billingProfileListSpec = ListSpec{
	Table: "billing_profiles",
	Columns: map[string]string{
		"id":                 "id",
		"customer_id":        "customer_id",
		"company_name":       "company_name",
		"tax_id":             "tax_id",
		"city":               "city",
		"country":            "country",
		"payment_terms_days": "payment_terms_days",
		"is_default":         "is_default",
		"created_at":         "created_at",
	},
	Searchable:  []string{"company_name", "tax_id", "city"},
	DefaultSort: "company_name ASC",
}

const billingProfileCols = "id, customer_id, company_name, tax_id, street, zip, city, country, iban, payment_terms_days, is_default, created_at"

type BillingProfileRepository struct {
	DB *sql.DB
}

func (r BillingProfileRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

func (r BillingProfileRepository) List(state tablequery.TableState) (tablequery.Page[models.BillingProfile], error) {
	var zero tablequery.Page[models.BillingProfile]

	q, err := buildListQuery(billingProfileListSpec, billingProfileCols, state)
	if err != nil {
		return zero, err
	}

	var total int
	if err := r.db().QueryRow(q.CountQuery, q.CountArgs...).Scan(&total); err != nil {
		return zero, domain.InternalError{Msg: "count billing profiles", Err: err}
	}

	rows, err := r.db().Query(q.Query, q.Args...)
	if err != nil {
		return zero, domain.InternalError{Msg: "list billing profiles", Err: err}
	}
	defer rows.Close()

	var items []models.BillingProfile
	for rows.Next() {
		p, err := scanBillingProfile(rows)
		if err != nil {
			return zero, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return zero, domain.InternalError{Msg: "list billing profiles", Err: err}
	}

	return tablequery.NewPage(items, total, state.Pagination.Page, state.Pagination.PageSize), nil
}

func scanBillingProfile(rows *sql.Rows) (models.BillingProfile, error) {
	var p models.BillingProfile
	err := rows.Scan(&p.ID, &p.CustomerID, &p.CompanyName, &p.TaxID, &p.Street, &p.Zip,
		&p.City, &p.Country, &p.IBAN, &p.PaymentTermsDays, &p.IsDefault, &p.CreatedAt)
	if err != nil {
		return models.BillingProfile{}, domain.InternalError{Msg: "scan billing profile", Err: err}
	}
	return p, nil
}

func (r BillingProfileRepository) GetByID(id int64) (models.BillingProfile, error) {
	var p models.BillingProfile
	err := r.db().QueryRow("SELECT "+billingProfileCols+" FROM billing_profiles WHERE id = ?", id).
		Scan(&p.ID, &p.CustomerID, &p.CompanyName, &p.TaxID, &p.Street, &p.Zip,
			&p.City, &p.Country, &p.IBAN, &p.PaymentTermsDays, &p.IsDefault, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return models.BillingProfile{}, domain.NotFoundError{Resource: "billing profile"}
	}
	if err != nil {
		return models.BillingProfile{}, domain.InternalError{Msg: "get billing profile", Err: err}
	}
	return p, nil
}

func (r BillingProfileRepository) Create(p models.BillingProfile) (models.BillingProfile, error) {
	res, err := r.db().Exec(`
        INSERT INTO billing_profiles
            (customer_id, company_name, tax_id, street, zip, city, country, iban, payment_terms_days, is_default)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, p.CustomerID, p.CompanyName, p.TaxID, p.Street, p.Zip, p.City, p.Country,
		p.IBAN, p.PaymentTermsDays, p.IsDefault)
	if err != nil {
		return models.BillingProfile{}, domain.InternalError{Msg: "insert billing profile", Err: err}
	}
	p.ID, _ = res.LastInsertId()
	return p, nil
}

func (r BillingProfileRepository) Update(p models.BillingProfile) error {
	res, err := r.db().Exec(`
        UPDATE billing_profiles
        SET company_name = ?, tax_id = ?, street = ?, zip = ?, city = ?, country = ?,
            iban = ?, payment_terms_days = ?, is_default = ?
        WHERE id = ?
    `, p.CompanyName, p.TaxID, p.Street, p.Zip, p.City, p.Country,
		p.IBAN, p.PaymentTermsDays, p.IsDefault, p.ID)
	if err != nil {
		return domain.InternalError{Msg: "update billing profile", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r BillingProfileRepository) Delete(id int64) error {
	res, err := r.db().Exec("DELETE FROM billing_profiles WHERE id = ?", id)
	if err != nil {
		return domain.InternalError{Msg: "delete billing profile", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "billing profile"}
	}
	return nil
}
