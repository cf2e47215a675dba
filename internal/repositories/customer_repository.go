package repositories

import (
	"database/sql"
	"errors"

	"billino/internal/config"
	"billino/internal/domain"
	"billino/internal/domain/models"
	"billino/internal/tablequery"

	"github.com/go-sql-driver/mysql"
)

var customerListSpec = ListSpec{
	Table: "customers",
	Columns: map[string]string{
		"id":         "id",
		"name":       "name",
		"email":      "email",
		"phone":      "phone",
		"city":       "city",
		"country":    "country",
		"created_at": "created_at",
	},
	Searchable:  []string{"name", "email", "city"},
	DefaultSort: "name ASC",
}

const customerCols = "id, name, email, phone, street, zip, city, country, created_at, updated_at"

type CustomerRepository struct {
	DB *sql.DB
}

func (r CustomerRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

func (r CustomerRepository) List(state tablequery.TableState) (tablequery.Page[models.Customer], error) {
	var zero tablequery.Page[models.Customer]

	q, err := buildListQuery(customerListSpec, customerCols, state)
	if err != nil {
		return zero, err
	}

	var total int
	if err := r.db().QueryRow(q.CountQuery, q.CountArgs...).Scan(&total); err != nil {
		return zero, domain.InternalError{Msg: "count customers", Err: err}
	}

	rows, err := r.db().Query(q.Query, q.Args...)
	if err != nil {
		return zero, domain.InternalError{Msg: "list customers", Err: err}
	}
	defer rows.Close()

	var items []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Street, &c.Zip,
			&c.City, &c.Country, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return zero, domain.InternalError{Msg: "scan customer", Err: err}
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return zero, domain.InternalError{Msg: "list customers", Err: err}
	}

	return tablequery.NewPage(items, total, state.Pagination.Page, state.Pagination.PageSize), nil
}

func (r CustomerRepository) GetByID(id int64) (models.Customer, error) {
	var c models.Customer
	err := r.db().QueryRow("SELECT "+customerCols+" FROM customers WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Street, &c.Zip,
			&c.City, &c.Country, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.Customer{}, domain.NotFoundError{Resource: "customer"}
	}
	if err != nil {
		return models.Customer{}, domain.InternalError{Msg: "get customer", Err: err}
	}
	return c, nil
}

func (r CustomerRepository) Create(c models.Customer) (models.Customer, error) {
	res, err := r.db().Exec(`
        INSERT INTO customers (name, email, phone, street, zip, city, country)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, c.Name, c.Email, c.Phone, c.Street, c.Zip, c.City, c.Country)
	if err != nil {
		return models.Customer{}, domain.InternalError{Msg: "insert customer", Err: err}
	}
	c.ID, _ = res.LastInsertId()
	return c, nil
}

func (r CustomerRepository) Update(c models.Customer) error {
	res, err := r.db().Exec(`
        UPDATE customers
        SET name = ?, email = ?, phone = ?, street = ?, zip = ?, city = ?, country = ?
        WHERE id = ?
    `, c.Name, c.Email, c.Phone, c.Street, c.Zip, c.City, c.Country, c.ID)
	if err != nil {
		return domain.InternalError{Msg: "update customer", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(c.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r CustomerRepository) Delete(id int64) error {
	res, err := r.db().Exec("DELETE FROM customers WHERE id = ?", id)
	if err != nil {
		return domain.InternalError{Msg: "delete customer", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "customer"}
	}
	return nil
}

// isDuplicateKey matches MySQL error 1062 so unique-key races surface
// as conflicts instead of internal errors.
func isDuplicateKey(err error) bool {
	var my *mysql.MySQLError
	return errors.As(err, &my) && my.Number == 1062
}
