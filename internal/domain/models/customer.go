package models

import "time"

type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Street    string    `json:"street"`
	Zip       string    `json:"zip"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BillingProfile carries the issuer-facing billing identity of a
// customer; a customer can have several, one marked default.
type BillingProfile struct {
	ID               int64     `json:"id"`
	CustomerID       int64     `json:"customer_id"`
	CompanyName      string    `json:"company_name"`
	TaxID            string    `json:"tax_id"`
	Street           string    `json:"street"`
	Zip              string    `json:"zip"`
	City             string    `json:"city"`
	Country          string    `json:"country"`
	IBAN             string    `json:"iban"`
	PaymentTermsDays int       `json:"payment_terms_days"`
	IsDefault        bool      `json:"is_default"`
	CreatedAt        time.Time `json:"created_at"`
}
