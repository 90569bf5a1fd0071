package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CollectibleStatusPending = "pending"
	CollectibleStatusPaid    = "paid"
	CollectibleStatusOverdue = "overdue"
)

// Collectible is one receivable line of a booking's payment schedule.
// Booking, product and client references are denormalized onto the row so
// treasury views never have to join back into the bookings collection.
type Collectible struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	CompanyID         string          `json:"company_id" db:"company_id"`
	BookingID         uuid.UUID       `json:"booking_id" db:"booking_id"`
	ProductID         string          `json:"product_id" db:"product_id"`
	ProductOwner      string          `json:"product_owner" db:"product_owner"`
	ClientID          string          `json:"client_id" db:"client_id"`
	ClientName        string          `json:"client_name" db:"client_name"`
	ClientCompanyName string          `json:"client_company_name" db:"client_company_name"`
	ClientCompanyID   string          `json:"client_company_id" db:"client_company_id"`
	ProjectName       string          `json:"project_name" db:"project_name"`
	ReservationID     string          `json:"reservation_id" db:"reservation_id"`
	Amount            decimal.Decimal `json:"amount" db:"amount"`
	VATAmount         decimal.Decimal `json:"vat_amount" db:"vat_amount"`
	WithHoldingTax    decimal.Decimal `json:"with_holding_tax" db:"with_holding_tax"`
	DueDate           time.Time       `json:"due_date" db:"due_date"`
	Period            string          `json:"period" db:"period"`
	Status            string          `json:"status" db:"status"`
	InvoiceID         uuid.NullUUID   `json:"invoice_id" db:"invoice_id"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}
