package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TenantContext identifies the operating company on whose behalf an
// operation runs. Every repository query is scoped by CompanyID.
type TenantContext struct {
	CompanyID string
	UserID    string
}

// Booking is the source record a collectibles schedule is generated from.
// It is read-only input here; the booking lifecycle itself (reservation,
// compliance, logistics) is owned elsewhere.
type Booking struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	CompanyID         string          `json:"company_id" db:"company_id"`
	ProductID         string          `json:"product_id" db:"product_id"`
	ProductOwner      string          `json:"product_owner" db:"product_owner"`
	ClientID          string          `json:"client_id" db:"client_id"`
	ClientName        string          `json:"client_name" db:"client_name"`
	ClientCompanyName string          `json:"client_company_name" db:"client_company_name"`
	ClientCompanyID   string          `json:"client_company_id" db:"client_company_id"`
	ProjectName       string          `json:"project_name" db:"project_name"`
	ReservationID     string          `json:"reservation_id" db:"reservation_id"`
	StartDate         time.Time       `json:"start_date" db:"start_date"`
	EndDate           time.Time       `json:"end_date" db:"end_date"`
	PricePerMonth     decimal.Decimal `json:"price_per_month" db:"price_per_month"`
	ContractPDFURL    string          `json:"contract_pdf_url" db:"contract_pdf_url"`
	IsCollectibles    bool            `json:"is_collectibles" db:"is_collectibles"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}
