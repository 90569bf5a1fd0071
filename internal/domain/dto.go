package domain

import (
	"github.com/shopspring/decimal"
)

// DTOs for requests and responses

// BillingRequest carries the billing configuration a schedule is generated
// from. Dates use the YYYY-MM-DD wire format. Advance terms are collected
// but do not affect pricing.
type BillingRequest struct {
	BillingType     string          `json:"billing_type" validate:"required,oneof=monthly one_time"`
	Rate            decimal.Decimal `json:"rate" validate:"required"`
	StartDate       string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string          `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	TotalMonths     int             `json:"total_months" validate:"omitempty,min=0"`
	DepositRequired bool            `json:"deposit_required"`
	DepositTerms    string          `json:"deposit_terms" validate:"omitempty,oneof='1 month' '2 months'"`
	DepositAmount   decimal.Decimal `json:"deposit_amount"`
	AdvanceRequired bool            `json:"advance_required"`
	AdvanceTerms    string          `json:"advance_terms"`
}

type ScheduleEntryResponse struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type SchedulePreviewResponse struct {
	Entries []ScheduleEntryResponse `json:"entries"`
	Total   decimal.Decimal         `json:"total"`
}

type CreateCollectiblesResponse struct {
	BookingID    string         `json:"booking_id"`
	Collectibles []*Collectible `json:"collectibles"`
	Invoices     []*Invoice     `json:"invoices"`
}

type CollectibleListResponse struct {
	Items      []*Collectible `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalItems int            `json:"total_items"`
	TotalPages int            `json:"total_pages"`
	HasMore    bool           `json:"has_more"`
	Pages      []int          `json:"pages"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid overdue"`
}
