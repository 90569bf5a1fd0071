package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/oohworks/treasury-engine/internal/config"
	"github.com/oohworks/treasury-engine/internal/domain"
	"github.com/oohworks/treasury-engine/internal/schedule"
	"github.com/oohworks/treasury-engine/internal/service"
	customError "github.com/oohworks/treasury-engine/pkg/errors"
	"github.com/oohworks/treasury-engine/pkg/response"
	"github.com/oohworks/treasury-engine/pkg/utils"
)

// TenantHeader names the header carrying the operating company id.
const TenantHeader = "X-Company-ID"

const dateLayout = "2006-01-02"

type TreasuryHandler struct {
	service   *service.TreasuryService
	validator *validator.Validate
	config    *config.Config
}

func NewTreasuryHandler(svc *service.TreasuryService, cfg *config.Config) *TreasuryHandler {
	return &TreasuryHandler{
		service:   svc,
		validator: validator.New(),
		config:    cfg,
	}
}

// PreviewSchedule computes a schedule from the posted billing configuration
// without persisting it. The client calls this after every field edit.
func (h *TreasuryHandler) PreviewSchedule(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.tenant(w, r); !ok {
		return
	}

	req, ok := h.decodeBillingRequest(w, r)
	if !ok {
		return
	}

	cfg, err := h.toScheduleConfig(req)
	if err != nil {
		response.BadRequest(w, "Invalid billing configuration", err)
		return
	}

	entries, err := h.service.PreviewSchedule(cfg)
	if err != nil {
		h.writeError(w, err)
		return
	}

	preview := domain.SchedulePreviewResponse{
		Entries: make([]domain.ScheduleEntryResponse, 0, len(entries)),
		Total:   schedule.Total(entries),
	}
	for _, e := range entries {
		preview.Entries = append(preview.Entries, domain.ScheduleEntryResponse{Label: e.Label, Amount: e.Amount})
	}

	response.Success(w, preview)
}

// CreateCollectibles persists the schedule for a booking as paired
// collectible and invoice records.
func (h *TreasuryHandler) CreateCollectibles(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.tenant(w, r)
	if !ok {
		return
	}

	bookingID, ok := h.pathUUID(w, r, "bookingId")
	if !ok {
		return
	}

	req, ok := h.decodeBillingRequest(w, r)
	if !ok {
		return
	}

	cfg, err := h.toScheduleConfig(req)
	if err != nil {
		response.BadRequest(w, "Invalid billing configuration", err)
		return
	}

	result, err := h.service.CreateCollectibles(r.Context(), tenant, bookingID, cfg)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, result)
}

// GetSchedule returns the persisted collectibles of a booking.
func (h *TreasuryHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.tenant(w, r)
	if !ok {
		return
	}

	bookingID, ok := h.pathUUID(w, r, "bookingId")
	if !ok {
		return
	}

	collectibles, err := h.service.GetScheduleByBooking(r.Context(), tenant, bookingID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, collectibles)
}

// ListCollectibles serves one page of the tenant's collectibles.
func (h *TreasuryHandler) ListCollectibles(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.tenant(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page := utils.ParsePositiveInt(q.Get("page"), 1)
	pageSize := utils.ParsePositiveInt(q.Get("page_size"), h.config.Business.DefaultPageSize)
	status := q.Get("status")

	result, err := h.service.ListCollectibles(r.Context(), tenant, page, pageSize, status)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateStatus transitions a collectible between pending, paid and overdue.
func (h *TreasuryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.tenant(w, r)
	if !ok {
		return
	}

	id, ok := h.pathUUID(w, r, "collectibleId")
	if !ok {
		return
	}

	var req domain.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	collectible, err := h.service.UpdateCollectibleStatus(r.Context(), tenant, id, req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, collectible)
}

// GetInvoice resolves the invoice paired with a collectible.
func (h *TreasuryHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.tenant(w, r)
	if !ok {
		return
	}

	id, ok := h.pathUUID(w, r, "collectibleId")
	if !ok {
		return
	}

	invoice, err := h.service.GetInvoiceForCollectible(r.Context(), tenant, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, invoice)
}

func (h *TreasuryHandler) tenant(w http.ResponseWriter, r *http.Request) (domain.TenantContext, bool) {
	companyID := r.Header.Get(TenantHeader)
	if companyID == "" {
		response.Unauthorized(w, "Missing "+TenantHeader+" header")
		return domain.TenantContext{}, false
	}
	return domain.TenantContext{CompanyID: companyID}, true
}

func (h *TreasuryHandler) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *TreasuryHandler) decodeBillingRequest(w http.ResponseWriter, r *http.Request) (domain.BillingRequest, bool) {
	var req domain.BillingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return req, false
	}
	return req, true
}

// toScheduleConfig applies the prefill rules before handing the
// configuration to the generator: totalMonths derives from the date range
// when unset, and the deposit amount derives from rate × terms when
// required but not explicitly provided.
func (h *TreasuryHandler) toScheduleConfig(req domain.BillingRequest) (schedule.Config, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return schedule.Config{}, err
	}

	totalMonths := req.TotalMonths
	if totalMonths == 0 && req.EndDate != "" {
		endDate, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return schedule.Config{}, err
		}
		totalMonths = schedule.InclusiveMonths(startDate, endDate)
	}

	depositAmount := req.DepositAmount
	if req.DepositRequired && depositAmount.IsZero() && req.DepositTerms != "" {
		depositAmount, err = schedule.DeriveDeposit(req.Rate, req.DepositTerms)
		if err != nil {
			return schedule.Config{}, err
		}
	}
	if !req.DepositRequired {
		depositAmount = decimal.Zero
	}

	return schedule.Config{
		BillingType:     req.BillingType,
		Rate:            req.Rate,
		StartDate:       startDate,
		TotalMonths:     totalMonths,
		DepositRequired: req.DepositRequired,
		DepositAmount:   depositAmount,
		AdvanceRequired: req.AdvanceRequired,
		AdvanceTerms:    req.AdvanceTerms,
	}, nil
}

func (h *TreasuryHandler) writeError(w http.ResponseWriter, err error) {
	var bizErr *customError.BusinessError
	if errors.As(err, &bizErr) {
		response.BusinessError(w, bizErr)
		return
	}
	response.InternalServerError(w, "Unexpected error", err)
}
