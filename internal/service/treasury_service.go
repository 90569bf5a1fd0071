package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/oohworks/treasury-engine/internal/config"
	"github.com/oohworks/treasury-engine/internal/domain"
	"github.com/oohworks/treasury-engine/internal/pagination"
	"github.com/oohworks/treasury-engine/internal/repository"
	"github.com/oohworks/treasury-engine/internal/schedule"
	customError "github.com/oohworks/treasury-engine/pkg/errors"
	"github.com/oohworks/treasury-engine/pkg/utils"
)

type TreasuryService struct {
	bookingRepo     repository.BookingRepository
	collectibleRepo repository.CollectibleRepository
	invoiceRepo     repository.InvoiceRepository
	redis           *redis.Client
	config          *config.Config

	// One pager per (tenant, status filter, page size) listing view.
	// Dropped wholesale on any mutation for that tenant.
	mu     sync.Mutex
	pagers map[string]*pagination.Pager[*domain.Collectible]
}

func NewTreasuryService(
	bookingRepo repository.BookingRepository,
	collectibleRepo repository.CollectibleRepository,
	invoiceRepo repository.InvoiceRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *TreasuryService {
	return &TreasuryService{
		bookingRepo:     bookingRepo,
		collectibleRepo: collectibleRepo,
		invoiceRepo:     invoiceRepo,
		redis:           redisClient,
		config:          cfg,
		pagers:          make(map[string]*pagination.Pager[*domain.Collectible]),
	}
}

// PreviewSchedule computes a payment schedule from a billing configuration
// without persisting anything. The caller re-invokes it after every field
// edit; there is no reactive state on this side.
func (s *TreasuryService) PreviewSchedule(cfg schedule.Config) ([]schedule.Entry, error) {
	if err := validateBillingConfig(cfg); err != nil {
		return nil, err
	}
	return schedule.Compute(cfg), nil
}

// CreateCollectibles runs the two-phase paired creation for a booking:
// collectibles first, then mirrored invoices referencing them, then the
// invoice ids are patched back and the booking flagged. Creates within a
// phase fan out concurrently and join before the next phase starts. On any
// failure every record created so far is deleted before the error is
// returned, so a booking never ends up with a half-written schedule.
func (s *TreasuryService) CreateCollectibles(ctx context.Context, tenant domain.TenantContext, bookingID uuid.UUID, cfg schedule.Config) (*domain.CreateCollectiblesResponse, error) {
	if err := validateBillingConfig(cfg); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, tenant.CompanyID, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapBookingNotFound(bookingID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if booking.IsCollectibles {
		return nil, customError.WrapCollectiblesExist(bookingID.String())
	}

	entries := schedule.Compute(cfg)

	now := time.Now()
	collectibles := make([]*domain.Collectible, 0, len(entries))
	for _, entry := range entries {
		collectibles = append(collectibles, s.buildCollectible(booking, entry, cfg.StartDate, now))
	}

	invoices, err := s.runCreationSaga(ctx, tenant, booking, collectibles)
	if err != nil {
		return nil, err
	}

	s.invalidateListings(tenant.CompanyID)
	s.dropScheduleCache(ctx, tenant.CompanyID, bookingID)

	return &domain.CreateCollectiblesResponse{
		BookingID:    bookingID.String(),
		Collectibles: collectibles,
		Invoices:     invoices,
	}, nil
}

func (s *TreasuryService) buildCollectible(booking *domain.Booking, entry schedule.Entry, scheduleStart time.Time, now time.Time) *domain.Collectible {
	amount := entry.Amount.Round(2)
	return &domain.Collectible{
		ID:                uuid.New(),
		CompanyID:         booking.CompanyID,
		BookingID:         booking.ID,
		ProductID:         booking.ProductID,
		ProductOwner:      booking.ProductOwner,
		ClientID:          booking.ClientID,
		ClientName:        booking.ClientName,
		ClientCompanyName: booking.ClientCompanyName,
		ClientCompanyID:   booking.ClientCompanyID,
		ProjectName:       booking.ProjectName,
		ReservationID:     booking.ReservationID,
		Amount:            amount,
		VATAmount:         utils.TaxPortion(amount, s.config.GetVATRate()),
		WithHoldingTax:    utils.TaxPortion(amount, s.config.GetWithholdingRate()),
		DueDate:           schedule.DueDate(entry, scheduleStart),
		Period:            entry.Label,
		Status:            domain.CollectibleStatusPending,
		CreatedAt:         now,
	}
}

func mirrorInvoice(booking *domain.Booking, c *domain.Collectible) *domain.Invoice {
	return &domain.Invoice{
		ID:                uuid.New(),
		CompanyID:         c.CompanyID,
		CollectibleID:     c.ID,
		BookingID:         c.BookingID,
		ProductID:         c.ProductID,
		ProductOwner:      c.ProductOwner,
		ClientID:          c.ClientID,
		ClientName:        c.ClientName,
		ClientCompanyName: c.ClientCompanyName,
		ClientCompanyID:   c.ClientCompanyID,
		ProjectName:       c.ProjectName,
		ReservationID:     c.ReservationID,
		Amount:            c.Amount,
		VATAmount:         c.VATAmount,
		WithHoldingTax:    c.WithHoldingTax,
		DueDate:           c.DueDate,
		Period:            c.Period,
		Status:            c.Status,
		ContractPDFURL:    booking.ContractPDFURL,
		CreatedAt:         c.CreatedAt,
	}
}

func (s *TreasuryService) runCreationSaga(ctx context.Context, tenant domain.TenantContext, booking *domain.Booking, collectibles []*domain.Collectible) ([]*domain.Invoice, error) {
	invoices := make([]*domain.Invoice, 0, len(collectibles))
	for _, c := range collectibles {
		invoices = append(invoices, mirrorInvoice(booking, c))
	}

	fail := func(cause error) error {
		s.compensate(ctx, collectibles, invoices)
		return customError.WrapScheduleIncomplete(booking.ID.String(), cause)
	}

	// Phase 1: collectibles
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range collectibles {
		c := c
		g.Go(func() error {
			return s.collectibleRepo.Create(gctx, c)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fail(err)
	}

	// Phase 2: invoices referencing their collectibles
	g, gctx = errgroup.WithContext(ctx)
	for _, inv := range invoices {
		inv := inv
		g.Go(func() error {
			return s.invoiceRepo.Create(gctx, inv)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fail(err)
	}

	// Phase 3: back-patch invoice ids
	g, gctx = errgroup.WithContext(ctx)
	for i := range collectibles {
		c, inv := collectibles[i], invoices[i]
		g.Go(func() error {
			if err := s.collectibleRepo.SetInvoiceID(gctx, c.ID, inv.ID); err != nil {
				return err
			}
			c.InvoiceID = uuid.NullUUID{UUID: inv.ID, Valid: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fail(err)
	}

	// Phase 4: flag the booking so the schedule cannot be generated twice
	if err := s.bookingRepo.SetCollectiblesFlag(ctx, tenant.CompanyID, booking.ID, true); err != nil {
		return nil, fail(err)
	}

	return invoices, nil
}

// compensate deletes everything the saga may have created. Record ids are
// generated up front, so deleting rows that never made it in is a no-op.
// Runs detached from the caller's cancellation.
func (s *TreasuryService) compensate(ctx context.Context, collectibles []*domain.Collectible, invoices []*domain.Invoice) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	for _, inv := range invoices {
		if err := s.invoiceRepo.Delete(cctx, inv.ID); err != nil {
			log.Printf("compensation: delete invoice %s: %v", inv.ID, err)
		}
	}
	for _, c := range collectibles {
		if err := s.collectibleRepo.Delete(cctx, c.ID); err != nil {
			log.Printf("compensation: delete collectible %s: %v", c.ID, err)
		}
	}
}

// GetScheduleByBooking returns the persisted collectibles of a booking,
// served from redis when warm.
func (s *TreasuryService) GetScheduleByBooking(ctx context.Context, tenant domain.TenantContext, bookingID uuid.UUID) ([]*domain.Collectible, error) {
	cacheKey := scheduleCacheKey(tenant.CompanyID, bookingID)

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var collectibles []*domain.Collectible
			if err := json.Unmarshal([]byte(cached), &collectibles); err == nil {
				return collectibles, nil
			}
		}
	}

	collectibles, err := s.collectibleRepo.GetByBookingID(ctx, tenant.CompanyID, bookingID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if s.redis != nil {
		if payload, err := json.Marshal(collectibles); err == nil {
			if err := s.redis.Set(ctx, cacheKey, payload, s.config.GetScheduleCacheTTL()).Err(); err != nil {
				log.Printf("schedule cache set %s: %v", cacheKey, customError.WrapCacheError(err))
			}
		}
	}

	return collectibles, nil
}

// ListCollectibles serves one page of the tenant's collectibles listing.
// The page cache and the total count are fetched in parallel; a count
// failure degrades to 0 items / 1 page rather than failing the listing.
func (s *TreasuryService) ListCollectibles(ctx context.Context, tenant domain.TenantContext, page, pageSize int, status string) (*domain.CollectibleListResponse, error) {
	if status != "" &&
		status != domain.CollectibleStatusPending &&
		status != domain.CollectibleStatusPaid &&
		status != domain.CollectibleStatusOverdue {
		return nil, customError.WrapInvalidStatus(status)
	}

	pageSize = utils.ClampPageSize(pageSize, s.config.Business.DefaultPageSize, s.config.Business.MaxPageSize)
	if page < 1 {
		page = 1
	}

	pager := s.pagerFor(tenant.CompanyID, status, pageSize)

	var (
		result     pagination.Page[*domain.Collectible]
		totalItems int
		totalPages int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result, err = pager.FetchPage(gctx, page)
		return err
	})
	g.Go(func() error {
		totalItems, totalPages = pager.Count(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.CollectibleListResponse{
		Items:      result.Items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasMore:    result.HasMore,
		Pages:      pagination.PageButtons(page, totalPages),
	}, nil
}

// UpdateCollectibleStatus transitions a collectible and invalidates every
// cache that could now be stale.
func (s *TreasuryService) UpdateCollectibleStatus(ctx context.Context, tenant domain.TenantContext, id uuid.UUID, status string) (*domain.Collectible, error) {
	if status != domain.CollectibleStatusPending &&
		status != domain.CollectibleStatusPaid &&
		status != domain.CollectibleStatusOverdue {
		return nil, customError.WrapInvalidStatus(status)
	}

	if err := s.collectibleRepo.UpdateStatus(ctx, tenant.CompanyID, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapCollectibleNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	collectible, err := s.collectibleRepo.GetByID(ctx, tenant.CompanyID, id)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateListings(tenant.CompanyID)
	s.dropScheduleCache(ctx, tenant.CompanyID, collectible.BookingID)

	return collectible, nil
}

// GetInvoiceForCollectible resolves the invoice half of a collectible pair.
func (s *TreasuryService) GetInvoiceForCollectible(ctx context.Context, tenant domain.TenantContext, collectibleID uuid.UUID) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByCollectibleID(ctx, tenant.CompanyID, collectibleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapCollectibleNotFound(collectibleID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return invoice, nil
}

// MarkOverdue flips pending collectibles whose due date has passed. Run by
// the scheduler; listings across all tenants may be stale afterwards, so
// every pager is dropped.
func (s *TreasuryService) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	updated, err := s.collectibleRepo.MarkOverdue(ctx, now)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	if updated > 0 {
		s.mu.Lock()
		s.pagers = make(map[string]*pagination.Pager[*domain.Collectible])
		s.mu.Unlock()
	}

	return updated, nil
}

func (s *TreasuryService) pagerFor(companyID, status string, pageSize int) *pagination.Pager[*domain.Collectible] {
	key := companyID + "|" + status + "|" + strconv.Itoa(pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pagers[key]; ok {
		return p
	}

	fetch := func(ctx context.Context, after pagination.Cursor, limit int) ([]*domain.Collectible, pagination.Cursor, error) {
		return s.collectibleRepo.List(ctx, companyID, status, limit, after)
	}
	count := func(ctx context.Context) (int, error) {
		return s.collectibleRepo.Count(ctx, companyID, status)
	}

	p := pagination.NewPager(fetch, count, pageSize)
	s.pagers[key] = p
	return p
}

func (s *TreasuryService) invalidateListings(companyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.pagers {
		if strings.HasPrefix(key, companyID+"|") {
			delete(s.pagers, key)
		}
	}
}

func (s *TreasuryService) dropScheduleCache(ctx context.Context, companyID string, bookingID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, scheduleCacheKey(companyID, bookingID)).Err(); err != nil {
		log.Printf("schedule cache del: %v", customError.WrapCacheError(err))
	}
}

func scheduleCacheKey(companyID string, bookingID uuid.UUID) string {
	return "schedule:" + companyID + ":" + bookingID.String()
}

func validateBillingConfig(cfg schedule.Config) error {
	if cfg.BillingType != schedule.BillingMonthly && cfg.BillingType != schedule.BillingOneTime {
		return customError.WrapInvalidBillingType(cfg.BillingType)
	}
	if cfg.Rate.IsNegative() {
		return customError.WrapInvalidAmount("rate", cfg.Rate.String())
	}
	if cfg.TotalMonths < 0 {
		return customError.WrapInvalidAmount("total_months", strconv.Itoa(cfg.TotalMonths))
	}
	if cfg.DepositRequired && cfg.DepositAmount.IsNegative() {
		return customError.WrapInvalidAmount("deposit_amount", cfg.DepositAmount.String())
	}
	return nil
}
