package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oohworks/treasury-engine/internal/config"
	"github.com/oohworks/treasury-engine/internal/domain"
	"github.com/oohworks/treasury-engine/internal/pagination"
	"github.com/oohworks/treasury-engine/internal/schedule"
	customError "github.com/oohworks/treasury-engine/pkg/errors"
	"github.com/oohworks/treasury-engine/tests/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		Business: config.BusinessConfig{
			VATRate:          "0.12",
			WithholdingRate:  "0.05",
			DefaultPageSize:  10,
			MaxPageSize:      100,
			ScheduleCacheTTL: "15m",
		},
	}
}

func testBooking(companyID string) *domain.Booking {
	return &domain.Booking{
		ID:                uuid.New(),
		CompanyID:         companyID,
		ProductID:         "BB-EDSA-001",
		ProductOwner:      "Northline Media",
		ClientID:          "CL-42",
		ClientName:        "A. Reyes",
		ClientCompanyName: "Retail Ventures Inc",
		ClientCompanyID:   "RVI-9",
		ProjectName:       "Summer Launch",
		ReservationID:     "RES-2024-0117",
		StartDate:         time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		PricePerMonth:     decimal.NewFromInt(10000),
		ContractPDFURL:    "https://files.example.com/contracts/res-2024-0117.pdf",
	}
}

func monthlyConfig() schedule.Config {
	return schedule.Config{
		BillingType:     schedule.BillingMonthly,
		Rate:            decimal.NewFromInt(10000),
		StartDate:       time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		TotalMonths:     3,
		DepositRequired: true,
		DepositAmount:   decimal.NewFromInt(10000),
	}
}

func newTestService(bookingRepo *mocks.MockBookingRepository, collectibleRepo *mocks.MockCollectibleRepository, invoiceRepo *mocks.MockInvoiceRepository) *TreasuryService {
	return NewTreasuryService(bookingRepo, collectibleRepo, invoiceRepo, nil, testConfig())
}

func TestCreateCollectibles_Success(t *testing.T) {
	bookingRepo := &mocks.MockBookingRepository{}
	collectibleRepo := &mocks.MockCollectibleRepository{}
	invoiceRepo := &mocks.MockInvoiceRepository{}
	svc := newTestService(bookingRepo, collectibleRepo, invoiceRepo)

	tenant := domain.TenantContext{CompanyID: "ACME"}
	booking := testBooking(tenant.CompanyID)

	bookingRepo.On("GetByID", mock.Anything, tenant.CompanyID, booking.ID).Return(booking, nil)
	collectibleRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Collectible")).Return(nil).Times(4)
	invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil).Times(4)
	collectibleRepo.On("SetInvoiceID", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("uuid.UUID")).Return(nil).Times(4)
	bookingRepo.On("SetCollectiblesFlag", mock.Anything, tenant.CompanyID, booking.ID, true).Return(nil)

	result, err := svc.CreateCollectibles(context.Background(), tenant, booking.ID, monthlyConfig())

	require.NoError(t, err)
	require.Len(t, result.Collectibles, 4)
	require.Len(t, result.Invoices, 4)

	deposit := result.Collectibles[0]
	assert.Equal(t, schedule.LabelDeposit, deposit.Period)
	assert.True(t, deposit.Amount.Equal(decimal.NewFromInt(10000)))
	assert.True(t, deposit.VATAmount.Equal(decimal.NewFromInt(1200)))
	assert.True(t, deposit.WithHoldingTax.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, domain.CollectibleStatusPending, deposit.Status)

	// Monthly entries fall due on the first of their billing month.
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), result.Collectibles[1].DueDate)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), result.Collectibles[2].DueDate)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), result.Collectibles[3].DueDate)

	// Each invoice mirrors its collectible and carries the back-reference.
	for i, inv := range result.Invoices {
		c := result.Collectibles[i]
		assert.Equal(t, c.ID, inv.CollectibleID)
		assert.True(t, inv.Amount.Equal(c.Amount))
		assert.True(t, inv.VATAmount.Equal(c.VATAmount))
		assert.Equal(t, booking.ContractPDFURL, inv.ContractPDFURL)
		require.True(t, c.InvoiceID.Valid)
		assert.Equal(t, inv.ID, c.InvoiceID.UUID)
	}

	bookingRepo.AssertExpectations(t)
	collectibleRepo.AssertExpectations(t)
	invoiceRepo.AssertExpectations(t)
}

func TestCreateCollectibles_BookingNotFound(t *testing.T) {
	bookingRepo := &mocks.MockBookingRepository{}
	svc := newTestService(bookingRepo, &mocks.MockCollectibleRepository{}, &mocks.MockInvoiceRepository{})

	tenant := domain.TenantContext{CompanyID: "ACME"}
	bookingID := uuid.New()
	bookingRepo.On("GetByID", mock.Anything, tenant.CompanyID, bookingID).Return(nil, sql.ErrNoRows)

	_, err := svc.CreateCollectibles(context.Background(), tenant, bookingID, monthlyConfig())

	assert.ErrorIs(t, err, customError.ErrBookingNotFound)
}

func TestCreateCollectibles_AlreadyGenerated(t *testing.T) {
	bookingRepo := &mocks.MockBookingRepository{}
	svc := newTestService(bookingRepo, &mocks.MockCollectibleRepository{}, &mocks.MockInvoiceRepository{})

	tenant := domain.TenantContext{CompanyID: "ACME"}
	booking := testBooking(tenant.CompanyID)
	booking.IsCollectibles = true
	bookingRepo.On("GetByID", mock.Anything, tenant.CompanyID, booking.ID).Return(booking, nil)

	_, err := svc.CreateCollectibles(context.Background(), tenant, booking.ID, monthlyConfig())

	assert.ErrorIs(t, err, customError.ErrCollectiblesExist)
}

func TestCreateCollectibles_InvalidConfig(t *testing.T) {
	svc := newTestService(&mocks.MockBookingRepository{}, &mocks.MockCollectibleRepository{}, &mocks.MockInvoiceRepository{})
	tenant := domain.TenantContext{CompanyID: "ACME"}

	cfg := monthlyConfig()
	cfg.BillingType = "quarterly"
	_, err := svc.CreateCollectibles(context.Background(), tenant, uuid.New(), cfg)
	assert.ErrorIs(t, err, customError.ErrInvalidBillingType)

	cfg = monthlyConfig()
	cfg.Rate = decimal.NewFromInt(-1)
	_, err = svc.CreateCollectibles(context.Background(), tenant, uuid.New(), cfg)
	assert.ErrorIs(t, err, customError.ErrInvalidAmount)
}

func TestCreateCollectibles_InvoicePhaseFailureCompensates(t *testing.T) {
	bookingRepo := &mocks.MockBookingRepository{}
	collectibleRepo := &mocks.MockCollectibleRepository{}
	invoiceRepo := &mocks.MockInvoiceRepository{}
	svc := newTestService(bookingRepo, collectibleRepo, invoiceRepo)

	tenant := domain.TenantContext{CompanyID: "ACME"}
	booking := testBooking(tenant.CompanyID)

	bookingRepo.On("GetByID", mock.Anything, tenant.CompanyID, booking.ID).Return(booking, nil)
	collectibleRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Collectible")).Return(nil).Times(4)
	invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(errors.New("write refused"))

	// Compensation deletes every record of both phases.
	invoiceRepo.On("Delete", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil).Times(4)
	collectibleRepo.On("Delete", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil).Times(4)

	_, err := svc.CreateCollectibles(context.Background(), tenant, booking.ID, monthlyConfig())

	assert.ErrorIs(t, err, customError.ErrScheduleIncomplete)
	bookingRepo.AssertNotCalled(t, "SetCollectiblesFlag", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	collectibleRepo.AssertExpectations(t)
	invoiceRepo.AssertExpectations(t)
}

func TestCreateCollectibles_FlagFailureCompensates(t *testing.T) {
	bookingRepo := &mocks.MockBookingRepository{}
	collectibleRepo := &mocks.MockCollectibleRepository{}
	invoiceRepo := &mocks.MockInvoiceRepository{}
	svc := newTestService(bookingRepo, collectibleRepo, invoiceRepo)

	tenant := domain.TenantContext{CompanyID: "ACME"}
	booking := testBooking(tenant.CompanyID)

	bookingRepo.On("GetByID", mock.Anything, tenant.CompanyID, booking.ID).Return(booking, nil)
	collectibleRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Times(4)
	invoiceRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Times(4)
	collectibleRepo.On("SetInvoiceID", mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(4)
	bookingRepo.On("SetCollectiblesFlag", mock.Anything, tenant.CompanyID, booking.ID, true).Return(errors.New("booking gone"))

	invoiceRepo.On("Delete", mock.Anything, mock.Anything).Return(nil).Times(4)
	collectibleRepo.On("Delete", mock.Anything, mock.Anything).Return(nil).Times(4)

	_, err := svc.CreateCollectibles(context.Background(), tenant, booking.ID, monthlyConfig())

	assert.ErrorIs(t, err, customError.ErrScheduleIncomplete)
	collectibleRepo.AssertExpectations(t)
	invoiceRepo.AssertExpectations(t)
}

func TestPreviewSchedule(t *testing.T) {
	svc := newTestService(&mocks.MockBookingRepository{}, &mocks.MockCollectibleRepository{}, &mocks.MockInvoiceRepository{})

	entries, err := svc.PreviewSchedule(monthlyConfig())
	require.NoError(t, err)
	assert.Len(t, entries, 4)
	assert.True(t, schedule.Total(entries).Equal(decimal.NewFromInt(40000)))

	cfg := monthlyConfig()
	cfg.TotalMonths = -1
	_, err = svc.PreviewSchedule(cfg)
	assert.ErrorIs(t, err, customError.ErrInvalidAmount)
}

func TestListCollectibles_PagesAndCount(t *testing.T) {
	collectibleRepo := &mocks.MockCollectibleRepository{}
	svc := newTestService(&mocks.MockBookingRepository{}, collectibleRepo, &mocks.MockInvoiceRepository{})

	tenant := domain.TenantContext{CompanyID: "ACME"}
	items := make([]*domain.Collectible, 10)
	for i := range items {
		items[i] = &domain.Collectible{ID: uuid.New(), CompanyID: tenant.CompanyID}
	}

	collectibleRepo.On("List", mock.Anything, tenant.CompanyID, "", 10, pagination.Cursor("")).Return(items, pagination.Cursor("next-1"), nil).Once()
	collectibleRepo.On("Count", mock.Anything, tenant.CompanyID, "").Return(25, nil)

	result, err := svc.ListCollectibles(context.Background(), tenant, 1, 10, "")
	require.NoError(t, err)
	assert.Len(t, result.Items, 10)
	assert.Equal(t, 25, result.TotalItems)
	assert.Equal(t, 3, result.TotalPages)
	assert.True(t, result.HasMore)
	assert.Equal(t, []int{1, 2, 3}, result.Pages)

	// Second request for the same page comes from the pager cache; only the
	// count goes back to the store.
	result2, err := svc.ListCollectibles(context.Background(), tenant, 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, result.Items, result2.Items)
	collectibleRepo.AssertExpectations(t)
}

func TestListCollectibles_InvalidStatus(t *testing.T) {
	svc := newTestService(&mocks.MockBookingRepository{}, &mocks.MockCollectibleRepository{}, &mocks.MockInvoiceRepository{})

	_, err := svc.ListCollectibles(context.Background(), domain.TenantContext{CompanyID: "ACME"}, 1, 10, "archived")
	assert.ErrorIs(t, err, customError.ErrInvalidStatus)
}

func TestUpdateCollectibleStatus_InvalidatesListing(t *testing.T) {
	collectibleRepo := &mocks.MockCollectibleRepository{}
	svc := newTestService(&mocks.MockBookingRepository{}, collectibleRepo, &mocks.MockInvoiceRepository{})

	tenant := domain.TenantContext{CompanyID: "ACME"}
	items := []*domain.Collectible{{ID: uuid.New(), CompanyID: tenant.CompanyID}}

	collectibleRepo.On("List", mock.Anything, tenant.CompanyID, "", 10, pagination.Cursor("")).Return(items, pagination.Cursor(""), nil).Twice()
	collectibleRepo.On("Count", mock.Anything, tenant.CompanyID, "").Return(1, nil)

	_, err := svc.ListCollectibles(context.Background(), tenant, 1, 10, "")
	require.NoError(t, err)

	target := items[0]
	collectibleRepo.On("UpdateStatus", mock.Anything, tenant.CompanyID, target.ID, domain.CollectibleStatusPaid).Return(nil)
	collectibleRepo.On("GetByID", mock.Anything, tenant.CompanyID, target.ID).Return(target, nil)

	_, err = svc.UpdateCollectibleStatus(context.Background(), tenant, target.ID, domain.CollectibleStatusPaid)
	require.NoError(t, err)

	// The pager was dropped, so the next listing hits the store again.
	_, err = svc.ListCollectibles(context.Background(), tenant, 1, 10, "")
	require.NoError(t, err)
	collectibleRepo.AssertExpectations(t)
}

func TestUpdateCollectibleStatus_NotFound(t *testing.T) {
	collectibleRepo := &mocks.MockCollectibleRepository{}
	svc := newTestService(&mocks.MockBookingRepository{}, collectibleRepo, &mocks.MockInvoiceRepository{})

	tenant := domain.TenantContext{CompanyID: "ACME"}
	id := uuid.New()
	collectibleRepo.On("UpdateStatus", mock.Anything, tenant.CompanyID, id, domain.CollectibleStatusPaid).Return(sql.ErrNoRows)

	_, err := svc.UpdateCollectibleStatus(context.Background(), tenant, id, domain.CollectibleStatusPaid)
	assert.ErrorIs(t, err, customError.ErrCollectibleNotFound)
}

func TestMarkOverdue(t *testing.T) {
	collectibleRepo := &mocks.MockCollectibleRepository{}
	svc := newTestService(&mocks.MockBookingRepository{}, collectibleRepo, &mocks.MockInvoiceRepository{})

	now := time.Now()
	collectibleRepo.On("MarkOverdue", mock.Anything, now).Return(int64(3), nil)

	updated, err := svc.MarkOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)
}

func TestGetScheduleByBooking_NoRedis(t *testing.T) {
	collectibleRepo := &mocks.MockCollectibleRepository{}
	svc := newTestService(&mocks.MockBookingRepository{}, collectibleRepo, &mocks.MockInvoiceRepository{})

	tenant := domain.TenantContext{CompanyID: "ACME"}
	bookingID := uuid.New()
	expected := []*domain.Collectible{{ID: uuid.New(), BookingID: bookingID}}
	collectibleRepo.On("GetByBookingID", mock.Anything, tenant.CompanyID, bookingID).Return(expected, nil)

	got, err := svc.GetScheduleByBooking(context.Background(), tenant, bookingID)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}
