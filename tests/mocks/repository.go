package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/oohworks/treasury-engine/internal/domain"
	"github.com/oohworks/treasury-engine/internal/pagination"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, companyID string, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) SetCollectiblesFlag(ctx context.Context, companyID string, id uuid.UUID, generated bool) error {
	args := m.Called(ctx, companyID, id, generated)
	return args.Error(0)
}

func (m *MockBookingRepository) List(ctx context.Context, companyID string, limit int, after pagination.Cursor) ([]*domain.Booking, pagination.Cursor, error) {
	args := m.Called(ctx, companyID, limit, after)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]*domain.Booking), args.Get(1).(pagination.Cursor), args.Error(2)
}

func (m *MockBookingRepository) Count(ctx context.Context, companyID string) (int, error) {
	args := m.Called(ctx, companyID)
	return args.Int(0), args.Error(1)
}

type MockCollectibleRepository struct {
	mock.Mock
}

func (m *MockCollectibleRepository) Create(ctx context.Context, collectible *domain.Collectible) error {
	args := m.Called(ctx, collectible)
	return args.Error(0)
}

func (m *MockCollectibleRepository) GetByID(ctx context.Context, companyID string, id uuid.UUID) (*domain.Collectible, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collectible), args.Error(1)
}

func (m *MockCollectibleRepository) SetInvoiceID(ctx context.Context, id uuid.UUID, invoiceID uuid.UUID) error {
	args := m.Called(ctx, id, invoiceID)
	return args.Error(0)
}

func (m *MockCollectibleRepository) UpdateStatus(ctx context.Context, companyID string, id uuid.UUID, status string) error {
	args := m.Called(ctx, companyID, id, status)
	return args.Error(0)
}

func (m *MockCollectibleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCollectibleRepository) GetByBookingID(ctx context.Context, companyID string, bookingID uuid.UUID) ([]*domain.Collectible, error) {
	args := m.Called(ctx, companyID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Collectible), args.Error(1)
}

func (m *MockCollectibleRepository) List(ctx context.Context, companyID, status string, limit int, after pagination.Cursor) ([]*domain.Collectible, pagination.Cursor, error) {
	args := m.Called(ctx, companyID, status, limit, after)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]*domain.Collectible), args.Get(1).(pagination.Cursor), args.Error(2)
}

func (m *MockCollectibleRepository) Count(ctx context.Context, companyID, status string) (int, error) {
	args := m.Called(ctx, companyID, status)
	return args.Int(0), args.Error(1)
}

func (m *MockCollectibleRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByCollectibleID(ctx context.Context, companyID string, collectibleID uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, collectibleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
