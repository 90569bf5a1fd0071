package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oohworks/treasury-engine/internal/domain"
	"github.com/oohworks/treasury-engine/internal/pagination"
)

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	// Create creates a new booking
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking scoped to a company
	GetByID(ctx context.Context, companyID string, id uuid.UUID) (*domain.Booking, error)

	// SetCollectiblesFlag marks whether collectibles were generated for a booking
	SetCollectiblesFlag(ctx context.Context, companyID string, id uuid.UUID, generated bool) error

	// List returns one page of bookings and the cursor for the next page
	List(ctx context.Context, companyID string, limit int, after pagination.Cursor) ([]*domain.Booking, pagination.Cursor, error)

	// Count returns the total booking count for a company
	Count(ctx context.Context, companyID string) (int, error)
}

// CollectibleRepository defines the interface for collectible data operations
type CollectibleRepository interface {
	// Create creates a new collectible record
	Create(ctx context.Context, collectible *domain.Collectible) error

	// GetByID retrieves a collectible scoped to a company
	GetByID(ctx context.Context, companyID string, id uuid.UUID) (*domain.Collectible, error)

	// SetInvoiceID back-patches the invoice reference onto a collectible
	SetInvoiceID(ctx context.Context, id uuid.UUID, invoiceID uuid.UUID) error

	// UpdateStatus transitions a collectible's status
	UpdateStatus(ctx context.Context, companyID string, id uuid.UUID, status string) error

	// Delete removes a collectible; deleting a missing row is not an error
	Delete(ctx context.Context, id uuid.UUID) error

	// GetByBookingID returns all collectibles of a booking ordered by due date
	GetByBookingID(ctx context.Context, companyID string, bookingID uuid.UUID) ([]*domain.Collectible, error)

	// List returns one page of collectibles filtered by optional status
	List(ctx context.Context, companyID, status string, limit int, after pagination.Cursor) ([]*domain.Collectible, pagination.Cursor, error)

	// Count returns the collectible count for a company and optional status
	Count(ctx context.Context, companyID, status string) (int, error)

	// MarkOverdue flips pending collectibles past their due date to overdue
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// Create creates a new invoice record
	Create(ctx context.Context, invoice *domain.Invoice) error

	// Delete removes an invoice; deleting a missing row is not an error
	Delete(ctx context.Context, id uuid.UUID) error

	// GetByCollectibleID retrieves the invoice paired with a collectible
	GetByCollectibleID(ctx context.Context, companyID string, collectibleID uuid.UUID) (*domain.Invoice, error)
}
