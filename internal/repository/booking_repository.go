package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/oohworks/treasury-engine/internal/domain"
	"github.com/oohworks/treasury-engine/internal/pagination"
	customError "github.com/oohworks/treasury-engine/pkg/errors"
)

type bookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (
			id, company_id, product_id, product_owner,
			client_id, client_name, client_company_name, client_company_id,
			project_name, reservation_id, start_date, end_date,
			price_per_month, contract_pdf_url, is_collectibles, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.CompanyID,
		booking.ProductID,
		booking.ProductOwner,
		booking.ClientID,
		booking.ClientName,
		booking.ClientCompanyName,
		booking.ClientCompanyID,
		booking.ProjectName,
		booking.ReservationID,
		booking.StartDate,
		booking.EndDate,
		booking.PricePerMonth,
		booking.ContractPDFURL,
		booking.IsCollectibles,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	return err
}

func (r *bookingRepository) GetByID(ctx context.Context, companyID string, id uuid.UUID) (*domain.Booking, error) {
	query := `
		SELECT id, company_id, product_id, product_owner,
		       client_id, client_name, client_company_name, client_company_id,
		       project_name, reservation_id, start_date, end_date,
		       price_per_month, contract_pdf_url, is_collectibles, created_at, updated_at
		FROM bookings
		WHERE company_id = $1 AND id = $2
	`

	var booking domain.Booking
	err := r.db.GetContext(ctx, &booking, query, companyID, id)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *bookingRepository) SetCollectiblesFlag(ctx context.Context, companyID string, id uuid.UUID, generated bool) error {
	query := `
		UPDATE bookings
		SET is_collectibles = $3, updated_at = NOW()
		WHERE company_id = $1 AND id = $2
	`

	_, err := r.db.ExecContext(ctx, query, companyID, id, generated)
	return err
}

func (r *bookingRepository) List(ctx context.Context, companyID string, limit int, after pagination.Cursor) ([]*domain.Booking, pagination.Cursor, error) {
	afterTime, afterID, err := decodeCursor(after)
	if err != nil {
		return nil, "", customError.WrapInvalidCursor(err)
	}

	query := `
		SELECT id, company_id, product_id, product_owner,
		       client_id, client_name, client_company_name, client_company_id,
		       project_name, reservation_id, start_date, end_date,
		       price_per_month, contract_pdf_url, is_collectibles, created_at, updated_at
		FROM bookings
		WHERE company_id = $1 AND (created_at, id) > ($2, $3)
		ORDER BY created_at, id
		LIMIT $4
	`

	bookings := []*domain.Booking{}
	err = r.db.SelectContext(ctx, &bookings, query, companyID, afterTime, afterID, limit)
	if err != nil {
		return nil, "", err
	}

	var next pagination.Cursor
	if len(bookings) == limit {
		last := bookings[len(bookings)-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}

	return bookings, next, nil
}

func (r *bookingRepository) Count(ctx context.Context, companyID string) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE company_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, companyID)
	return count, err
}
