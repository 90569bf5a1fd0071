package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/oohworks/treasury-engine/internal/domain"
	"github.com/oohworks/treasury-engine/internal/pagination"
	customError "github.com/oohworks/treasury-engine/pkg/errors"
)

type collectibleRepository struct {
	db *sqlx.DB
}

func NewCollectibleRepository(db *sqlx.DB) CollectibleRepository {
	return &collectibleRepository{db: db}
}

const collectibleColumns = `
	id, company_id, booking_id, product_id, product_owner,
	client_id, client_name, client_company_name, client_company_id,
	project_name, reservation_id, amount, vat_amount, with_holding_tax,
	due_date, period, status, invoice_id, created_at`

func (r *collectibleRepository) Create(ctx context.Context, collectible *domain.Collectible) error {
	query := `
		INSERT INTO collectibles (` + collectibleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.db.ExecContext(ctx, query,
		collectible.ID,
		collectible.CompanyID,
		collectible.BookingID,
		collectible.ProductID,
		collectible.ProductOwner,
		collectible.ClientID,
		collectible.ClientName,
		collectible.ClientCompanyName,
		collectible.ClientCompanyID,
		collectible.ProjectName,
		collectible.ReservationID,
		collectible.Amount,
		collectible.VATAmount,
		collectible.WithHoldingTax,
		collectible.DueDate,
		collectible.Period,
		collectible.Status,
		collectible.InvoiceID,
		collectible.CreatedAt,
	)

	return err
}

func (r *collectibleRepository) GetByID(ctx context.Context, companyID string, id uuid.UUID) (*domain.Collectible, error) {
	query := `
		SELECT ` + collectibleColumns + `
		FROM collectibles
		WHERE company_id = $1 AND id = $2
	`

	var collectible domain.Collectible
	err := r.db.GetContext(ctx, &collectible, query, companyID, id)
	if err != nil {
		return nil, err
	}

	return &collectible, nil
}

func (r *collectibleRepository) SetInvoiceID(ctx context.Context, id uuid.UUID, invoiceID uuid.UUID) error {
	query := `
		UPDATE collectibles
		SET invoice_id = $2
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, invoiceID)
	return err
}

func (r *collectibleRepository) UpdateStatus(ctx context.Context, companyID string, id uuid.UUID, status string) error {
	query := `
		UPDATE collectibles
		SET status = $3
		WHERE company_id = $1 AND id = $2
	`

	res, err := r.db.ExecContext(ctx, query, companyID, id, status)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *collectibleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM collectibles WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *collectibleRepository) GetByBookingID(ctx context.Context, companyID string, bookingID uuid.UUID) ([]*domain.Collectible, error) {
	query := `
		SELECT ` + collectibleColumns + `
		FROM collectibles
		WHERE company_id = $1 AND booking_id = $2
		ORDER BY due_date, created_at
	`

	collectibles := []*domain.Collectible{}
	err := r.db.SelectContext(ctx, &collectibles, query, companyID, bookingID)
	if err != nil {
		return nil, err
	}

	return collectibles, nil
}

func (r *collectibleRepository) List(ctx context.Context, companyID, status string, limit int, after pagination.Cursor) ([]*domain.Collectible, pagination.Cursor, error) {
	afterTime, afterID, err := decodeCursor(after)
	if err != nil {
		return nil, "", customError.WrapInvalidCursor(err)
	}

	query := `
		SELECT ` + collectibleColumns + `
		FROM collectibles
		WHERE company_id = $1
		  AND ($2 = '' OR status = $2)
		  AND (created_at, id) > ($3, $4)
		ORDER BY created_at, id
		LIMIT $5
	`

	collectibles := []*domain.Collectible{}
	err = r.db.SelectContext(ctx, &collectibles, query, companyID, status, afterTime, afterID, limit)
	if err != nil {
		return nil, "", err
	}

	var next pagination.Cursor
	if len(collectibles) == limit {
		last := collectibles[len(collectibles)-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}

	return collectibles, next, nil
}

func (r *collectibleRepository) Count(ctx context.Context, companyID, status string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM collectibles
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, companyID, status)
	return count, err
}

func (r *collectibleRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE collectibles
		SET status = $1
		WHERE status = $2 AND due_date < $3
	`

	res, err := r.db.ExecContext(ctx, query, domain.CollectibleStatusOverdue, domain.CollectibleStatusPending, now)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
