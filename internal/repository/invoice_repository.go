package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/oohworks/treasury-engine/internal/domain"
)

type invoiceRepository struct {
	db *sqlx.DB
}

func NewInvoiceRepository(db *sqlx.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

const invoiceColumns = `
	id, company_id, collectible_id, booking_id, product_id, product_owner,
	client_id, client_name, client_company_name, client_company_id,
	project_name, reservation_id, amount, vat_amount, with_holding_tax,
	due_date, period, status, contract_pdf_url, created_at`

func (r *invoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := r.db.ExecContext(ctx, query,
		invoice.ID,
		invoice.CompanyID,
		invoice.CollectibleID,
		invoice.BookingID,
		invoice.ProductID,
		invoice.ProductOwner,
		invoice.ClientID,
		invoice.ClientName,
		invoice.ClientCompanyName,
		invoice.ClientCompanyID,
		invoice.ProjectName,
		invoice.ReservationID,
		invoice.Amount,
		invoice.VATAmount,
		invoice.WithHoldingTax,
		invoice.DueDate,
		invoice.Period,
		invoice.Status,
		invoice.ContractPDFURL,
		invoice.CreatedAt,
	)

	return err
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM invoices WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *invoiceRepository) GetByCollectibleID(ctx context.Context, companyID string, collectibleID uuid.UUID) (*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE company_id = $1 AND collectible_id = $2
	`

	var invoice domain.Invoice
	err := r.db.GetContext(ctx, &invoice, query, companyID, collectibleID)
	if err != nil {
		return nil, err
	}

	return &invoice, nil
}
