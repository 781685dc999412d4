package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/purchase_service_app/internal/apperrors"
	"github.com/SscSPs/purchase_service_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPurchaseRepository implements the ports.PurchaseRepository interface using pgxpool.
type PgxPurchaseRepository struct {
	db *pgxpool.Pool
}

// NewPurchaseRepository creates a new PgxPurchaseRepository.
func NewPurchaseRepository(db *pgxpool.Pool) *PgxPurchaseRepository {
	return &PgxPurchaseRepository{db: db}
}

// CreatePurchase inserts a new purchase into the database.
func (r *PgxPurchaseRepository) CreatePurchase(ctx context.Context, purchase domain.Purchase) error {
	query := `
		INSERT INTO purchases (
			purchase_id, description, transaction_date, amount_usd, created_at
		) VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		purchase.PurchaseID, purchase.Description, purchase.TransactionDate,
		purchase.AmountUSD, purchase.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting purchase: %w", err)
	}
	return nil
}

// FindPurchaseByID retrieves a purchase by its ID.
func (r *PgxPurchaseRepository) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	query := `
		SELECT purchase_id, description, transaction_date, amount_usd, created_at
		FROM purchases
		WHERE purchase_id = $1
	`
	purchase := &domain.Purchase{}
	err := r.db.QueryRow(ctx, query, purchaseID).Scan(
		&purchase.PurchaseID, &purchase.Description, &purchase.TransactionDate,
		&purchase.AmountUSD, &purchase.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding purchase: %w", err)
	}
	// transaction_date is a DATE column; normalize to UTC midnight so the
	// staleness window arithmetic is location-independent.
	purchase.TransactionDate = purchase.TransactionDate.UTC()
	purchase.CreatedAt = purchase.CreatedAt.UTC()
	return purchase, nil
}
