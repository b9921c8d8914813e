package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/currencydesk/currency-orders/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id, user_id, foreign_currency_id, originating_currency, exchange_rate, surcharge_percentage, special_discount_percentage, foreign_amount, originating_amount, surcharge_amount, special_discount_amount, total_amount, created_at, deleted_at`

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	query := `
		INSERT INTO orders (id, user_id, foreign_currency_id, originating_currency, exchange_rate, surcharge_percentage, special_discount_percentage, foreign_amount, originating_amount, surcharge_amount, special_discount_amount, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		o.ID, o.UserID, o.ForeignCurrencyID, o.OriginatingCurrency,
		o.ExchangeRate, o.SurchargePercentage, o.SpecialDiscountPercentage,
		o.ForeignAmount, o.OriginatingAmount, o.SurchargeAmount, o.SpecialDiscountAmount, o.TotalAmount,
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	o, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return o, nil
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE deleted_at IS NULL ORDER BY created_at DESC`)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`, userID)
}

func (r *OrderRepository) ListByCurrency(ctx context.Context, currencyID uuid.UUID) ([]models.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE foreign_currency_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`, currencyID)
}

// SoftDelete marks the order deleted. The row is never physically removed.
func (r *OrderRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	o := &models.Order{}
	err := row.Scan(&o.ID, &o.UserID, &o.ForeignCurrencyID, &o.OriginatingCurrency,
		&o.ExchangeRate, &o.SurchargePercentage, &o.SpecialDiscountPercentage,
		&o.ForeignAmount, &o.OriginatingAmount, &o.SurchargeAmount, &o.SpecialDiscountAmount, &o.TotalAmount,
		&o.CreatedAt, &o.DeletedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}
