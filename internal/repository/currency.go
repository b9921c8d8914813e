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

const currencyColumns = `id, currency, exchange_rate, surcharge_percentage, special_discount_percentage, send_order_email, is_active, created_at, updated_at`

// updatableCurrencyFields is the allow-list of operator-editable columns.
// Anything else is rejected before any SQL runs.
var updatableCurrencyFields = map[string]struct{}{
	"exchange_rate":               {},
	"surcharge_percentage":        {},
	"special_discount_percentage": {},
	"send_order_email":            {},
	"is_active":                   {},
}

type CurrencyRepository struct {
	db *pgxpool.Pool
}

func NewCurrencyRepository(db *pgxpool.Pool) *CurrencyRepository {
	return &CurrencyRepository{db: db}
}

func (r *CurrencyRepository) FindByCode(ctx context.Context, code string) (*models.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency = $1`
	c, err := scanCurrency(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrCurrencyNotFound
		}
		return nil, fmt.Errorf("failed to get currency %s: %w", code, err)
	}
	return c, nil
}

func (r *CurrencyRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE id = $1`
	c, err := scanCurrency(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrCurrencyNotFound
		}
		return nil, fmt.Errorf("failed to get currency %s: %w", id, err)
	}
	return c, nil
}

// Upsert writes the full currency row, inserting it if the code is new.
// Merge policy (which fields an incoming quote may change) lives in the
// service layer; at row level the last write wins.
func (r *CurrencyRepository) Upsert(ctx context.Context, c *models.Currency) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	query := `
		INSERT INTO currencies (id, currency, exchange_rate, surcharge_percentage, special_discount_percentage, send_order_email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (currency) DO UPDATE SET
			exchange_rate = EXCLUDED.exchange_rate,
			surcharge_percentage = EXCLUDED.surcharge_percentage,
			special_discount_percentage = EXCLUDED.special_discount_percentage,
			send_order_email = EXCLUDED.send_order_email,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		c.ID, c.Code, c.ExchangeRate, c.SurchargePercentage, c.SpecialDiscountPercentage, c.SendOrderEmail, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert currency %s: %w", c.Code, err)
	}
	return nil
}

func (r *CurrencyRepository) ListAll(ctx context.Context) ([]models.Currency, error) {
	return r.list(ctx, `SELECT `+currencyColumns+` FROM currencies ORDER BY currency`)
}

func (r *CurrencyRepository) ListActive(ctx context.Context) ([]models.Currency, error) {
	return r.list(ctx, `SELECT `+currencyColumns+` FROM currencies WHERE is_active ORDER BY currency`)
}

func (r *CurrencyRepository) ListInactive(ctx context.Context) ([]models.Currency, error) {
	return r.list(ctx, `SELECT `+currencyColumns+` FROM currencies WHERE NOT is_active ORDER BY currency`)
}

// UpdateField sets a single allow-listed column on a currency row.
func (r *CurrencyRepository) UpdateField(ctx context.Context, code, field string, value any) (*models.Currency, error) {
	if _, ok := updatableCurrencyFields[field]; !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidField, field)
	}
	// field is allow-listed above, so interpolating it is safe.
	query := fmt.Sprintf(`UPDATE currencies SET %s = $1, updated_at = NOW() WHERE currency = $2 RETURNING `+currencyColumns, field)
	c, err := scanCurrency(r.db.QueryRow(ctx, query, value, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrCurrencyNotFound
		}
		return nil, fmt.Errorf("failed to update currency %s.%s: %w", code, field, err)
	}
	return c, nil
}

func (r *CurrencyRepository) list(ctx context.Context, query string) ([]models.Currency, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	var currencies []models.Currency
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, *c)
	}
	return currencies, rows.Err()
}

func scanCurrency(row pgx.Row) (*models.Currency, error) {
	c := &models.Currency{}
	err := row.Scan(&c.ID, &c.Code, &c.ExchangeRate, &c.SurchargePercentage, &c.SpecialDiscountPercentage,
		&c.SendOrderEmail, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}
