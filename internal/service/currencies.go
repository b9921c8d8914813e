package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/currencydesk/currency-orders/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CurrencyService exposes operator-facing reads and field-level edits.
type CurrencyService struct {
	currencies CurrencyStore
	source     string
	logger     *zap.Logger
}

func NewCurrencyService(currencies CurrencyStore, source string, logger *zap.Logger) *CurrencyService {
	return &CurrencyService{currencies: currencies, source: source, logger: logger}
}

func (s *CurrencyService) Get(ctx context.Context, code string) (*models.Currency, error) {
	return s.currencies.FindByCode(ctx, code)
}

func (s *CurrencyService) ListAll(ctx context.Context) ([]models.Currency, error) {
	return s.currencies.ListAll(ctx)
}

func (s *CurrencyService) ListActive(ctx context.Context) ([]models.Currency, error) {
	return s.currencies.ListActive(ctx)
}

func (s *CurrencyService) ListInactive(ctx context.Context) ([]models.Currency, error) {
	return s.currencies.ListInactive(ctx)
}

// SourceCurrency returns the configured home currency code.
func (s *CurrencyService) SourceCurrency() string {
	return s.source
}

// UpdateField parses a raw value for one allow-listed field and applies it.
// Field names outside the allow-list fail with models.ErrInvalidField before
// any store call.
func (s *CurrencyService) UpdateField(ctx context.Context, code, field, rawValue string) (*models.Currency, error) {
	value, err := parseFieldValue(field, rawValue)
	if err != nil {
		return nil, err
	}

	currency, err := s.currencies.UpdateField(ctx, code, field, value)
	if err != nil {
		return nil, err
	}
	s.logger.Info("currency field updated", zap.String("currency", code), zap.String("field", field))
	return currency, nil
}

// SetActive toggles the is_active flag on a currency.
func (s *CurrencyService) SetActive(ctx context.Context, code string, active bool) (*models.Currency, error) {
	return s.currencies.UpdateField(ctx, code, "is_active", active)
}

// SetSendOrderEmail toggles order-placed notifications for a currency.
func (s *CurrencyService) SetSendOrderEmail(ctx context.Context, code string, enabled bool) (*models.Currency, error) {
	return s.currencies.UpdateField(ctx, code, "send_order_email", enabled)
}

func parseFieldValue(field, rawValue string) (any, error) {
	switch field {
	case "exchange_rate", "surcharge_percentage", "special_discount_percentage":
		d, err := decimal.NewFromString(strings.TrimSpace(rawValue))
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects a decimal value", models.ErrInvalidField, field)
		}
		return d, nil
	case "send_order_email", "is_active":
		b, err := strconv.ParseBool(strings.TrimSpace(rawValue))
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects a boolean value", models.ErrInvalidField, field)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidField, field)
	}
}
