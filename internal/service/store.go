package service

import (
	"context"

	"github.com/currencydesk/currency-orders/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrencyStore is the data access contract the services need for currencies.
type CurrencyStore interface {
	FindByCode(ctx context.Context, code string) (*models.Currency, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Currency, error)
	Upsert(ctx context.Context, c *models.Currency) error
	ListAll(ctx context.Context) ([]models.Currency, error)
	ListActive(ctx context.Context) ([]models.Currency, error)
	ListInactive(ctx context.Context) ([]models.Currency, error)
	UpdateField(ctx context.Context, code, field string, value any) (*models.Currency, error)
}

// OrderStore is the data access contract the services need for orders.
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListByCurrency(ctx context.Context, currencyID uuid.UUID) ([]models.Order, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// QuoteFetcher fetches the composite-keyed quote map from the provider.
type QuoteFetcher interface {
	FetchQuotes(ctx context.Context) (map[string]decimal.Decimal, error)
}
