package service

import (
	"context"
	"errors"
	"strings"

	"github.com/currencydesk/currency-orders/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeCurrencyStore is an in-memory CurrencyStore keyed by code.
type fakeCurrencyStore struct {
	byCode      map[string]*models.Currency
	upserts     []models.Currency
	updateCalls int
	failUpsert  map[string]error
}

func newFakeCurrencyStore(currencies ...models.Currency) *fakeCurrencyStore {
	s := &fakeCurrencyStore{byCode: map[string]*models.Currency{}}
	for i := range currencies {
		c := currencies[i]
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		s.byCode[c.Code] = &c
	}
	return s
}

func (s *fakeCurrencyStore) FindByCode(ctx context.Context, code string) (*models.Currency, error) {
	if c, ok := s.byCode[code]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, models.ErrCurrencyNotFound
}

func (s *fakeCurrencyStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Currency, error) {
	for _, c := range s.byCode {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, models.ErrCurrencyNotFound
}

func (s *fakeCurrencyStore) Upsert(ctx context.Context, c *models.Currency) error {
	if err, ok := s.failUpsert[c.Code]; ok {
		return err
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	copied := *c
	s.byCode[c.Code] = &copied
	s.upserts = append(s.upserts, copied)
	return nil
}

func (s *fakeCurrencyStore) ListAll(ctx context.Context) ([]models.Currency, error) {
	var out []models.Currency
	for _, c := range s.byCode {
		out = append(out, *c)
	}
	return out, nil
}

func (s *fakeCurrencyStore) ListActive(ctx context.Context) ([]models.Currency, error) {
	var out []models.Currency
	for _, c := range s.byCode {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeCurrencyStore) ListInactive(ctx context.Context) ([]models.Currency, error) {
	var out []models.Currency
	for _, c := range s.byCode {
		if !c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeCurrencyStore) UpdateField(ctx context.Context, code, field string, value any) (*models.Currency, error) {
	s.updateCalls++
	c, ok := s.byCode[code]
	if !ok {
		return nil, models.ErrCurrencyNotFound
	}
	switch field {
	case "exchange_rate":
		c.ExchangeRate = value.(decimal.Decimal)
	case "surcharge_percentage":
		c.SurchargePercentage = value.(decimal.Decimal)
	case "special_discount_percentage":
		c.SpecialDiscountPercentage = value.(decimal.Decimal)
	case "send_order_email":
		c.SendOrderEmail = value.(bool)
	case "is_active":
		c.IsActive = value.(bool)
	default:
		return nil, models.ErrInvalidField
	}
	copied := *c
	return &copied, nil
}

// fakeOrderStore records created orders in memory.
type fakeOrderStore struct {
	orders     []models.Order
	failCreate error
}

func (s *fakeOrderStore) Create(ctx context.Context, o *models.Order) error {
	if s.failCreate != nil {
		return s.failCreate
	}
	s.orders = append(s.orders, *o)
	return nil
}

func (s *fakeOrderStore) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Order, error) {
	for i := range s.orders {
		if s.orders[i].ID == id {
			if s.orders[i].DeletedAt != nil && !includeDeleted {
				return nil, models.ErrOrderNotFound
			}
			copied := s.orders[i]
			return &copied, nil
		}
	}
	return nil, models.ErrOrderNotFound
}

func (s *fakeOrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.DeletedAt == nil {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID && o.DeletedAt == nil {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) ListByCurrency(ctx context.Context, currencyID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.ForeignCurrencyID == currencyID && o.DeletedAt == nil {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	for i := range s.orders {
		if s.orders[i].ID == id && s.orders[i].DeletedAt == nil {
			now := nowUTC()
			s.orders[i].DeletedAt = &now
			return nil
		}
	}
	return models.ErrOrderNotFound
}

// fakeFetcher serves a static quote map or a fixed error.
type fakeFetcher struct {
	quotes map[string]decimal.Decimal
	err    error
	calls  int
}

func (f *fakeFetcher) FetchQuotes(ctx context.Context) (map[string]decimal.Decimal, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

// fakeNotifier records notifications and optionally fails.
type fakeNotifier struct {
	sent []uuid.UUID
	err  error
}

func (n *fakeNotifier) OrderPlaced(ctx context.Context, order *models.Order, currency *models.Currency) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, order.ID)
	return nil
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		panic(err)
	}
	return d
}

var errStoreDown = errors.New("store unavailable")
