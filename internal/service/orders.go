package service

import (
	"context"

	"github.com/currencydesk/currency-orders/internal/models"
	"github.com/currencydesk/currency-orders/internal/notify"
	"github.com/currencydesk/currency-orders/internal/observability"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService prices and persists conversion orders.
type OrderService struct {
	currencies      CurrencyStore
	orders          OrderStore
	notifier        notify.Notifier
	notifyTo        string
	originatingCode string
	logger          *zap.Logger
}

func NewOrderService(currencies CurrencyStore, orders OrderStore, notifier notify.Notifier, notifyTo, originatingCode string, logger *zap.Logger) *OrderService {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &OrderService{
		currencies:      currencies,
		orders:          orders,
		notifier:        notifier,
		notifyTo:        notifyTo,
		originatingCode: originatingCode,
		logger:          logger,
	}
}

// CreateOrderInput carries the caller-supplied order fields. Exactly one of
// ForeignAmount/OriginatingAmount must be set.
type CreateOrderInput struct {
	UserID            uuid.UUID
	ForeignCurrencyID uuid.UUID
	ForeignAmount     *decimal.Decimal
	OriginatingAmount *decimal.Decimal
}

// CreateOrder reads the currency snapshot, prices the request, persists the
// order and fires the best-effort placed notification.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	currency, err := s.currencies.FindByID(ctx, in.ForeignCurrencyID)
	if err != nil {
		return nil, err
	}

	breakdown, err := Price(currency, s.originatingCode, in.ForeignAmount, in.OriginatingAmount)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:                        uuid.New(),
		UserID:                    in.UserID,
		ForeignCurrencyID:         currency.ID,
		OriginatingCurrency:       breakdown.OriginatingCurrency,
		ExchangeRate:              breakdown.ExchangeRate,
		SurchargePercentage:       breakdown.SurchargePercentage,
		SpecialDiscountPercentage: breakdown.SpecialDiscountPercentage,
		ForeignAmount:             breakdown.ForeignAmount,
		OriginatingAmount:         breakdown.OriginatingAmount,
		SurchargeAmount:           breakdown.SurchargeAmount,
		SpecialDiscountAmount:     breakdown.SpecialDiscountAmount,
		TotalAmount:               breakdown.TotalAmount,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	observability.IncrementOrderCreated(currency.Code)
	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("currency", currency.Code),
		zap.String("total", order.TotalAmount.StringFixed(2)),
	)

	// Fire-and-forget: a notification failure never fails the order.
	if s.notifyTo != "" && currency.SendOrderEmail {
		if err := s.notifier.OrderPlaced(ctx, order, currency); err != nil {
			observability.IncrementNotification("failed")
			s.logger.Warn("order notification failed", zap.String("order_id", order.ID.String()), zap.Error(err))
		} else {
			observability.IncrementNotification("sent")
		}
	}

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Order, error) {
	return s.orders.FindByID(ctx, id, includeDeleted)
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListAll(ctx)
}

func (s *OrderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) ListOrdersByCurrency(ctx context.Context, currencyID uuid.UUID) ([]models.Order, error) {
	return s.orders.ListByCurrency(ctx, currencyID)
}

// DeleteOrder soft-deletes an order; it stays retrievable with includeDeleted.
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return s.orders.SoftDelete(ctx, id)
}
