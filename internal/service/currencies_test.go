package service

import (
	"context"
	"testing"

	"github.com/currencydesk/currency-orders/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUpdateFieldRejectsUnknownFieldBeforeStore(t *testing.T) {
	store := newFakeCurrencyStore(models.Currency{Code: "USD", ExchangeRate: mustDecimal("0.09"), IsActive: true})
	svc := NewCurrencyService(store, "ZAR", zap.NewNop())

	_, err := svc.UpdateField(context.Background(), "USD", "code", "EUR")
	assert.ErrorIs(t, err, models.ErrInvalidField)
	assert.Zero(t, store.updateCalls, "invalid field must never reach the store")
}

func TestUpdateFieldParsesValues(t *testing.T) {
	store := newFakeCurrencyStore(models.Currency{Code: "USD", ExchangeRate: mustDecimal("0.09"), IsActive: true})
	svc := NewCurrencyService(store, "ZAR", zap.NewNop())

	currency, err := svc.UpdateField(context.Background(), "USD", "surcharge_percentage", "7.5")
	require.NoError(t, err)
	assert.Equal(t, "7.5", currency.SurchargePercentage.String())

	currency, err = svc.UpdateField(context.Background(), "USD", "send_order_email", "true")
	require.NoError(t, err)
	assert.True(t, currency.SendOrderEmail)

	currency, err = svc.UpdateField(context.Background(), "USD", "is_active", "false")
	require.NoError(t, err)
	assert.False(t, currency.IsActive)
}

func TestUpdateFieldRejectsBadValues(t *testing.T) {
	store := newFakeCurrencyStore(models.Currency{Code: "USD", ExchangeRate: mustDecimal("0.09"), IsActive: true})
	svc := NewCurrencyService(store, "ZAR", zap.NewNop())

	_, err := svc.UpdateField(context.Background(), "USD", "exchange_rate", "not-a-number")
	assert.ErrorIs(t, err, models.ErrInvalidField)

	_, err = svc.UpdateField(context.Background(), "USD", "is_active", "maybe")
	assert.ErrorIs(t, err, models.ErrInvalidField)
}

func TestUpdateFieldUnknownCurrency(t *testing.T) {
	svc := NewCurrencyService(newFakeCurrencyStore(), "ZAR", zap.NewNop())

	_, err := svc.UpdateField(context.Background(), "JPY", "exchange_rate", "0.005")
	assert.ErrorIs(t, err, models.ErrCurrencyNotFound)
}

func TestSetActiveAndSendOrderEmail(t *testing.T) {
	store := newFakeCurrencyStore(models.Currency{Code: "USD", ExchangeRate: mustDecimal("0.09"), IsActive: true})
	svc := NewCurrencyService(store, "ZAR", zap.NewNop())

	currency, err := svc.SetActive(context.Background(), "USD", false)
	require.NoError(t, err)
	assert.False(t, currency.IsActive)

	currency, err = svc.SetSendOrderEmail(context.Background(), "USD", true)
	require.NoError(t, err)
	assert.True(t, currency.SendOrderEmail)
}

func TestSourceCurrency(t *testing.T) {
	svc := NewCurrencyService(newFakeCurrencyStore(), "ZAR", zap.NewNop())
	assert.Equal(t, "ZAR", svc.SourceCurrency())
}
