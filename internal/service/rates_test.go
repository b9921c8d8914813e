package service

import (
	"context"
	"testing"

	"github.com/currencydesk/currency-orders/internal/models"
	"github.com/currencydesk/currency-orders/internal/rates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRateService(fetcher *fakeFetcher, store *fakeCurrencyStore) *RateService {
	return NewRateService(fetcher, rates.NewCache(nil, 0, zap.NewNop()), store, "ZAR", zap.NewNop())
}

func TestMergeQuoteNewCurrencyGetsDefaults(t *testing.T) {
	merged := MergeQuote(nil, "USD", mustDecimal("0.09"))

	assert.Equal(t, "USD", merged.Code)
	assert.Equal(t, "0.09", merged.ExchangeRate.String())
	assert.True(t, merged.SurchargePercentage.IsZero())
	assert.True(t, merged.SpecialDiscountPercentage.IsZero())
	assert.False(t, merged.SendOrderEmail)
	assert.True(t, merged.IsActive)
}

func TestMergeQuoteExistingCurrencyKeepsOperatorFields(t *testing.T) {
	existing := &models.Currency{
		Code:                      "USD",
		ExchangeRate:              mustDecimal("0.10"),
		SurchargePercentage:       mustDecimal("7.5"),
		SpecialDiscountPercentage: mustDecimal("1.25"),
		SendOrderEmail:            true,
		IsActive:                  false,
	}

	merged := MergeQuote(existing, "USD", mustDecimal("0.09"))

	assert.Equal(t, "0.09", merged.ExchangeRate.String())
	assert.Equal(t, "7.5", merged.SurchargePercentage.String())
	assert.Equal(t, "1.25", merged.SpecialDiscountPercentage.String())
	assert.True(t, merged.SendOrderEmail)
	assert.False(t, merged.IsActive)
}

func TestReconcileCreatesAndUpdates(t *testing.T) {
	store := newFakeCurrencyStore(models.Currency{
		Code:                "USD",
		ExchangeRate:        mustDecimal("0.10"),
		SurchargePercentage: mustDecimal("7.5"),
		SendOrderEmail:      false,
		IsActive:            true,
	})
	svc := newRateService(&fakeFetcher{}, store)

	quotes := map[string]decimal.Decimal{
		"ZARUSD": mustDecimal("0.09"),
		"ZAREUR": mustDecimal("0.0718710"),
	}
	result, err := svc.Reconcile(context.Background(), quotes, "ZAR")
	require.NoError(t, err)

	assert.Equal(t, 2, result.UpdatedCount)
	assert.Empty(t, result.Errs)

	usd, err := store.FindByCode(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, "0.09", usd.ExchangeRate.String())
	assert.Equal(t, "7.5", usd.SurchargePercentage.String(), "refresh must not reset operator fields")
	assert.True(t, usd.IsActive)

	eur, err := store.FindByCode(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Equal(t, "0.071871", eur.ExchangeRate.String())
	assert.True(t, eur.SurchargePercentage.IsZero())
	assert.True(t, eur.IsActive)
	assert.False(t, eur.SendOrderEmail)
}

func TestReconcileStripsSourcePrefixOnly(t *testing.T) {
	store := newFakeCurrencyStore()
	svc := newRateService(&fakeFetcher{}, store)

	quotes := map[string]decimal.Decimal{
		"ZARGBP": mustDecimal("0.05"),
		// No source prefix: passes through unchanged, by design.
		"GBPUSD": mustDecimal("1.30"),
	}
	result, err := svc.Reconcile(context.Background(), quotes, "ZAR")
	require.NoError(t, err)
	assert.Equal(t, 2, result.UpdatedCount)

	_, err = store.FindByCode(context.Background(), "GBP")
	assert.NoError(t, err)
	_, err = store.FindByCode(context.Background(), "GBPUSD")
	assert.NoError(t, err)
}

func TestReconcilePartialFailure(t *testing.T) {
	store := newFakeCurrencyStore()
	store.failUpsert = map[string]error{"EUR": errStoreDown}
	svc := newRateService(&fakeFetcher{}, store)

	quotes := map[string]decimal.Decimal{
		"ZAREUR": mustDecimal("0.07"),
		"ZARUSD": mustDecimal("0.09"),
	}
	result, err := svc.Reconcile(context.Background(), quotes, "ZAR")
	require.NoError(t, err)

	assert.Equal(t, 1, result.UpdatedCount)
	require.Len(t, result.Errs, 1)
	assert.ErrorIs(t, result.Errs[0], errStoreDown)

	_, err = store.FindByCode(context.Background(), "USD")
	assert.NoError(t, err)
}

func TestRefreshFetchFailureLeavesStoreUntouched(t *testing.T) {
	store := newFakeCurrencyStore(models.Currency{Code: "USD", ExchangeRate: mustDecimal("0.10"), IsActive: true})
	fetcher := &fakeFetcher{err: rates.ErrFetch}
	svc := newRateService(fetcher, store)

	result, err := svc.Refresh(context.Background())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, rates.ErrFetch)
	assert.Empty(t, store.upserts)

	usd, findErr := store.FindByCode(context.Background(), "USD")
	require.NoError(t, findErr)
	assert.Equal(t, "0.1", usd.ExchangeRate.String())
}

func TestRefreshMalformedResponseLeavesStoreUntouched(t *testing.T) {
	store := newFakeCurrencyStore()
	svc := newRateService(&fakeFetcher{err: rates.ErrMalformedResponse}, store)

	_, err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, rates.ErrMalformedResponse)
	assert.Empty(t, store.upserts)
}

func TestRefreshReconcilesFetchedQuotes(t *testing.T) {
	store := newFakeCurrencyStore()
	fetcher := &fakeFetcher{quotes: map[string]decimal.Decimal{"ZARUSD": mustDecimal("0.09")}}
	svc := newRateService(fetcher, store)

	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.UpdatedCount)
	assert.Equal(t, 1, fetcher.calls)
}
