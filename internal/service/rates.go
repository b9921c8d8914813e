package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/currencydesk/currency-orders/internal/models"
	"github.com/currencydesk/currency-orders/internal/observability"
	"github.com/currencydesk/currency-orders/internal/rates"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RateService reconciles externally-sourced quotes into the currency table.
type RateService struct {
	fetcher    QuoteFetcher
	cache      *rates.Cache
	currencies CurrencyStore
	source     string
	logger     *zap.Logger
}

func NewRateService(fetcher QuoteFetcher, cache *rates.Cache, currencies CurrencyStore, source string, logger *zap.Logger) *RateService {
	return &RateService{
		fetcher:    fetcher,
		cache:      cache,
		currencies: currencies,
		source:     source,
		logger:     logger,
	}
}

// RefreshResult reports one reconcile run. Errs holds per-currency failures;
// UpdatedCount counts rows actually written (partial success is expected).
type RefreshResult struct {
	UpdatedCount int
	Currencies   []models.Currency
	Errs         []error
}

// Refresh fetches the latest quotes and merges them into the currency store.
// A batch cached inside the TTL is reused instead of calling the provider.
// Provider failures (rates.ErrFetch, rates.ErrMalformedResponse) abort the run
// with zero rows modified and are safely retryable.
func (s *RateService) Refresh(ctx context.Context) (*RefreshResult, error) {
	quotes, err := s.loadQuotes(ctx)
	if err != nil {
		return nil, err
	}
	return s.Reconcile(ctx, quotes, s.source)
}

func (s *RateService) loadQuotes(ctx context.Context) (map[string]decimal.Decimal, error) {
	if batch, err := s.cache.Lookup(ctx); err == nil && batch.Source == s.source {
		s.logger.Debug("using cached quote batch", zap.Time("fetched_at", batch.FetchedAt))
		return batch.Quotes, nil
	} else if err != nil && !errors.Is(err, rates.ErrCacheMiss) {
		s.logger.Warn("quote cache lookup failed", zap.Error(err))
	}

	quotes, err := s.fetcher.FetchQuotes(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Store(ctx, rates.Batch{Source: s.source, Quotes: quotes, FetchedAt: nowUTC()})
	return quotes, nil
}

// Reconcile merges a quote batch into the currency table. Composite keys are
// parsed by stripping the source-code prefix ("ZARUSD" -> "USD"); the
// remainder is not validated further, so a key whose target permutes the
// source code passes through as-is. Known fragile, kept for compatibility.
func (s *RateService) Reconcile(ctx context.Context, quotes map[string]decimal.Decimal, sourceCode string) (*RefreshResult, error) {
	keys := make([]string, 0, len(quotes))
	for key := range quotes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := &RefreshResult{}
	for _, key := range keys {
		code := strings.TrimPrefix(key, sourceCode)

		existing, err := s.currencies.FindByCode(ctx, code)
		if err != nil && !errors.Is(err, models.ErrCurrencyNotFound) {
			result.Errs = append(result.Errs, fmt.Errorf("lookup %s: %w", code, err))
			continue
		}

		merged := MergeQuote(existing, code, quotes[key])
		if err := s.currencies.Upsert(ctx, &merged); err != nil {
			result.Errs = append(result.Errs, fmt.Errorf("upsert %s: %w", code, err))
			continue
		}

		result.UpdatedCount++
		result.Currencies = append(result.Currencies, merged)
	}

	observability.AddCurrenciesTouched(result.UpdatedCount)
	s.logger.Info("quotes reconciled",
		zap.String("source", sourceCode),
		zap.Int("updated", result.UpdatedCount),
		zap.Int("errors", len(result.Errs)),
	)
	return result, nil
}

// MergeQuote applies one incoming quote to an existing currency row.
// A new code gets the four defaults; an existing row keeps every
// operator-set field and only takes the new exchange rate.
func MergeQuote(existing *models.Currency, code string, rate decimal.Decimal) models.Currency {
	if existing == nil {
		return models.Currency{
			Code:                      code,
			ExchangeRate:              rate,
			SurchargePercentage:       decimal.Zero,
			SpecialDiscountPercentage: decimal.Zero,
			SendOrderEmail:            false,
			IsActive:                  true,
		}
	}

	merged := *existing
	merged.ExchangeRate = rate
	return merged
}
