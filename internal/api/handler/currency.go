package handler

import (
	"errors"
	"net/http"

	"github.com/currencydesk/currency-orders/internal/models"
	"github.com/currencydesk/currency-orders/internal/rates"
	"github.com/currencydesk/currency-orders/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CurrencyHandler struct {
	svc     *service.CurrencyService
	rateSvc *service.RateService
	cache   *rates.Cache
}

func NewCurrencyHandler(svc *service.CurrencyService, rateSvc *service.RateService, cache *rates.Cache) *CurrencyHandler {
	return &CurrencyHandler{svc: svc, rateSvc: rateSvc, cache: cache}
}

// currencySummary is the trimmed row returned by the active/inactive listings.
type currencySummary struct {
	ID                        uuid.UUID       `json:"id"`
	Code                      string          `json:"currency"`
	ExchangeRate              decimal.Decimal `json:"exchange_rate"`
	SurchargePercentage       decimal.Decimal `json:"surcharge_percentage"`
	SpecialDiscountPercentage decimal.Decimal `json:"special_discount_percentage"`
}

func summarize(currencies []models.Currency) []currencySummary {
	summaries := make([]currencySummary, 0, len(currencies))
	for _, c := range currencies {
		summaries = append(summaries, currencySummary{
			ID:                        c.ID,
			Code:                      c.Code,
			ExchangeRate:              c.ExchangeRate,
			SurchargePercentage:       c.SurchargePercentage,
			SpecialDiscountPercentage: c.SpecialDiscountPercentage,
		})
	}
	return summaries
}

func (h *CurrencyHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.svc.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, currencies)
}

func (h *CurrencyHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.svc.ListActive(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, summarize(currencies))
}

func (h *CurrencyHandler) ListInactive(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.svc.ListInactive(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, summarize(currencies))
}

func (h *CurrencyHandler) Source(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"source": h.svc.SourceCurrency()})
}

func (h *CurrencyHandler) Show(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	currency, err := h.svc.Get(r.Context(), code)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, currency)
}

func (h *CurrencyHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	field := chi.URLParam(r, "field")
	value := chi.URLParam(r, "value")

	currency, err := h.svc.UpdateField(r.Context(), code, field, value)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{
		"message":  "Currency updated successfully",
		"currency": currency,
	})
}

// UpdateAll runs an on-demand refresh against the quote provider.
func (h *CurrencyHandler) UpdateAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.rateSvc.Refresh(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	var rowErrors []string
	for _, rowErr := range result.Errs {
		rowErrors = append(rowErrors, rowErr.Error())
	}
	RespondJSON(w, http.StatusOK, map[string]any{
		"message":       "Currencies updated successfully from API",
		"currencies":    result.Currencies,
		"updated_count": result.UpdatedCount,
		"errors":        rowErrors,
	})
}

// RefreshStatus reports the last cached quote batch.
func (h *CurrencyHandler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cache.LastRefresh(r.Context())
	if err != nil {
		if errors.Is(err, rates.ErrCacheMiss) {
			RespondError(w, r, http.StatusNotFound, "refresh/no-data", "no refresh has completed yet")
			return
		}
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, summary)
}

func (h *CurrencyHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, "Currency activated successfully", func(code string) (*models.Currency, error) {
		return h.svc.SetActive(r.Context(), code, true)
	})
}

func (h *CurrencyHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, "Currency deactivated successfully", func(code string) (*models.Currency, error) {
		return h.svc.SetActive(r.Context(), code, false)
	})
}

func (h *CurrencyHandler) EnableSendOrderEmail(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, "Currency order email enabled successfully", func(code string) (*models.Currency, error) {
		return h.svc.SetSendOrderEmail(r.Context(), code, true)
	})
}

func (h *CurrencyHandler) DisableSendOrderEmail(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, "Currency order email disabled successfully", func(code string) (*models.Currency, error) {
		return h.svc.SetSendOrderEmail(r.Context(), code, false)
	})
}

func (h *CurrencyHandler) setFlag(w http.ResponseWriter, r *http.Request, message string, apply func(code string) (*models.Currency, error)) {
	code := chi.URLParam(r, "code")
	currency, err := apply(code)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{
		"message":  message,
		"currency": currency,
	})
}
