package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/currencydesk/currency-orders/internal/api/problem"
	"github.com/currencydesk/currency-orders/internal/models"
	"github.com/currencydesk/currency-orders/internal/rates"
	"github.com/currencydesk/currency-orders/internal/service"
)

// RespondJSON writes a JSON response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError writes an error response.
func RespondError(w http.ResponseWriter, r *http.Request, status int, problemType, message string) {
	if problemType != "" && problemType != "about:blank" && !strings.HasPrefix(problemType, "http") {
		problemType = problem.Type(problemType)
	}
	problem.Write(w, r, status, problemType, http.StatusText(status), message)
}

// respondServiceError maps the core error taxonomy onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMissingAmount),
		errors.Is(err, service.ErrAmbiguousAmount),
		errors.Is(err, service.ErrNonPositiveAmount):
		RespondError(w, r, http.StatusUnprocessableEntity, "order/validation", err.Error())
	case errors.Is(err, models.ErrInvalidField):
		RespondError(w, r, http.StatusBadRequest, "currency/invalid-field", err.Error())
	case errors.Is(err, models.ErrCurrencyNotFound):
		RespondError(w, r, http.StatusNotFound, "currency/not-found", err.Error())
	case errors.Is(err, models.ErrOrderNotFound):
		RespondError(w, r, http.StatusNotFound, "order/not-found", err.Error())
	case errors.Is(err, rates.ErrFetch):
		RespondError(w, r, http.StatusBadGateway, "provider/fetch-failed", err.Error())
	case errors.Is(err, rates.ErrMalformedResponse):
		RespondError(w, r, http.StatusBadGateway, "provider/malformed-response", err.Error())
	default:
		RespondError(w, r, http.StatusInternalServerError, "internal-server-error", "unexpected server error")
	}
}
