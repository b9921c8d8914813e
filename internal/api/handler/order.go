package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/currencydesk/currency-orders/internal/models"
	"github.com/currencydesk/currency-orders/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "order/invalid-id", "invalid order id")
		return
	}

	includeDeleted := r.URL.Query().Get("include_deleted") == "true"
	order, err := h.svc.GetOrder(r.Context(), id, includeDeleted)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "order/invalid-user-id", "invalid user id")
		return
	}

	orders, err := h.svc.ListOrdersByUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) ListByCurrency(w http.ResponseWriter, r *http.Request) {
	currencyID, err := uuid.Parse(chi.URLParam(r, "currencyID"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "order/invalid-currency-id", "invalid currency id")
		return
	}

	orders, err := h.svc.ListOrdersByCurrency(r.Context(), currencyID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID            string           `json:"user_id"`
		ForeignCurrencyID string           `json:"foreign_currency_id"`
		ForeignAmount     *decimal.Decimal `json:"foreign_amount"`
		OriginatingAmount *decimal.Decimal `json:"originating_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		RespondError(w, r, http.StatusUnprocessableEntity, "order/validation", "invalid user_id")
		return
	}
	currencyID, err := uuid.Parse(req.ForeignCurrencyID)
	if err != nil {
		RespondError(w, r, http.StatusUnprocessableEntity, "order/validation", "invalid foreign_currency_id")
		return
	}

	order, err := h.svc.CreateOrder(r.Context(), service.CreateOrderInput{
		UserID:            userID,
		ForeignCurrencyID: currencyID,
		ForeignAmount:     req.ForeignAmount,
		OriginatingAmount: req.OriginatingAmount,
	})
	if err != nil {
		// An unknown currency reference is caller input, not a missing resource.
		if errors.Is(err, models.ErrCurrencyNotFound) {
			RespondError(w, r, http.StatusUnprocessableEntity, "order/validation", "unknown foreign_currency_id")
			return
		}
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]any{
		"message": "Order created successfully",
		"order":   order,
	})
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "order/invalid-id", "invalid order id")
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"message": "Order deleted successfully"})
}
