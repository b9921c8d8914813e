package notify

import (
	"testing"
	"time"

	"github.com/currencydesk/currency-orders/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOrderPlaced(t *testing.T) {
	mustDec := func(s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		require.NoError(t, err)
		return d
	}

	order := &models.Order{
		ID:                        uuid.New(),
		UserID:                    uuid.New(),
		OriginatingCurrency:       "ZAR",
		ExchangeRate:              mustDec("0.0808279"),
		SurchargePercentage:       mustDec("7.5"),
		SpecialDiscountPercentage: mustDec("2"),
		ForeignAmount:             mustDec("100.00"),
		OriginatingAmount:         mustDec("1237.20"),
		SurchargeAmount:           mustDec("92.79"),
		SpecialDiscountAmount:     mustDec("24.74"),
		TotalAmount:               mustDec("1305.25"),
		CreatedAt:                 time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}

	body, err := RenderOrderPlaced(order, "USD")
	require.NoError(t, err)

	assert.Contains(t, body, order.ID.String())
	assert.Contains(t, body, order.UserID.String())
	assert.Contains(t, body, "2026-03-14 09:30:00")
	assert.Contains(t, body, "USD")
	assert.Contains(t, body, "100.00")
	assert.Contains(t, body, "0.080828") // rate rendered to 6 decimals
	assert.Contains(t, body, "ZAR")
	assert.Contains(t, body, "1237.20")
	assert.Contains(t, body, "7.50%")
	assert.Contains(t, body, "92.79")
	// Historical wording retained even though the total subtracts the discount.
	assert.Contains(t, body, "Special Discount % (not applied):")
	assert.Contains(t, body, "Special Discount Amount (not applied):")
	assert.Contains(t, body, "24.74")
	assert.Contains(t, body, "1305.25")
}

func TestRenderOrderPlacedUnknownCurrency(t *testing.T) {
	order := &models.Order{ID: uuid.New(), OriginatingCurrency: "ZAR"}

	body, err := RenderOrderPlaced(order, "N/A")
	require.NoError(t, err)
	assert.Contains(t, body, "N/A")
}
