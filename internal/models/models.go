package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency is one tradable foreign currency quoted against the configured
// originating (home) currency. ExchangeRate is foreign units per 1 home unit.
type Currency struct {
	ID                        uuid.UUID       `json:"id"`
	Code                      string          `json:"currency"`
	ExchangeRate              decimal.Decimal `json:"exchange_rate"`
	SurchargePercentage       decimal.Decimal `json:"surcharge_percentage"`
	SpecialDiscountPercentage decimal.Decimal `json:"special_discount_percentage"`
	SendOrderEmail            bool            `json:"send_order_email"`
	IsActive                  bool            `json:"is_active"`
	CreatedAt                 time.Time       `json:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at"`
}

// Order is an immutable record of one conversion. Rate and percentage fields
// are snapshots taken at pricing time; later currency edits never touch them.
type Order struct {
	ID                        uuid.UUID       `json:"id"`
	UserID                    uuid.UUID       `json:"user_id"`
	ForeignCurrencyID         uuid.UUID       `json:"foreign_currency_id"`
	OriginatingCurrency       string          `json:"originating_currency"`
	ExchangeRate              decimal.Decimal `json:"exchange_rate"`
	SurchargePercentage       decimal.Decimal `json:"surcharge_percentage"`
	SpecialDiscountPercentage decimal.Decimal `json:"special_discount_percentage"`
	ForeignAmount             decimal.Decimal `json:"foreign_amount"`
	OriginatingAmount         decimal.Decimal `json:"originating_amount"`
	SurchargeAmount           decimal.Decimal `json:"surcharge_amount"`
	SpecialDiscountAmount     decimal.Decimal `json:"special_discount_amount"`
	TotalAmount               decimal.Decimal `json:"total_amount"`
	CreatedAt                 time.Time       `json:"created_at"`
	DeletedAt                 *time.Time      `json:"deleted_at,omitempty"`
}
