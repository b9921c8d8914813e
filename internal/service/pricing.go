package service

import (
	"errors"

	"github.com/currencydesk/currency-orders/internal/models"
	"github.com/shopspring/decimal"
)

// Validation failures for order pricing. The messages are part of the API
// contract and must stay stable.
var (
	ErrMissingAmount     = errors.New("either foreign_amount or originating_amount must be provided")
	ErrAmbiguousAmount   = errors.New("provide either foreign_amount or originating_amount, not both")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
)

// OrderBreakdown is the fully priced result of one conversion request.
// Every field is a snapshot: later currency edits never change it.
type OrderBreakdown struct {
	OriginatingCurrency       string
	ExchangeRate              decimal.Decimal
	SurchargePercentage       decimal.Decimal
	SpecialDiscountPercentage decimal.Decimal
	ForeignAmount             decimal.Decimal
	OriginatingAmount         decimal.Decimal
	SurchargeAmount           decimal.Decimal
	SpecialDiscountAmount     decimal.Decimal
	TotalAmount               decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Price converts one user amount into a full order breakdown. Exactly one of
// foreignAmount/originatingAmount must be set and strictly positive.
//
// Derivation uses the unrounded rate; the results are then rounded to the
// persisted column precision (rate 8dp, amounts 2dp, half up) before the
// surcharge, discount and total are computed from the rounded amounts.
func Price(currency *models.Currency, originatingCode string, foreignAmount, originatingAmount *decimal.Decimal) (*OrderBreakdown, error) {
	hasForeign := foreignAmount != nil
	hasOriginating := originatingAmount != nil

	switch {
	case !hasForeign && !hasOriginating:
		return nil, ErrMissingAmount
	case hasForeign && hasOriginating:
		return nil, ErrAmbiguousAmount
	case hasForeign && !foreignAmount.IsPositive():
		return nil, ErrNonPositiveAmount
	case hasOriginating && !originatingAmount.IsPositive():
		return nil, ErrNonPositiveAmount
	}

	rate := currency.ExchangeRate

	var foreign, originating decimal.Decimal
	if hasForeign {
		foreign = *foreignAmount
		if rate.IsPositive() {
			originating = foreign.Div(rate)
		} else {
			originating = decimal.Zero
		}
	} else {
		originating = *originatingAmount
		foreign = originating.Mul(rate)
	}

	foreign = foreign.Round(2)
	originating = originating.Round(2)

	surchargePct := currency.SurchargePercentage
	discountPct := currency.SpecialDiscountPercentage
	surchargeAmount := originating.Mul(surchargePct).Div(hundred).Round(2)
	discountAmount := originating.Mul(discountPct).Div(hundred).Round(2)
	total := originating.Add(surchargeAmount).Sub(discountAmount).Round(2)

	return &OrderBreakdown{
		OriginatingCurrency:       originatingCode,
		ExchangeRate:              rate.Round(8),
		SurchargePercentage:       surchargePct,
		SpecialDiscountPercentage: discountPct,
		ForeignAmount:             foreign,
		OriginatingAmount:         originating,
		SurchargeAmount:           surchargeAmount,
		SpecialDiscountAmount:     discountAmount,
		TotalAmount:               total,
	}, nil
}
