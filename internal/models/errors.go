package models

import "errors"

// ErrCurrencyNotFound indicates the referenced currency does not exist.
var ErrCurrencyNotFound = errors.New("currency not found")

// ErrOrderNotFound indicates the referenced order does not exist (or is soft-deleted).
var ErrOrderNotFound = errors.New("order not found")

// ErrInvalidField indicates a field name outside the currency update allow-list.
var ErrInvalidField = errors.New("invalid field")
