package domain

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Currency a 3-letter currency code
type Currency string

// Entry a supported currency as presented to users
type Entry struct {
	Code Currency `json:"code"`
	Name string   `json:"name"`
}

// Rate an exchange rate. Always positive.
type Rate = decimal.Decimal

// Pair of currencies to convert between
type Pair struct {
	From Currency
	To   Currency
}

// String formats the pair the way the rate provider keys it, e.g. USD_EUR
func (p Pair) String() string {
	return fmt.Sprintf("%s_%s", p.From, p.To)
}

// Quote an exchange rate for a pair, valid only for the request that fetched it
type Quote struct {
	From Currency
	To   Currency
	Rate Rate
}

// Pair returns the currency pair of the quote
func (q Quote) Pair() Pair {
	return Pair{From: q.From, To: q.To}
}

// Conversion the result of converting an amount with a rate
type Conversion struct {
	From      Currency
	To        Currency
	Amount    *big.Int
	Rate      Rate
	Converted decimal.Decimal
}

// Listing a currency as published by the rate provider's currency list
type Listing struct {
	ID     string `json:"id"`
	Name   string `json:"currencyName"`
	Symbol string `json:"currencySymbol,omitempty"`
}
