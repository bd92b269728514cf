package currency

import (
	"errors"
	"math"
	"os"
	"strconv"
	"strings"
)

type Code string

const (
	BDT Code = "BDT"
	USD Code = "USD"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrUnknownCurrency = errors.New("unknown currency")
)

// Normalize maps user input like "bdt" to a Code; empty string on no match.
func Normalize(s string) Code {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(BDT):
		return BDT
	case string(USD):
		return USD
	}
	return ""
}

func (c Code) Valid() bool {
	return c == BDT || c == USD
}

// Rates holds the two fixed conversion constants. They are not inverses of
// each other; both directions are configured independently.
type Rates struct {
	BDTToUSD float64
	USDToBDT float64
}

func DefaultRates() Rates {
	return Rates{BDTToUSD: 0.0082, USDToBDT: 122.20}
}

// RatesFromEnv reads RATE_BDT_TO_USD / RATE_USD_TO_BDT, falling back to the
// defaults for anything unset or unparseable.
func RatesFromEnv() Rates {
	r := DefaultRates()
	if v := strings.TrimSpace(os.Getenv("RATE_BDT_TO_USD")); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			r.BDTToUSD = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("RATE_USD_TO_BDT")); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			r.USDToBDT = parsed
		}
	}
	return r
}

// Convert derives both currency amounts for a value entered in source.
// The source-side amount passes through untouched; only the opposite side
// is scaled by the configured rate.
func (r Rates) Convert(amount float64, source Code) (bdtAmount, usdAmount float64, err error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return 0, 0, ErrInvalidAmount
	}
	switch source {
	case BDT:
		return amount, amount * r.BDTToUSD, nil
	case USD:
		return amount * r.USDToBDT, amount, nil
	default:
		return 0, 0, ErrUnknownCurrency
	}
}
