// Package money provides a fixed-point monetary value used throughout the
// allocation and settlement engine. Amounts are integer minor units (cents)
// tagged with an ISO 4217 currency code, so arithmetic never leaves
// minor-unit precision.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in integer minor units with a currency tag.
// The zero value is 0 minor units with an empty currency.
type Money struct {
	Cents    int64  `json:"cents"`
	Currency string `json:"currency"`
}

var (
	ErrInvalidAmount = errors.New("invalid amount")
)

// New creates a Money value from minor units and a currency code.
func New(cents int64, currency string) Money {
	return Money{Cents: cents, Currency: currency}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return Money{Cents: 0, Currency: currency}
}

// Parse converts a decimal string ("12.34" or "12,34") into a Money value in
// the given currency, with half-up rounding on the third decimal place.
// Negative values are rejected; zero is allowed (callers that need strictly
// positive amounts check separately).
func Parse(s, currency string) (Money, error) {
	cents, err := ParseCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents, Currency: currency}, nil
}

// ParseCents converts a decimal string to minor units. It accepts both dot
// and comma decimal separators and performs half-up rounding on the third
// decimal place. Sign prefixes are rejected.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// iv*100+fracCents must stay within int64; fracCents can reach 99.
	const maxSafeInt64 = ((1<<63 - 1) - 99) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// Add returns m + other. Adding amounts in different currencies is a caller
// contract violation and panics.
func (m Money) Add(other Money) Money {
	m.mustMatch(other)
	return Money{Cents: m.Cents + other.Cents, Currency: m.Currency}
}

// Sub returns m - other. Panics on currency mismatch.
func (m Money) Sub(other Money) Money {
	m.mustMatch(other)
	return Money{Cents: m.Cents - other.Cents, Currency: m.Currency}
}

// Neg returns the negated amount.
func (m Money) Neg() Money {
	return Money{Cents: -m.Cents, Currency: m.Currency}
}

// Abs returns the absolute amount.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return m.Neg()
	}
	return m
}

// Cmp compares two amounts: -1 if m < other, 0 if equal, 1 if m > other.
// Panics on currency mismatch.
func (m Money) Cmp(other Money) int {
	m.mustMatch(other)
	switch {
	case m.Cents < other.Cents:
		return -1
	case m.Cents > other.Cents:
		return 1
	default:
		return 0
	}
}

// Min returns the smaller of the two amounts. Panics on currency mismatch.
func Min(a, b Money) Money {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// IsZero reports whether the amount is 0.
func (m Money) IsZero() bool { return m.Cents == 0 }

// IsPositive reports whether the amount is > 0.
func (m Money) IsPositive() bool { return m.Cents > 0 }

// IsNegative reports whether the amount is < 0.
func (m Money) IsNegative() bool { return m.Cents < 0 }

// SameCurrency reports whether both amounts carry the same currency code.
func (m Money) SameCurrency(other Money) bool {
	return m.Currency == other.Currency
}

// Decimal formats the amount as a plain decimal string, e.g. "12.34" or
// "-0.05". Display formatting (symbols, locales) is a presentation concern.
func (m Money) Decimal() string {
	c := m.Cents
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// String implements fmt.Stringer, e.g. "12.34 USD".
func (m Money) String() string {
	if m.Currency == "" {
		return m.Decimal()
	}
	return m.Decimal() + " " + m.Currency
}

func (m Money) mustMatch(other Money) {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("money: currency mismatch: %s vs %s", m.Currency, other.Currency))
	}
}
