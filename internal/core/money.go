// Package core holds the shared domain model: transactions, cards,
// accounts, categories and the parsing helpers for user-entered values.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered amount string to a positive
// float64 magnitude. Both comma and dot decimal separators are
// accepted. Signs, zero and garbage are rejected; transaction sign is
// carried by the transaction type, never by the amount.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return 0, ErrInvalidAmount
	}
	return d.InexactFloat64(), nil
}
