package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// Validation errors
var (
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrInvalidIDFormat = errors.New("invalid ID format")
)

// MaxIDLength bounds tenant, account and instrument identifiers.
const MaxIDLength = 64

// ValidateCurrency checks that currency is an upper-case ISO 4217 code.
// Currencies are compared byte for byte across the engine, so "usd" is
// rejected rather than normalized.
func ValidateCurrency(currency string) error {
	if len(currency) != 3 || currency != strings.ToUpper(currency) {
		return fmt.Errorf("%w: %q is not an upper-case three letter code", ErrInvalidCurrency, currency)
	}
	if money.GetCurrency(currency) == nil {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}
	return nil
}

// ValidateID checks an identifier taken from the outside, such as a URL
// path segment.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidIDFormat)
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidIDFormat, MaxIDLength)
	}
	if strings.ContainsAny(id, " \t\r\n:/") {
		return fmt.Errorf("%w: %q contains whitespace or a separator", ErrInvalidIDFormat, id)
	}
	return nil
}
