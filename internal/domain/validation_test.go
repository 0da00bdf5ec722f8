package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateCurrency(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"USD", "EUR", "JPY", "CHF"} {
		if err := ValidateCurrency(ok); err != nil {
			t.Fatalf("expected %s to be valid, got %v", ok, err)
		}
	}

	for _, bad := range []string{"usd", "XYZ", "EURO", ""} {
		if err := ValidateCurrency(bad); !errors.Is(err, ErrInvalidCurrency) {
			t.Fatalf("expected ErrInvalidCurrency for %q, got %v", bad, err)
		}
	}
}

func TestValidateID(t *testing.T) {
	t.Parallel()

	if err := ValidateID("01HX3Y7Z"); err != nil {
		t.Fatalf("expected valid id, got %v", err)
	}

	tests := map[string]string{
		"empty":     "",
		"too long":  strings.Repeat("a", MaxIDLength+1),
		"separator": "sa-1:ins-1",
		"space":     "tenant 1",
	}
	for name, id := range tests {
		id := id
		t.Run(name, func(t *testing.T) {
			if err := ValidateID(id); !errors.Is(err, ErrInvalidIDFormat) {
				t.Fatalf("expected ErrInvalidIDFormat, got %v", err)
			}
		})
	}
}
