package analytics

import (
	"strings"
	"testing"
)

func TestConvertToBase(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency string
		wantINR  float64
		wantRate float64
	}{
		{name: "usd", amount: 20, currency: "USD", wantINR: 1670.00, wantRate: 83.50},
		{name: "lowercase code", amount: 20, currency: "usd", wantINR: 1670.00, wantRate: 83.50},
		{name: "eur", amount: 50, currency: "EUR", wantINR: 4550.00, wantRate: 91.00},
		{name: "jpy rounds", amount: 1000, currency: "JPY", wantINR: 570.00, wantRate: 0.57},
		{name: "base currency", amount: 99.99, currency: "INR", wantINR: 99.99, wantRate: 1.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertToBase(tt.amount, tt.currency)
			if err != nil {
				t.Fatalf("ConvertToBase(%v, %q) error = %v", tt.amount, tt.currency, err)
			}
			if got.INRAmount != tt.wantINR {
				t.Errorf("INRAmount = %v, want %v", got.INRAmount, tt.wantINR)
			}
			if got.ExchangeRate != tt.wantRate {
				t.Errorf("ExchangeRate = %v, want %v", got.ExchangeRate, tt.wantRate)
			}
			if got.OriginalCurrency != strings.ToUpper(tt.currency) {
				t.Errorf("OriginalCurrency = %q", got.OriginalCurrency)
			}
		})
	}
}

func TestConvertToBaseUnsupported(t *testing.T) {
	_, err := ConvertToBase(10, "XYZ")
	if err == nil {
		t.Fatal("expected error for unsupported currency")
	}
	if !strings.Contains(err.Error(), "XYZ not supported") {
		t.Errorf("error = %q, want mention of unsupported code", err)
	}
	if !strings.Contains(err.Error(), "USD") {
		t.Errorf("error = %q, want list of supported codes", err)
	}
}
