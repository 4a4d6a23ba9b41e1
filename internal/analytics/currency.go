package analytics

import (
	"fmt"
	"sort"
	"strings"
)

// Average conversion rates to INR, updated periodically.
var exchangeRates = map[string]float64{
	"USD": 83.50,
	"EUR": 91.00,
	"GBP": 106.00,
	"JPY": 0.57,
	"RUB": 0.92,
	"INR": 1.00,
}

// Conversion is the result of converting a foreign amount to the base
// currency (INR).
type Conversion struct {
	OriginalAmount   float64 `json:"original_amount"`
	OriginalCurrency string  `json:"original_currency"`
	INRAmount        float64 `json:"inr_amount"`
	ExchangeRate     float64 `json:"exchange_rate"`
	Message          string  `json:"message"`
}

// ConvertToBase converts an amount in the given currency code to INR using
// the fixed rate table. Unknown codes produce an error listing the supported
// ones.
func ConvertToBase(amount float64, fromCurrency string) (*Conversion, error) {
	code := strings.ToUpper(fromCurrency)
	rate, ok := exchangeRates[code]
	if !ok {
		return nil, fmt.Errorf("Currency %s not supported. Supported currencies: %s",
			code, strings.Join(supportedCurrencies(), ", "))
	}

	inr := round2(amount * rate)
	return &Conversion{
		OriginalAmount:   amount,
		OriginalCurrency: code,
		INRAmount:        inr,
		ExchangeRate:     rate,
		Message:          fmt.Sprintf("%g %s = ₹%.2f (Rate: 1 %s = ₹%.2f)", amount, code, inr, code, rate),
	}, nil
}

func supportedCurrencies() []string {
	codes := make([]string, 0, len(exchangeRates))
	for code := range exchangeRates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
