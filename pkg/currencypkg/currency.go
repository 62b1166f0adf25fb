// Package currencypkg provides common currency related functionality for apps.
package currencypkg

// Constants for all supported wallet currencies.
const (
	USD = "USD"
	EUR = "EUR"
	NGN = "NGN"
	KES = "KES"
	GHS = "GHS"
)

// SMSCredits labels balances of SMS credit accounts.
const SMSCredits = "CREDITS"

// SupportedCurrencies holds all the supported wallet currencies.
var SupportedCurrencies = []string{
	USD,
	EUR,
	NGN,
	KES,
	GHS,
}

// IsSupportedCurrency returns true if the currncy is supported.
func IsSupportedCurrency(currency string) bool {
	for _, c := range SupportedCurrencies {
		if c == currency {
			return true
		}
	}

	return false
}
