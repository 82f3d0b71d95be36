package vo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price is a non-negative amount of money held in the currency's minor
// units, so 150.00 USD is 15000 cents.
type Price struct {
	minor    int64
	currency string
	scale    int
}

// NewPrice builds a price from an amount already expressed in minor units.
func NewPrice(minor int64, currency string, currencies *CurrencyRegistry) (Price, error) {
	var r ValidationResult
	if minor < 0 {
		r.Add("price", CodeNegativeAmount, "price cannot be negative")
	}
	info, ok := currencies.Lookup(currency)
	if !ok {
		r.Add("price", CodeUnknownCurrency, fmt.Sprintf("currency %q is not accepted", currency))
	}
	if err := r.Err(); err != nil {
		return Price{}, err
	}
	return Price{minor: minor, currency: info.Code, scale: info.MinorUnits}, nil
}

// ValidatePrice checks "AMOUNT:CUR" text such as "150.00:USD".
func ValidatePrice(text string, currencies *CurrencyRegistry) ValidationResult {
	_, r := scanPrice(text, currencies)
	return r
}

// ParsePrice parses "AMOUNT:CUR" text. The amount may carry fewer decimals
// than the currency allows but never more.
func ParsePrice(text string, currencies *CurrencyRegistry) (Price, error) {
	p, r := scanPrice(text, currencies)
	if err := r.Err(); err != nil {
		return Price{}, err
	}
	return p, nil
}

func scanPrice(text string, currencies *CurrencyRegistry) (Price, ValidationResult) {
	var r ValidationResult
	text = strings.TrimSpace(text)
	if text == "" {
		r.Add("price", CodeEmpty, "price cannot be empty")
		return Price{}, r
	}

	amount, currency, ok := strings.Cut(text, ":")
	if !ok || amount == "" || currency == "" || strings.Contains(currency, ":") {
		r.Add("price", CodeInvalidFormat, fmt.Sprintf("price %q must look like 150.00:USD", text))
		return Price{}, r
	}

	info, known := currencies.Lookup(currency)
	if !known {
		r.Add("price", CodeUnknownCurrency, fmt.Sprintf("currency %q is not accepted", currency))
	}

	negative := strings.HasPrefix(amount, "-")
	if negative {
		r.Add("price", CodeNegativeAmount, "price cannot be negative")
		amount = amount[1:]
	}

	whole, frac, _ := strings.Cut(amount, ".")
	if whole == "" || !isDigits(whole) || (strings.Contains(amount, ".") && !isDigits(frac)) {
		r.Add("price", CodeInvalidAmount, fmt.Sprintf("amount %q is not a decimal number", amount))
		return Price{}, r
	}
	if !known || negative {
		return Price{}, r
	}
	if len(frac) > info.MinorUnits {
		r.Add("price", CodeTooPrecise,
			fmt.Sprintf("%s allows at most %d decimal places", info.Code, info.MinorUnits))
		return Price{}, r
	}

	minor, err := toMinorUnits(whole, frac, info.MinorUnits)
	if err != nil {
		r.Add("price", CodeInvalidAmount, fmt.Sprintf("amount %q is too large", amount))
		return Price{}, r
	}
	return Price{minor: minor, currency: info.Code, scale: info.MinorUnits}, r
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func toMinorUnits(whole, frac string, scale int) (int64, error) {
	digits := whole + frac + strings.Repeat("0", scale-len(frac))
	return strconv.ParseInt(digits, 10, 64)
}

// Minor returns the amount in minor units.
func (p Price) Minor() int64 { return p.minor }

// Currency returns the ISO 4217 code.
func (p Price) Currency() string { return p.currency }

// IsZero reports whether p is the zero value, not a free fare.
func (p Price) IsZero() bool { return p.currency == "" }

// SameCurrency reports whether p and other can be compared.
func (p Price) SameCurrency(other Price) bool { return p.currency == other.currency }

// Compare returns -1, 0 or +1. The prices must share a currency.
func (p Price) Compare(other Price) int {
	if !p.SameCurrency(other) {
		panic(fmt.Sprintf("vo: comparing %s with %s", p.currency, other.currency))
	}
	switch {
	case p.minor < other.minor:
		return -1
	case p.minor > other.minor:
		return 1
	}
	return 0
}

func (p Price) String() string {
	if p.currency == "" {
		panic("vo: formatting an unvalidated Price")
	}
	if p.scale == 0 {
		return strconv.FormatInt(p.minor, 10) + ":" + p.currency
	}
	div := int64(math.Pow10(p.scale))
	return fmt.Sprintf("%d.%0*d:%s", p.minor/div, p.scale, p.minor%div, p.currency)
}
