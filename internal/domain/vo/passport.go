package vo

import (
	"fmt"
	"strings"
)

// PassportNumber is a travel document number qualified by its issuing
// country, canonically "VNM:B1234567".
type PassportNumber struct {
	country string
	number  string
}

// NewPassportNumber validates number against the rule of country.
func NewPassportNumber(country, number string, passports *PassportRegistry) (PassportNumber, error) {
	p, r := checkPassport(strings.ToUpper(strings.TrimSpace(country)), strings.ToUpper(strings.TrimSpace(number)), passports)
	if err := r.Err(); err != nil {
		return PassportNumber{}, err
	}
	return p, nil
}

// ValidatePassportNumber checks "CTY:NUMBER" text.
func ValidatePassportNumber(text string, passports *PassportRegistry) ValidationResult {
	_, r := scanPassport(text, passports)
	return r
}

// ParsePassportNumber parses "CTY:NUMBER" text, case-insensitively.
func ParsePassportNumber(text string, passports *PassportRegistry) (PassportNumber, error) {
	p, r := scanPassport(text, passports)
	if err := r.Err(); err != nil {
		return PassportNumber{}, err
	}
	return p, nil
}

func scanPassport(text string, passports *PassportRegistry) (PassportNumber, ValidationResult) {
	text = strings.ToUpper(strings.TrimSpace(text))
	if text == "" {
		var r ValidationResult
		r.Add("passportNumber", CodeEmpty, "passport number cannot be empty")
		return PassportNumber{}, r
	}

	country, number, ok := strings.Cut(text, ":")
	if !ok || strings.Contains(number, ":") {
		var r ValidationResult
		r.Add("passportNumber", CodeInvalidFormat, fmt.Sprintf("passport %q must look like VNM:B1234567", text))
		return PassportNumber{}, r
	}
	return checkPassport(strings.TrimSpace(country), strings.TrimSpace(number), passports)
}

func checkPassport(country, number string, passports *PassportRegistry) (PassportNumber, ValidationResult) {
	var r ValidationResult
	if country == "" || number == "" {
		r.Add("passportNumber", CodeEmpty, "issuing country and number are both required")
		return PassportNumber{}, r
	}

	rule, ok := passports.rule(country)
	if !ok {
		r.Add("passportNumber", CodeUnknownIssuingCountry, fmt.Sprintf("issuing country %q is not supported", country))
		return PassportNumber{}, r
	}
	if !rule.re.MatchString(number) {
		r.Add("passportNumber", CodeInvalidPassportNumber,
			fmt.Sprintf("%q is not a valid %s passport number", number, rule.Name))
		return PassportNumber{}, r
	}
	return PassportNumber{country: rule.Country, number: number}, r
}

// Country returns the ISO alpha-3 issuing country.
func (p PassportNumber) Country() string { return p.country }

// Number returns the document number without the country.
func (p PassportNumber) Number() string { return p.number }

// IsZero reports whether p is the zero value.
func (p PassportNumber) IsZero() bool { return p.number == "" }

func (p PassportNumber) String() string {
	if p.IsZero() {
		panic("vo: formatting an unvalidated PassportNumber")
	}
	return p.country + ":" + p.number
}
