package vo

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	maxEmailLength   = 254
	maxPhoneDigits   = 15
	maxAddressLength = 100
)

var (
	emailPattern   = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9-]+(\.[a-z0-9-]+)*\.[a-z]{2,}$`)
	phonePattern   = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	addressPattern = regexp.MustCompile(`^[\p{L}\p{M}\p{N} ,./#'()-]+$`)
)

// ContactInfo is how a passenger is reached: email, phone and an optional
// postal address. Canonical form is "email|phone|address".
type ContactInfo struct {
	email   string
	phone   string
	address string
}

// NewContactInfo validates each part independently and reports every failure.
func NewContactInfo(email, phone, address string) (ContactInfo, error) {
	c, r := checkContact(email, phone, address)
	if err := r.Err(); err != nil {
		return ContactInfo{}, err
	}
	return c, nil
}

// ValidateContactInfo checks "email|phone|address" text.
func ValidateContactInfo(text string) ValidationResult {
	_, r := scanContact(text)
	return r
}

// ParseContactInfo parses "email|phone|address" text. The address part may
// be empty but its separator is required.
func ParseContactInfo(text string) (ContactInfo, error) {
	c, r := scanContact(text)
	if err := r.Err(); err != nil {
		return ContactInfo{}, err
	}
	return c, nil
}

func scanContact(text string) (ContactInfo, ValidationResult) {
	if strings.TrimSpace(text) == "" {
		var r ValidationResult
		r.Add("contactInfo", CodeEmpty, "contact info cannot be empty")
		return ContactInfo{}, r
	}
	parts := strings.Split(text, "|")
	if len(parts) != 3 {
		var r ValidationResult
		r.Add("contactInfo", CodeInvalidFormat, "contact info must look like email|phone|address")
		return ContactInfo{}, r
	}
	return checkContact(parts[0], parts[1], parts[2])
}

func checkContact(email, phone, address string) (ContactInfo, ValidationResult) {
	var r ValidationResult
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)
	address = strings.TrimSpace(address)

	switch {
	case email == "":
		r.Add("email", CodeEmpty, "email cannot be empty")
	case len(email) > maxEmailLength:
		r.Add("email", CodeTooLong, fmt.Sprintf("email must not exceed %d characters", maxEmailLength))
	case !emailPattern.MatchString(email):
		r.Add("email", CodeInvalidEmail, fmt.Sprintf("%q is not a valid email address", email))
	}

	switch {
	case phone == "":
		r.Add("phone", CodeEmpty, "phone cannot be empty")
	case len(strings.TrimPrefix(phone, "+")) > maxPhoneDigits:
		r.Add("phone", CodeTooLong, fmt.Sprintf("phone must not exceed %d digits", maxPhoneDigits))
	case !phonePattern.MatchString(phone):
		r.Add("phone", CodeInvalidPhone, "phone must be 10-15 digits with an optional leading +")
	}

	switch {
	case address == "":
	case len([]rune(address)) > maxAddressLength:
		r.Add("address", CodeTooLong, fmt.Sprintf("address must not exceed %d characters", maxAddressLength))
	case !addressPattern.MatchString(address):
		r.Add("address", CodeInvalidAddress, "address contains unsupported characters")
	}

	if !r.Valid() {
		return ContactInfo{}, r
	}
	return ContactInfo{email: email, phone: phone, address: address}, r
}

// Email returns the lower-cased email address.
func (c ContactInfo) Email() string { return c.email }

// Phone returns the phone number as entered.
func (c ContactInfo) Phone() string { return c.phone }

// Address returns the postal address, possibly empty.
func (c ContactInfo) Address() string { return c.address }

// IsZero reports whether c is the zero value.
func (c ContactInfo) IsZero() bool { return c.email == "" }

func (c ContactInfo) String() string {
	if c.IsZero() {
		panic("vo: formatting an unvalidated ContactInfo")
	}
	return c.email + "|" + c.phone + "|" + c.address
}
