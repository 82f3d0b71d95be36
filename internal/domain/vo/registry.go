package vo

import (
	"cmp"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed registries.yaml
var defaultRegistries []byte

// SeatClassInfo describes one cabin tier known to the system.
type SeatClassInfo struct {
	Code    string   `yaml:"code"`
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// SeatClassRegistry is an immutable, ordered table of cabin tiers.
// Its order is the canonical order used when formatting layouts.
type SeatClassRegistry struct {
	classes []SeatClassInfo
	lookup  map[string]int
}

var seatClassCodePattern = regexp.MustCompile(`^[A-Z]{1,2}$`)

// NewSeatClassRegistry builds a registry from classes, in the given order.
// Codes must be one or two uppercase letters and no label may be shared.
func NewSeatClassRegistry(classes []SeatClassInfo) (*SeatClassRegistry, error) {
	if len(classes) == 0 {
		return nil, errors.New("seat class registry is empty")
	}

	r := &SeatClassRegistry{
		classes: make([]SeatClassInfo, len(classes)),
		lookup:  make(map[string]int),
	}
	for i, c := range classes {
		if !seatClassCodePattern.MatchString(c.Code) {
			return nil, fmt.Errorf("seat class code %q must be 1-2 uppercase letters", c.Code)
		}
		labels := append([]string{c.Code, c.Name}, c.Aliases...)
		for _, label := range labels {
			if label == "" {
				continue
			}
			key := strings.ToUpper(label)
			if prev, ok := r.lookup[key]; ok && prev != i {
				return nil, fmt.Errorf("seat class label %q is ambiguous", label)
			}
			r.lookup[key] = i
		}
		r.classes[i] = SeatClassInfo{
			Code:    c.Code,
			Name:    c.Name,
			Aliases: append([]string(nil), c.Aliases...),
		}
	}
	return r, nil
}

// Lookup resolves a code, name or alias (case-insensitive) to a seat class.
func (r *SeatClassRegistry) Lookup(label string) (SeatClass, bool) {
	i, ok := r.lookup[strings.ToUpper(strings.TrimSpace(label))]
	if !ok {
		return SeatClass{}, false
	}
	return SeatClass{code: r.classes[i].Code}, true
}

// Classes returns every registered class in canonical order.
func (r *SeatClassRegistry) Classes() []SeatClass {
	out := make([]SeatClass, len(r.classes))
	for i, c := range r.classes {
		out[i] = SeatClass{code: c.Code}
	}
	return out
}

// Name returns the display name of c, or its code if c is unknown.
func (r *SeatClassRegistry) Name(c SeatClass) string {
	if i, ok := r.lookup[c.code]; ok && r.classes[i].Name != "" {
		return r.classes[i].Name
	}
	return c.code
}

// CompareSeats orders seats the way layouts list them: canonical class
// order first, then position. Unknown classes sort last.
func (r *SeatClassRegistry) CompareSeats(a, b SeatNumber) int {
	if c := cmp.Compare(r.rank(a.class), r.rank(b.class)); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

func (r *SeatClassRegistry) rank(c SeatClass) int {
	if i, ok := r.lookup[c.code]; ok {
		return i
	}
	return len(r.classes)
}

// CurrencyInfo describes an accepted currency and its decimal precision.
type CurrencyInfo struct {
	Code       string `yaml:"code"`
	Name       string `yaml:"name"`
	MinorUnits int    `yaml:"minor_units"`
}

// CurrencyRegistry is an immutable table of accepted currencies.
type CurrencyRegistry struct {
	byCode map[string]CurrencyInfo
	codes  []string
}

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// NewCurrencyRegistry builds a registry from currencies.
func NewCurrencyRegistry(currencies []CurrencyInfo) (*CurrencyRegistry, error) {
	if len(currencies) == 0 {
		return nil, errors.New("currency registry is empty")
	}

	r := &CurrencyRegistry{byCode: make(map[string]CurrencyInfo, len(currencies))}
	for _, c := range currencies {
		code := strings.ToUpper(c.Code)
		if !currencyCodePattern.MatchString(code) {
			return nil, fmt.Errorf("currency code %q must be 3 letters", c.Code)
		}
		if c.MinorUnits < 0 || c.MinorUnits > 4 {
			return nil, fmt.Errorf("currency %s: minor units %d out of range", code, c.MinorUnits)
		}
		if _, dup := r.byCode[code]; dup {
			return nil, fmt.Errorf("currency %s registered twice", code)
		}
		c.Code = code
		r.byCode[code] = c
		r.codes = append(r.codes, code)
	}
	return r, nil
}

// Lookup returns the currency registered under code (case-insensitive).
func (r *CurrencyRegistry) Lookup(code string) (CurrencyInfo, bool) {
	c, ok := r.byCode[strings.ToUpper(code)]
	return c, ok
}

// Codes returns the registered currency codes in registration order.
func (r *CurrencyRegistry) Codes() []string {
	return append([]string(nil), r.codes...)
}

// PassportRule describes how one issuing country numbers its passports.
type PassportRule struct {
	Country string `yaml:"country"`
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

type passportRule struct {
	PassportRule
	re *regexp.Regexp
}

// PassportRegistry is an immutable table of issuing countries.
type PassportRegistry struct {
	byCountry map[string]passportRule
}

var countryCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// NewPassportRegistry builds a registry from rules. Each pattern must match
// the whole upper-cased document number; it is anchored here whether or not
// it carries its own ^ and $.
func NewPassportRegistry(rules []PassportRule) (*PassportRegistry, error) {
	if len(rules) == 0 {
		return nil, errors.New("passport registry is empty")
	}

	r := &PassportRegistry{byCountry: make(map[string]passportRule, len(rules))}
	for _, rule := range rules {
		country := strings.ToUpper(rule.Country)
		if !countryCodePattern.MatchString(country) {
			return nil, fmt.Errorf("issuing country %q must be an ISO alpha-3 code", rule.Country)
		}
		if _, dup := r.byCountry[country]; dup {
			return nil, fmt.Errorf("issuing country %s registered twice", country)
		}
		re, err := regexp.Compile(`^(?:` + rule.Pattern + `)$`)
		if err != nil {
			return nil, fmt.Errorf("passport pattern for %s: %w", country, err)
		}
		rule.Country = country
		r.byCountry[country] = passportRule{PassportRule: rule, re: re}
	}
	return r, nil
}

func (r *PassportRegistry) rule(country string) (passportRule, bool) {
	rule, ok := r.byCountry[strings.ToUpper(country)]
	return rule, ok
}

// Country returns the display name of an issuing country.
func (r *PassportRegistry) Country(code string) (string, bool) {
	rule, ok := r.rule(code)
	return rule.Name, ok
}

// Registries bundles the lookup tables consulted by validators.
type Registries struct {
	SeatClasses *SeatClassRegistry
	Currencies  *CurrencyRegistry
	Passports   *PassportRegistry
}

type registriesFile struct {
	SeatClasses []SeatClassInfo `yaml:"seat_classes"`
	Currencies  []CurrencyInfo  `yaml:"currencies"`
	Passports   []PassportRule  `yaml:"passports"`
}

// LoadRegistries decodes a YAML registry document.
func LoadRegistries(r io.Reader) (*Registries, error) {
	var file registriesFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding registries: %w", err)
	}

	seats, err := NewSeatClassRegistry(file.SeatClasses)
	if err != nil {
		return nil, err
	}
	currencies, err := NewCurrencyRegistry(file.Currencies)
	if err != nil {
		return nil, err
	}
	passports, err := NewPassportRegistry(file.Passports)
	if err != nil {
		return nil, err
	}

	return &Registries{SeatClasses: seats, Currencies: currencies, Passports: passports}, nil
}

// DefaultRegistries returns the registries compiled into the binary.
func DefaultRegistries() *Registries {
	r, err := LoadRegistries(strings.NewReader(string(defaultRegistries)))
	if err != nil {
		panic(fmt.Sprintf("embedded registries are invalid: %v", err))
	}
	return r
}
