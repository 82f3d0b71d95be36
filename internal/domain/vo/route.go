package vo

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	routePattern       = regexp.MustCompile(`^([^()]+)\(([^()]*)\)-([^()]+)\(([^()]*)\)$`)
	airportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
	cityNamePattern    = regexp.MustCompile(`^[\p{L}][\p{L} .'-]{0,49}$`)
)

// Route is an origin and destination airport pair, canonically
// "Hanoi(HAN)-Ho Chi Minh City(SGN)".
type Route struct {
	origin          string
	originCode      string
	destination     string
	destinationCode string
}

// NewRoute validates every part and reports all failures together.
func NewRoute(origin, originCode, destination, destinationCode string) (Route, error) {
	route, r := checkRoute(origin, originCode, destination, destinationCode)
	if err := r.Err(); err != nil {
		return Route{}, err
	}
	return route, nil
}

// ValidateRoute checks "City(AAA)-City(BBB)" text.
func ValidateRoute(text string) ValidationResult {
	_, r := scanRoute(text)
	return r
}

// ParseRoute parses "City(AAA)-City(BBB)" text. Airport codes are
// upper-cased; city names keep their case.
func ParseRoute(text string) (Route, error) {
	route, r := scanRoute(text)
	if err := r.Err(); err != nil {
		return Route{}, err
	}
	return route, nil
}

func scanRoute(text string) (Route, ValidationResult) {
	var r ValidationResult
	text = strings.TrimSpace(text)
	if text == "" {
		r.Add("route", CodeEmpty, "route cannot be empty")
		return Route{}, r
	}
	m := routePattern.FindStringSubmatch(text)
	if m == nil {
		r.Add("route", CodeInvalidFormat, fmt.Sprintf("route %q must look like Hanoi(HAN)-Da Nang(DAD)", text))
		return Route{}, r
	}
	return checkRoute(m[1], m[2], m[3], m[4])
}

func checkRoute(origin, originCode, destination, destinationCode string) (Route, ValidationResult) {
	var r ValidationResult
	origin, destination = strings.TrimSpace(origin), strings.TrimSpace(destination)
	originCode = strings.ToUpper(strings.TrimSpace(originCode))
	destinationCode = strings.ToUpper(strings.TrimSpace(destinationCode))

	if !cityNamePattern.MatchString(origin) {
		r.Add("origin", CodeInvalidOriginName, fmt.Sprintf("origin %q is not a valid city name", origin))
	}
	if !airportCodePattern.MatchString(originCode) {
		r.Add("originCode", CodeInvalidOriginCode, fmt.Sprintf("origin code %q must be 3 letters", originCode))
	}
	if !cityNamePattern.MatchString(destination) {
		r.Add("destination", CodeInvalidDestinationName, fmt.Sprintf("destination %q is not a valid city name", destination))
	}
	if !airportCodePattern.MatchString(destinationCode) {
		r.Add("destinationCode", CodeInvalidDestinationCode,
			fmt.Sprintf("destination code %q must be 3 letters", destinationCode))
	}
	if originCode != "" && originCode == destinationCode {
		r.Add("route", CodeSameOriginDestination, "origin and destination must differ")
	}

	if !r.Valid() {
		return Route{}, r
	}
	return Route{
		origin:          origin,
		originCode:      originCode,
		destination:     destination,
		destinationCode: destinationCode,
	}, r
}

func (r Route) Origin() string          { return r.origin }
func (r Route) OriginCode() string      { return r.originCode }
func (r Route) Destination() string     { return r.destination }
func (r Route) DestinationCode() string { return r.destinationCode }

// IsZero reports whether r is the zero value.
func (r Route) IsZero() bool { return r.originCode == "" }

func (r Route) String() string {
	if r.IsZero() {
		panic("vo: formatting an unvalidated Route")
	}
	return fmt.Sprintf("%s(%s)-%s(%s)", r.origin, r.originCode, r.destination, r.destinationCode)
}
