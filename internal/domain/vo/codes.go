package vo

// Codes shared by several value objects.
const (
	CodeEmpty         Code = "EMPTY"
	CodeInvalidFormat Code = "INVALID_FORMAT"
	CodeInvalidLength Code = "INVALID_LENGTH"
	CodeTooLong       Code = "TOO_LONG"
)

// Seat classes and layouts.
const (
	CodeUnknownSeatClass   Code = "UNKNOWN_SEAT_CLASS"
	CodeInvalidSeatCount   Code = "INVALID_SEAT_COUNT"
	CodeNegativeSeatCount  Code = "NEGATIVE_SEAT_COUNT"
	CodeDuplicateSeatClass Code = "DUPLICATE_SEAT_CLASS"
	CodeNoSeats            Code = "NO_SEATS"
)

// Seat numbers.
const (
	CodeInvalidSequence  Code = "INVALID_SEQUENCE_NUMBER"
	CodeSeatNotInLayout  Code = "SEAT_NOT_IN_LAYOUT"
	CodeClassNotInLayout Code = "SEAT_CLASS_NOT_IN_LAYOUT"
)

// Prices.
const (
	CodeUnknownCurrency Code = "UNKNOWN_CURRENCY"
	CodeInvalidAmount   Code = "INVALID_AMOUNT"
	CodeNegativeAmount  Code = "NEGATIVE_AMOUNT"
	CodeTooPrecise      Code = "TOO_MANY_DECIMALS"
)

// Routes.
const (
	CodeInvalidOriginCode      Code = "INVALID_ORIGIN_CODE"
	CodeInvalidDestinationCode Code = "INVALID_DESTINATION_CODE"
	CodeInvalidOriginName      Code = "INVALID_ORIGIN_NAME"
	CodeInvalidDestinationName Code = "INVALID_DESTINATION_NAME"
	CodeSameOriginDestination  Code = "SAME_ORIGIN_DESTINATION"
)

// Schedules.
const (
	CodeInvalidDeparture       Code = "INVALID_DEPARTURE_TIME"
	CodeInvalidArrival         Code = "INVALID_ARRIVAL_TIME"
	CodeArrivalBeforeDeparture Code = "ARRIVAL_BEFORE_DEPARTURE"
)

// Passports.
const (
	CodeUnknownIssuingCountry Code = "UNKNOWN_ISSUING_COUNTRY"
	CodeInvalidPassportNumber Code = "INVALID_PASSPORT_NUMBER"
)

// Ticket numbers.
const (
	CodeInvalidIssueDate Code = "INVALID_ISSUE_DATE"
)

// Contact info.
const (
	CodeInvalidEmail   Code = "INVALID_EMAIL"
	CodeInvalidPhone   Code = "INVALID_PHONE"
	CodeInvalidAddress Code = "INVALID_ADDRESS"
)
