package engine

import (
	"strconv"
	"strings"
	"time"

	errs "github.com/Arabx-yung/trade-bot/internal/errors"
)

// TimeLayout is the timestamp format the bot accepts and renders.
const TimeLayout = "2006-01-02 15:04"

// skip tokens accepted for optional prompts
const (
	tokenNone = "NONE"
	tokenN    = "N"
	// TokenSame reuses the stored open time during the close flow.
	TokenSame = "SAME"
	// TokenDone ends photo collection.
	TokenDone = "DONE"
)

// ParsePrice parses a price reply. Commas are tolerated as thousands
// separators.
func ParsePrice(field, input string) (float64, *errs.ValidationError) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(input), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, errs.NewValidationError(field, input, "expected a number like 1.0825")
	}
	return v, nil
}

// ParsePositive parses a reply that must be strictly positive, such as
// a lot size or an account balance.
func ParsePositive(field, input string) (float64, *errs.ValidationError) {
	v, verr := ParsePrice(field, input)
	if verr != nil {
		return 0, verr
	}
	if v <= 0 {
		return 0, errs.NewValidationError(field, input, "must be greater than zero")
	}
	return v, nil
}

// ParseOptionalPrice parses a price that the user may skip with NONE.
// A skipped value returns a nil pointer.
func ParseOptionalPrice(field, input string) (*float64, *errs.ValidationError) {
	switch strings.ToUpper(strings.TrimSpace(input)) {
	case tokenNone, tokenN:
		return nil, nil
	}
	v, verr := ParsePrice(field, input)
	if verr != nil {
		return nil, errs.NewValidationError(field, input, "expected a number, or NONE to skip")
	}
	return &v, nil
}

// ParseTimestamp parses a "2006-01-02 15:04" reply in the configured
// zone.
func ParseTimestamp(field, input string, loc *time.Location) (time.Time, *errs.ValidationError) {
	t, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(input), loc)
	if err != nil {
		return time.Time{}, errs.NewValidationError(field, input, "expected YYYY-MM-DD HH:MM")
	}
	return t, nil
}

// ParseSymbol normalizes a symbol reply to upper case.
func ParseSymbol(input string) (string, *errs.ValidationError) {
	s := strings.ToUpper(strings.TrimSpace(input))
	if s == "" || strings.ContainsAny(s, " \t") {
		return "", errs.NewValidationError("symbol", input, "expected a single symbol like EURUSD")
	}
	return s, nil
}

// IsSkipToken reports whether the reply is the SAME token.
func IsSkipToken(input, token string) bool {
	return strings.EqualFold(strings.TrimSpace(input), token)
}
