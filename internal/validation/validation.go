package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Accepted textual date formats.
const (
	BirthDateLayout   = "2006-01-02"
	AuctionDateLayout = "2006-01-02 15:04:05"
)

const (
	identityNumberLength     = 11
	minParticipantNameLength = 2
	minAuctionNameLength     = 3
	minimumAge               = 18
)

// ValidationError reports which field failed and why. Callers can correct the
// input and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func newError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// IdentityNumber strips every non-digit character and checks the remaining
// digits form a plausible identity number: exactly 11 digits, not all equal.
func IdentityNumber(raw string) (string, error) {
	if raw == "" {
		return "", newError("identityNumber", "is required")
	}

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	cleaned := digits.String()
	if len(cleaned) != identityNumberLength {
		return "", newError("identityNumber", fmt.Sprintf("must have %d digits", identityNumberLength))
	}

	if strings.Count(cleaned, cleaned[:1]) == identityNumberLength {
		return "", newError("identityNumber", "all digits are identical")
	}

	return cleaned, nil
}

// ParticipantName trims and checks the registry minimum length.
func ParticipantName(raw string) (string, error) {
	return name("name", raw, minParticipantNameLength)
}

// AuctionName trims and checks the auction minimum length.
func AuctionName(raw string) (string, error) {
	return name("name", raw, minAuctionNameLength)
}

func name(field, raw string, minLength int) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", newError(field, "is required")
	}

	if len(trimmed) < minLength {
		return "", newError(field, fmt.Sprintf("must have at least %d characters", minLength))
	}

	return trimmed, nil
}

// Email validates the address and returns its canonical form: surrounding
// whitespace dropped, domain part lowercased.
func Email(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", newError("email", "is required")
	}

	if err := validate.Var(trimmed, "email"); err != nil {
		return "", newError("email", "is not a valid address")
	}

	at := strings.LastIndex(trimmed, "@")
	normalized := trimmed[:at] + "@" + strings.ToLower(trimmed[at+1:])

	return normalized, nil
}

// BirthDate checks the participant is of age. The age is the calendar year
// difference, minus one when the birthday has not been reached this year.
func BirthDate(value time.Time) (time.Time, error) {
	if value.IsZero() {
		return time.Time{}, newError("birthDate", "is required")
	}

	now := time.Now()
	age := now.Year() - value.Year()
	if now.Month() < value.Month() || (now.Month() == value.Month() && now.Day() < value.Day()) {
		age--
	}

	if age < minimumAge {
		return time.Time{}, newError("birthDate", fmt.Sprintf("participant must be at least %d years old", minimumAge))
	}

	return value, nil
}

// ParseBirthDate accepts the textual YYYY-MM-DD form.
func ParseBirthDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, newError("birthDate", "is required")
	}

	value, err := time.Parse(BirthDateLayout, raw)
	if err != nil {
		return time.Time{}, newError("birthDate", "must be in format "+BirthDateLayout)
	}

	return BirthDate(value)
}

// MinimumBid validates an auction's bid floor.
func MinimumBid(value float64) (float64, error) {
	return amount("minimumBid", value)
}

// BidAmount validates a bid's monetary amount.
func BidAmount(value float64) (float64, error) {
	return amount("amount", value)
}

func amount(field string, value float64) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, newError(field, "must be a number")
	}

	if value <= 0 {
		return 0, newError(field, "must be greater than zero")
	}

	return value, nil
}

// ParseAmount coerces a textual amount before validating it.
func ParseAmount(field, raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, newError(field, "is required")
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, newError(field, "must be a number")
	}

	return amount(field, value)
}

// AuctionDates checks the start/end pair: both required, end strictly after
// start, and start not in the past unless allowPast is set (test/backfill
// callers only).
func AuctionDates(start, end time.Time, allowPast bool) (time.Time, time.Time, error) {
	if start.IsZero() {
		return time.Time{}, time.Time{}, newError("startTime", "is required")
	}

	if end.IsZero() {
		return time.Time{}, time.Time{}, newError("endTime", "is required")
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, newError("endTime", "must be after the start time")
	}

	if !allowPast && start.Before(time.Now()) {
		return time.Time{}, time.Time{}, newError("startTime", "must not be in the past")
	}

	return start, end, nil
}

// ParseAuctionDate accepts the textual YYYY-MM-DD HH:MM:SS form.
func ParseAuctionDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, newError(field, "is required")
	}

	value, err := time.Parse(AuctionDateLayout, raw)
	if err != nil {
		return time.Time{}, newError(field, "must be in format "+AuctionDateLayout)
	}

	return value, nil
}
