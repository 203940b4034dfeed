package validation

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIdentityNumber(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		expected    string
		expectError bool
	}{
		{
			name:     "plain_digits",
			raw:      "12345678901",
			expected: "12345678901",
		},
		{
			name:     "formatted_input_is_stripped",
			raw:      "123.456.789-01",
			expected: "12345678901",
		},
		{
			name:     "whitespace_is_stripped",
			raw:      " 123 456 789 01 ",
			expected: "12345678901",
		},
		{
			name:        "empty",
			raw:         "",
			expectError: true,
		},
		{
			name:        "too_short",
			raw:         "1234567890",
			expectError: true,
		},
		{
			name:        "too_long",
			raw:         "123456789012",
			expectError: true,
		},
		{
			name:        "all_identical_digits",
			raw:         "11111111111",
			expectError: true,
		},
		{
			name:        "letters_only",
			raw:         "abcdefghijk",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, err := IdentityNumber(tt.raw)
			if tt.expectError {
				require.Error(t, err)
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				require.Equal(t, "identityNumber", vErr.Field)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, cleaned)
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		expected    string
		expectError bool
	}{
		{
			name:     "simple_address",
			raw:      "alice@example.com",
			expected: "alice@example.com",
		},
		{
			name:     "domain_is_lowercased",
			raw:      "alice@EXAMPLE.COM",
			expected: "alice@example.com",
		},
		{
			name:     "local_part_case_is_kept",
			raw:      "Alice.Smith@Example.com",
			expected: "Alice.Smith@example.com",
		},
		{
			name:     "surrounding_whitespace_dropped",
			raw:      "  bob@example.com  ",
			expected: "bob@example.com",
		},
		{
			name:        "empty",
			raw:         "",
			expectError: true,
		},
		{
			name:        "missing_at",
			raw:         "bob.example.com",
			expectError: true,
		},
		{
			name:        "missing_domain",
			raw:         "bob@",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized, err := Email(tt.raw)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, normalized)
		})
	}
}

func TestBirthDate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		value       time.Time
		expectError bool
	}{
		{
			name:  "well_over_age",
			value: now.AddDate(-30, 0, 0),
		},
		{
			name:  "birthday_was_yesterday",
			value: now.AddDate(-18, 0, -1),
		},
		{
			name:        "turns_of_age_tomorrow",
			value:       now.AddDate(-18, 0, 1),
			expectError: true,
		},
		{
			name:        "underage",
			value:       now.AddDate(-17, 0, 0),
			expectError: true,
		},
		{
			name:        "zero_value",
			value:       time.Time{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BirthDate(tt.value)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseBirthDate(t *testing.T) {
	parsed, err := ParseBirthDate("1990-06-15")
	require.NoError(t, err)
	require.Equal(t, 1990, parsed.Year())
	require.Equal(t, time.June, parsed.Month())
	require.Equal(t, 15, parsed.Day())

	_, err = ParseBirthDate("15/06/1990")
	require.Error(t, err)

	_, err = ParseBirthDate("")
	require.Error(t, err)
}

func TestAmounts(t *testing.T) {
	tests := []struct {
		name        string
		value       float64
		expectError bool
	}{
		{name: "positive", value: 100.5},
		{name: "smallest_positive", value: 0.01},
		{name: "zero", value: 0, expectError: true},
		{name: "negative", value: -5, expectError: true},
		{name: "nan", value: math.NaN(), expectError: true},
		{name: "positive_infinity", value: math.Inf(1), expectError: true},
		{name: "negative_infinity", value: math.Inf(-1), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bidErr := BidAmount(tt.value)
			_, floorErr := MinimumBid(tt.value)
			if tt.expectError {
				require.Error(t, bidErr)
				require.Error(t, floorErr)
				return
			}
			require.NoError(t, bidErr)
			require.NoError(t, floorErr)
		})
	}
}

func TestParseAmount(t *testing.T) {
	value, err := ParseAmount("amount", "199.99")
	require.NoError(t, err)
	require.Equal(t, 199.99, value)

	_, err = ParseAmount("amount", "not-a-number")
	require.Error(t, err)

	_, err = ParseAmount("amount", "")
	require.Error(t, err)

	_, err = ParseAmount("amount", "-10")
	require.Error(t, err)
}

func TestAuctionDates(t *testing.T) {
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name        string
		start       time.Time
		end         time.Time
		allowPast   bool
		expectError bool
		field       string
	}{
		{
			name:  "future_window",
			start: future,
			end:   future.Add(time.Hour),
		},
		{
			name:        "end_before_start",
			start:       future.Add(time.Hour),
			end:         future,
			expectError: true,
			field:       "endTime",
		},
		{
			name:        "end_equals_start",
			start:       future,
			end:         future,
			expectError: true,
			field:       "endTime",
		},
		{
			name:        "start_in_the_past",
			start:       past,
			end:         future,
			expectError: true,
			field:       "startTime",
		},
		{
			name:      "past_start_allowed_when_flagged",
			start:     past,
			end:       future,
			allowPast: true,
		},
		{
			name:        "zero_start",
			start:       time.Time{},
			end:         future,
			expectError: true,
			field:       "startTime",
		},
		{
			name:        "zero_end",
			start:       future,
			end:         time.Time{},
			expectError: true,
			field:       "endTime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := AuctionDates(tt.start, tt.end, tt.allowPast)
			if tt.expectError {
				require.Error(t, err)
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				require.Equal(t, tt.field, vErr.Field)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseAuctionDate(t *testing.T) {
	parsed, err := ParseAuctionDate("startTime", "2030-01-02 15:04:05")
	require.NoError(t, err)
	require.Equal(t, 2030, parsed.Year())
	require.Equal(t, 15, parsed.Hour())

	_, err = ParseAuctionDate("startTime", "2030-01-02")
	require.Error(t, err)

	_, err = ParseAuctionDate("startTime", "")
	require.Error(t, err)
}

func TestValidationErrorMessage(t *testing.T) {
	err := newError("amount", "must be greater than zero")
	require.Equal(t, "amount: must be greater than zero", err.Error())
	require.Equal(t, fmt.Sprintf("%s: %s", err.Field, err.Reason), err.Error())
}
