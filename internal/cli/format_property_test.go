package cli

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// For any amount, FormatCurrency should produce a $-prefixed value with
// exactly two decimal places and thousands-grouped digits, round-tripping
// back to the original amount within rounding error.
func TestProperty_CurrencyFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatCurrency produces a valid grouped format", prop.ForAll(
		func(amount float64) bool {
			if math.IsNaN(amount) || math.IsInf(amount, 0) {
				return true
			}
			if math.Abs(amount) > 1e15 {
				return true
			}

			formatted := FormatCurrency(amount)

			if amount >= 0 {
				if !strings.HasPrefix(formatted, "$") {
					t.Logf("expected $ prefix for %f, got %s", amount, formatted)
					return false
				}
			} else if !strings.HasPrefix(formatted, "-$") {
				t.Logf("expected -$ prefix for %f, got %s", amount, formatted)
				return false
			}

			parts := strings.Split(formatted, ".")
			if len(parts) != 2 || len(parts[1]) != 2 {
				t.Logf("expected 2 decimal places for %f, got %s", amount, formatted)
				return false
			}

			numPart := strings.TrimPrefix(strings.TrimPrefix(formatted, "-"), "$")
			numPart = strings.Split(numPart, ".")[0]
			groupedPattern := regexp.MustCompile(`^(\d{1,3},)*\d{1,3}$`)
			if !groupedPattern.MatchString(numPart) {
				t.Logf("invalid grouping for %f: %s", amount, formatted)
				return false
			}

			return true
		},
		gen.Float64Range(-1e12, 1e12),
	))

	properties.Property("FormatCurrency preserves value", prop.ForAll(
		func(amount float64) bool {
			if math.IsNaN(amount) || math.IsInf(amount, 0) || math.Abs(amount) > 1e12 {
				return true
			}

			formatted := FormatCurrency(amount)
			parsed := parsePlainCurrency(formatted)

			roundedAmount := math.Round(amount*100) / 100
			return math.Abs(parsed-roundedAmount) <= 0.01
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.Property("FormatPercent always carries an explicit sign and % suffix", prop.ForAll(
		func(value float64) bool {
			if math.IsNaN(value) || math.IsInf(value, 0) {
				return true
			}
			formatted := FormatPercent(value)
			if !strings.HasSuffix(formatted, "%") {
				return false
			}
			if value > 0 && !strings.HasPrefix(formatted, "+") {
				return false
			}
			return true
		},
		gen.Float64Range(-100, 100),
	))

	properties.TestingRun(t)
}

func parsePlainCurrency(s string) float64 {
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	parsed, _ := strconv.ParseFloat(s, 64)
	if negative {
		parsed = -parsed
	}
	return parsed
}

func TestFormatCurrencyExamples(t *testing.T) {
	cases := []struct {
		amount   float64
		expected string
	}{
		{0, "$0.00"},
		{1, "$1.00"},
		{1000, "$1,000.00"},
		{1234567.89, "$1,234,567.89"},
		{-1234.56, "-$1,234.56"},
	}
	for _, tc := range cases {
		t.Run(tc.expected, func(t *testing.T) {
			if got := FormatCurrency(tc.amount); got != tc.expected {
				t.Errorf("FormatCurrency(%f) = %s, want %s", tc.amount, got, tc.expected)
			}
		})
	}
}

func TestFormatPercentExamples(t *testing.T) {
	cases := []struct {
		value    float64
		expected string
	}{
		{0, "0.00%"},
		{1.5, "+1.50%"},
		{-2.5, "-2.50%"},
	}
	for _, tc := range cases {
		t.Run(tc.expected, func(t *testing.T) {
			if got := FormatPercent(tc.value); got != tc.expected {
				t.Errorf("FormatPercent(%f) = %s, want %s", tc.value, got, tc.expected)
			}
		})
	}
}
