package money

import (
	"time"

	"github.com/shopspring/decimal"
)

// MinutesBetween returns the whole minutes from a to b, rounded to the
// nearest minute. Missing timestamps or an end before the start yield 0.
func MinutesBetween(a, b *time.Time) int {
	if a == nil || b == nil || a.IsZero() || b.IsZero() {
		return 0
	}
	minutes := int(b.Sub(*a).Round(time.Minute) / time.Minute)
	if minutes < 0 {
		return 0
	}
	return minutes
}

// ToHours converts minutes to hours, rounded to 2 decimals for display.
func ToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}

// Round2 rounds a monetary amount to 2 decimals. Intermediate results are
// rounded at every aggregation point so drift cannot accumulate across
// many shifts.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// HourlyAmount computes minutes at an hourly rate, rounded to 2 decimals.
func HourlyAmount(minutes int, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).
		Mul(rate).
		Div(decimal.NewFromInt(60)).
		Round(2)
}

// SumDenominations sums faceValue * count over a denomination map. Map keys
// are the face values ("1000", "500", "0.25"); keys that do not parse as a
// number are skipped, not errors.
func SumDenominations(counts map[string]int) decimal.Decimal {
	total := decimal.Zero
	for face, count := range counts {
		value, err := decimal.NewFromString(face)
		if err != nil {
			continue
		}
		total = total.Add(value.Mul(decimal.NewFromInt(int64(count))))
	}
	return total.Round(2)
}
