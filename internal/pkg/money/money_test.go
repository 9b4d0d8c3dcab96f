package money

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestMinutesBetween(t *testing.T) {
	cases := []struct {
		name string
		a, b *time.Time
		want int
	}{
		{"eight hours", ts("2024-03-01T08:00:00Z"), ts("2024-03-01T16:00:00Z"), 480},
		{"rounds seconds", ts("2024-03-01T08:00:00Z"), ts("2024-03-01T08:10:31Z"), 11},
		{"end before start", ts("2024-03-01T16:00:00Z"), ts("2024-03-01T08:00:00Z"), 0},
		{"equal", ts("2024-03-01T08:00:00Z"), ts("2024-03-01T08:00:00Z"), 0},
		{"nil start", nil, ts("2024-03-01T08:00:00Z"), 0},
		{"nil end", ts("2024-03-01T08:00:00Z"), nil, 0},
		{"zero value", &time.Time{}, ts("2024-03-01T08:00:00Z"), 0},
	}
	for _, c := range cases {
		if got := MinutesBetween(c.a, c.b); got != c.want {
			t.Errorf("%s: MinutesBetween = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestToHours(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{480, "8"},
		{90, "1.5"},
		{50, "0.83"},
		{0, "0"},
	}
	for _, c := range cases {
		got := ToHours(c.minutes)
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("ToHours(%d) = %s, want %s", c.minutes, got, c.want)
		}
	}
}

func TestHourlyAmount(t *testing.T) {
	cases := []struct {
		minutes int
		rate    string
		want    string
	}{
		{480, "50", "400"},
		{470, "50", "391.67"},
		{0, "50", "0"},
		{60, "0", "0"},
	}
	for _, c := range cases {
		got := HourlyAmount(c.minutes, decimal.RequireFromString(c.rate))
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("HourlyAmount(%d, %s) = %s, want %s", c.minutes, c.rate, got, c.want)
		}
	}
}

func TestSumDenominations(t *testing.T) {
	counts := map[string]int{
		"1000": 2,
		"500":  3,
		"20":   5,
		"0.25": 4,
	}
	got := SumDenominations(counts)
	want := decimal.RequireFromString("3601")
	if !got.Equal(want) {
		t.Errorf("SumDenominations = %s, want %s", got, want)
	}
}

func TestSumDenominationsSkipsBadKeys(t *testing.T) {
	counts := map[string]int{
		"100":     1,
		"unknown": 99,
		"":        5,
	}
	got := SumDenominations(counts)
	if !got.Equal(decimal.RequireFromString("100")) {
		t.Errorf("SumDenominations = %s, want 100", got)
	}
}

func TestSumDenominationsEmpty(t *testing.T) {
	if got := SumDenominations(nil); !got.IsZero() {
		t.Errorf("SumDenominations(nil) = %s, want 0", got)
	}
}
