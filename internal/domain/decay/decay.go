// Package decay computes amounts that shrink by a fixed rate every 30-day period
// counted from the emission start date.
package decay

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodSeconds is the length of one decay period: 30 days.
const PeriodSeconds int64 = 30 * 24 * 60 * 60

// StartDate is epoch zero for period counting.
var StartDate = time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)

// ErrInvalidDate is returned when a target date cannot be parsed
var ErrInvalidDate = errors.New("invalid target date")

// Accepted target date forms, most common first. Years and months alone mean
// the first day of that year or month.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04Z07:00",
	"2006-01",
	"2006",
}

// Beyond this magnitude amounts are printed in exponent form.
const fixedLimit = 1e21

// exactDigits covers the longest fractional expansion of any float64.
const exactDigits = 1100

// Result holds the outcome of a single decay calculation
type Result struct {
	Target  time.Time
	Periods int64
	Amount  float64
}

// ParseDate parses a target date. Date-only and zone-less values are read as UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ElapsedPeriods returns the number of whole periods between StartDate and target,
// rounded toward negative infinity.
func ElapsedPeriods(target time.Time) int64 {
	return floorDiv(target.Unix()-StartDate.Unix(), PeriodSeconds)
}

// AmountAt applies compound decay to initial for every period elapsed at target.
func AmountAt(initial, rate float64, target time.Time) float64 {
	return initial * math.Pow(1-rate, float64(ElapsedPeriods(target)))
}

// Amount is the unchecked form of Calculate: an unparseable date yields NaN.
func Amount(initial, rate float64, targetDate string) float64 {
	target, err := ParseDate(targetDate)
	if err != nil {
		return math.NaN()
	}
	return AmountAt(initial, rate, target)
}

// Calculate parses targetDate and returns the decayed amount along with the period count.
func Calculate(initial, rate float64, targetDate string) (Result, error) {
	target, err := ParseDate(targetDate)
	if err != nil {
		return Result{}, err
	}
	periods := ElapsedPeriods(target)
	return Result{
		Target:  target,
		Periods: periods,
		Amount:  initial * math.Pow(1-rate, float64(periods)),
	}, nil
}

// FormatLine renders the one-line report printed by the command line tool.
func FormatLine(targetDate string, amount float64) string {
	return fmt.Sprintf("Amount on %s: %s", targetDate, FormatAmount(amount))
}

// FormatAmount renders amount with two decimals. Rounding works on the exact
// binary value, with ties going away from zero, so 1.005 prints as "1.00" and
// 0.125 as "0.13". Negative zero prints as "0.00".
func FormatAmount(amount float64) string {
	switch {
	case math.IsNaN(amount):
		return "NaN"
	case math.IsInf(amount, 1):
		return "Infinity"
	case math.IsInf(amount, -1):
		return "-Infinity"
	case math.Abs(amount) >= fixedLimit:
		return strconv.FormatFloat(amount, 'g', -1, 64)
	}

	sign := ""
	if amount < 0 {
		sign = "-"
	}
	exact := decimal.RequireFromString(strconv.FormatFloat(math.Abs(amount), 'f', exactDigits, 64))
	return sign + exact.StringFixed(2)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
