// Package dates holds the pure date arithmetic behind special date
// countdowns and time-bucket filtering. Weeks run Monday through Sunday.
package dates

import (
	"fmt"
	"math"
	"time"

	"github.com/daybook/core/internal/domain/entities"
)

// Calculation describes a special date relative to a reference instant.
type Calculation struct {
	DaysUntil      int    `json:"daysUntil"`
	IsToday        bool   `json:"isToday"`
	IsPast         bool   `json:"isPast"`
	NextOccurrence string `json:"nextOccurrence"`
	DisplayText    string `json:"displayText"`
}

// Calculate resolves the effective occurrence of a special date and the
// distance to it. For a recurring date the occurrence is the current or
// next yearly anniversary, never a past one; a non-recurring date keeps
// its stored date verbatim and may be in the past.
func Calculate(sd entities.SpecialDate, today time.Time) (Calculation, error) {
	stored, err := sd.DateValue()
	if err != nil {
		return Calculation{}, fmt.Errorf("parse special date %q: %w", sd.Date, err)
	}

	occurrence := stored
	if sd.Recurring {
		occurrence = time.Date(today.Year(), stored.Month(), stored.Day(), 0, 0, 0, 0, today.Location())
		if occurrence.Before(StartOfDay(today)) {
			occurrence = occurrence.AddDate(1, 0, 0)
		}
	}

	daysUntil := int(math.Ceil(occurrence.Sub(today).Hours() / 24))
	calc := Calculation{
		DaysUntil:      daysUntil,
		IsToday:        daysUntil == 0,
		IsPast:         daysUntil < 0,
		NextOccurrence: occurrence.Format(entities.DateLayout),
	}

	switch {
	case calc.IsToday:
		calc.DisplayText = "today"
	case daysUntil > 0:
		calc.DisplayText = fmt.Sprintf("%d days until", daysUntil)
	default:
		calc.DisplayText = fmt.Sprintf("%d days past", -daysUntil)
	}
	return calc, nil
}

// StartOfDay truncates an instant to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek shifts an instant back to midnight of the most recent
// Monday. Sunday counts as the last day of the week, not the first.
func StartOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return StartOfDay(t).AddDate(0, 0, -(weekday - 1))
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// SameWeek reports whether two instants fall within the same Monday to
// Sunday week.
func SameWeek(a, b time.Time) bool {
	return StartOfWeek(a).Equal(StartOfWeek(b))
}

// SameMonth reports whether two instants share calendar month and year.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// SameYear reports whether two instants share a calendar year.
func SameYear(a, b time.Time) bool {
	return a.Year() == b.Year()
}

// InBucket reports whether a date falls in the bucket anchored at the
// reference date.
func InBucket(date, reference time.Time, bucket entities.TimeBucket) bool {
	switch bucket {
	case entities.BucketDay:
		return SameDay(date, reference)
	case entities.BucketWeek:
		return SameWeek(date, reference)
	case entities.BucketMonth:
		return SameMonth(date, reference)
	case entities.BucketYear:
		return SameYear(date, reference)
	default:
		return false
	}
}
