package domain

import (
	"fmt"
	"time"
)

// RecurrenceType selects which days a recurring trip runs on.
type RecurrenceType string

const (
	RecurrenceDaily    RecurrenceType = "daily"    // every day
	RecurrenceWeekdays RecurrenceType = "weekdays" // Monday through Friday
	RecurrenceCustom   RecurrenceType = "custom"   // explicit days-of-week set
)

// Expansion limits. The hard cap bounds the walk regardless of the span;
// the default horizon applies when the pattern has no end date.
const (
	MaxOccurrences     = 365
	DefaultHorizonDays = 90
)

// RecurrencePattern describes how a trip series repeats. Patterns are
// treated as immutable once attached to a trip.
type RecurrencePattern struct {
	Type RecurrenceType `json:"type"`

	// DaysOfWeek is consulted only for RecurrenceCustom. An empty set
	// expands to zero occurrences; callers decide whether that is a
	// validation failure.
	DaysOfWeek []time.Weekday `json:"days_of_week,omitempty"`

	// EndDate bounds the expansion inclusively. When nil the default
	// horizon applies.
	EndDate *time.Time `json:"end_date,omitempty"`

	// Exceptions are individual dates skipped during expansion.
	Exceptions []time.Time `json:"exceptions,omitempty"`
}

// Validate checks that the pattern type is known. An empty custom
// days-of-week set is deliberately not an error (it expands to nothing).
func (p RecurrencePattern) Validate() error {
	switch p.Type {
	case RecurrenceDaily, RecurrenceWeekdays, RecurrenceCustom:
		return nil
	default:
		return fmt.Errorf("%w: unknown recurrence type %q", ErrValidation, p.Type)
	}
}

// includes reports whether the pattern runs on the given day, ignoring
// exceptions.
func (p RecurrencePattern) includes(day time.Time) bool {
	switch p.Type {
	case RecurrenceDaily:
		return true
	case RecurrenceWeekdays:
		wd := day.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case RecurrenceCustom:
		wd := day.Weekday()
		for _, d := range p.DaysOfWeek {
			if d == wd {
				return true
			}
		}
	}
	return false
}

// excluded reports whether the day appears in the exception list.
func (p RecurrencePattern) excluded(day time.Time) bool {
	for _, e := range p.Exceptions {
		if DateOnly(e).Equal(day) {
			return true
		}
	}
	return false
}

// Expand walks day by day from start and returns the ordered dates on
// which a trip occurrence should exist. The walk is bounded by the
// pattern's end date (inclusive) or, absent one, by horizonDays after
// start; at most MaxOccurrences dates are produced regardless of span.
//
// includeStart controls whether start itself is a candidate: series
// generation includes it, previews of "upcoming dates" exclude it.
//
// Expand is a pure function: identical inputs always yield the identical
// sequence. An end date before start yields an empty result, as does an
// empty custom days-of-week set.
func (p RecurrencePattern) Expand(start time.Time, horizonDays int, includeStart bool) []time.Time {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	first := DateOnly(start)
	end := first.AddDate(0, 0, horizonDays)
	if p.EndDate != nil {
		end = DateOnly(*p.EndDate)
	}

	var dates []time.Time
	day := first
	if !includeStart {
		day = day.AddDate(0, 0, 1)
	}
	for !day.After(end) && len(dates) < MaxOccurrences {
		if p.includes(day) && !p.excluded(day) {
			dates = append(dates, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return dates
}
