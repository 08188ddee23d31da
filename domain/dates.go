package domain

import (
	"fmt"
	"math"
	"time"
)

const calendarDateLayout = "2006-01-02"

// ParseCalendarDate accepts an ISO calendar date or an RFC3339 timestamp and
// returns the calendar day at midnight UTC. Comparing these values compares
// calendar dates, never instants, so clients in other timezones cannot shift
// a booking by a day.
func ParseCalendarDate(value string) (time.Time, error) {
	if t, err := time.Parse(calendarDateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse %q as a date", value)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// Today is the server's current calendar day at midnight UTC.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RentalDays is the number of chargeable days between pickup and return.
// Same-day rentals charge zero days.
func RentalDays(pickup, returnDate time.Time) int {
	return int(math.Ceil(returnDate.Sub(pickup).Hours() / 24))
}

// IntervalsOverlap reports whether two closed date intervals share at least
// one calendar day. Touching endpoints count: a return on day N conflicts
// with a pickup on day N.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
