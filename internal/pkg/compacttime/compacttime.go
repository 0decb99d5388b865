// Package compacttime parses the "weekday + clock" encoding the scheduling
// backend uses for class slots.
//
// Grammar:
//
//	compact = weekday 1*SP clock
//	weekday = "Mon" / "Tue" / "Wed" / "Thu" / "Fri" / "Sat" / "Sun"
//	clock   = 1*2DIGIT ":" 2DIGIT   ; 0-23 hours, 0-59 minutes
//
// Surrounding whitespace is ignored. Anything else is rejected.
package compacttime

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalid = errors.New("invalid compact time")

var weekdays = map[string]time.Weekday{
	"Mon": time.Monday,
	"Tue": time.Tuesday,
	"Wed": time.Wednesday,
	"Thu": time.Thursday,
	"Fri": time.Friday,
	"Sat": time.Saturday,
	"Sun": time.Sunday,
}

// CompactTime is a weekday plus a wall-clock time of day
type CompactTime struct {
	Weekday time.Weekday
	Hour    int
	Minute  int
}

// Parse reads s according to the package grammar
func Parse(s string) (CompactTime, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return CompactTime{}, fmt.Errorf("%w: %q: want \"<Day> <HH:MM>\"", ErrInvalid, s)
	}

	day, ok := weekdays[fields[0]]
	if !ok {
		return CompactTime{}, fmt.Errorf("%w: %q: unknown weekday %q", ErrInvalid, s, fields[0])
	}

	clock, err := time.Parse("15:04", fields[1])
	if err != nil {
		return CompactTime{}, fmt.Errorf("%w: %q: %v", ErrInvalid, s, err)
	}

	return CompactTime{Weekday: day, Hour: clock.Hour(), Minute: clock.Minute()}, nil
}

// ISOWeekday maps Monday=1 ... Sunday=7
func ISOWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

// ISOWeekday of c
func (c CompactTime) ISOWeekday() int {
	return ISOWeekday(c.Weekday)
}

// On combines c's clock time with the calendar date of day, in loc
func (c CompactTime) On(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, loc)
}

func (c CompactTime) String() string {
	return fmt.Sprintf("%s %02d:%02d", c.Weekday.String()[:3], c.Hour, c.Minute)
}
