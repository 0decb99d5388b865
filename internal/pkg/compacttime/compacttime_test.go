package compacttime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want CompactTime
	}{
		{in: "Mon 10:00", want: CompactTime{Weekday: time.Monday, Hour: 10}},
		{in: "Tue 09:30", want: CompactTime{Weekday: time.Tuesday, Hour: 9, Minute: 30}},
		{in: "Sun 7:05", want: CompactTime{Weekday: time.Sunday, Hour: 7, Minute: 5}},
		{in: "  Fri   23:59 ", want: CompactTime{Weekday: time.Friday, Hour: 23, Minute: 59}},
		{in: "Sat 00:00", want: CompactTime{Weekday: time.Saturday}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{
		"",
		"Mon",
		"Xyz 99:99",
		"Mon 99:99",
		"Mon 24:00",
		"Mon 10:60",
		"Mon 10:0",
		"mon 10:00",
		"Monday 10:00",
		"Mon10:00",
		"Mon 10::00",
		"Mon 10:00:00",
		"Mon 10:00 extra",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestISOWeekday(t *testing.T) {
	assert.Equal(t, 1, ISOWeekday(time.Monday))
	assert.Equal(t, 6, ISOWeekday(time.Saturday))
	assert.Equal(t, 7, ISOWeekday(time.Sunday))
}

func TestCompactTime_On(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)
	ct := CompactTime{Weekday: time.Thursday, Hour: 13, Minute: 15}

	got := ct.On(time.Date(2025, time.March, 13, 22, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, time.Date(2025, time.March, 13, 13, 15, 0, 0, loc), got)
	assert.Equal(t, "Thu 13:15", ct.String())
}
