package services

import (
	"testing"
	"time"

	"room-scheduler/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weeklyOccurrence(until time.Time, interval int, days ...time.Weekday) domain.CalendarOccurrence {
	start := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC) // Monday
	return domain.CalendarOccurrence{
		ID:    "42",
		Title: "Algorithms",
		Major: "CS",
		Start: start,
		End:   start.Add(90 * time.Minute),
		Recurrence: domain.WeeklyRule{
			Frequency: domain.FrequencyWeekly,
			Interval:  interval,
			Anchor:    start,
			Until:     until,
			Weekdays:  days,
		},
	}
}

var weekdaysMonFri = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

func starts(instances []domain.Instance) []time.Time {
	out := make([]time.Time, 0, len(instances))
	for _, in := range instances {
		out = append(out, in.Start)
	}
	return out
}

func day(d int, h, m int) time.Time {
	return time.Date(2025, time.March, d, h, m, 0, 0, time.UTC)
}

func TestRecurrenceExpander_Expand(t *testing.T) {
	expander := NewRecurrenceExpander(nil)

	tests := []struct {
		name string
		occ  domain.CalendarOccurrence
		from time.Time
		to   time.Time
		want []time.Time
	}{
		{
			name: "one full week",
			occ:  weeklyOccurrence(DefaultHorizon, 1, weekdaysMonFri...),
			from: day(10, 0, 0),
			to:   day(16, 23, 59),
			want: []time.Time{day(10, 10, 0), day(11, 10, 0), day(12, 10, 0), day(13, 10, 0), day(14, 10, 0)},
		},
		{
			name: "window starts mid week",
			occ:  weeklyOccurrence(DefaultHorizon, 1, weekdaysMonFri...),
			from: day(12, 12, 0),
			to:   day(16, 23, 59),
			want: []time.Time{day(13, 10, 0), day(14, 10, 0)},
		},
		{
			name: "until caps the window",
			occ:  weeklyOccurrence(day(11, 23, 59), 1, weekdaysMonFri...),
			from: day(1, 0, 0),
			to:   day(31, 0, 0),
			want: []time.Time{day(10, 10, 0), day(11, 10, 0)},
		},
		{
			name: "until alone bounds the window",
			occ:  weeklyOccurrence(day(17, 10, 0), 1, time.Monday),
			want: []time.Time{day(10, 10, 0), day(17, 10, 0)},
		},
		{
			name: "every other week",
			occ:  weeklyOccurrence(DefaultHorizon, 2, time.Monday),
			from: day(1, 0, 0),
			to:   day(31, 23, 59),
			want: []time.Time{day(10, 10, 0), day(24, 10, 0)},
		},
		{
			name: "window before the anchor",
			occ:  weeklyOccurrence(DefaultHorizon, 1, weekdaysMonFri...),
			from: day(1, 0, 0),
			to:   day(9, 23, 59),
			want: []time.Time{},
		},
		{
			name: "no weekdays selected",
			occ:  weeklyOccurrence(DefaultHorizon, 1),
			from: day(10, 0, 0),
			to:   day(16, 0, 0),
			want: []time.Time{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expander.Expand(tt.occ, tt.from, tt.to)

			require.NoError(t, err)
			assert.Equal(t, tt.want, starts(got))
			for _, in := range got {
				assert.Equal(t, "42", in.OccurrenceID)
				assert.Equal(t, 90*time.Minute, in.End.Sub(in.Start))
			}
		})
	}
}

func TestRecurrenceExpander_Errors(t *testing.T) {
	expander := NewRecurrenceExpander(nil)

	_, err := expander.Expand(weeklyOccurrence(time.Time{}, 1, time.Monday), day(1, 0, 0), time.Time{})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)

	occ := weeklyOccurrence(DefaultHorizon, 1, time.Monday)
	occ.End = occ.Start.Add(-time.Minute)
	_, err = expander.Expand(occ, time.Time{}, day(31, 0, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
}

func TestRecurrenceExpander_NormalizesLocation(t *testing.T) {
	wib := time.FixedZone("WIB", 7*60*60)
	expander := NewRecurrenceExpander(wib)

	got, err := expander.Expand(weeklyOccurrence(DefaultHorizon, 1, time.Monday), time.Time{}, day(10, 23, 0))

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, wib, got[0].Start.Location())
	assert.True(t, got[0].Start.Equal(day(10, 10, 0)))
}
