package services

import (
	"time"

	"room-scheduler/internal/core/domain"
)

// RecurrenceExpander turns a recurring occurrence into dated instances
type RecurrenceExpander struct {
	location *time.Location
}

// NewRecurrenceExpander normalizes instances to loc; nil means UTC
func NewRecurrenceExpander(loc *time.Location) *RecurrenceExpander {
	if loc == nil {
		loc = time.UTC
	}
	return &RecurrenceExpander{location: loc}
}

// Expand lists the instances of occ that start within [from, to].
//
//   - The window is also capped by the rule's until; with neither bound set
//     the call fails with ErrInvalidWindow.
//   - Instances start at the anchor's clock time on every selected weekday,
//     never before the anchor, and last as long as the occurrence.
//   - An interval above one skips whole weeks counted from the anchor's week.
func (e *RecurrenceExpander) Expand(occ domain.CalendarOccurrence, from, to time.Time) ([]domain.Instance, error) {
	loc := e.location
	rule := occ.Recurrence

	if occ.End.Before(occ.Start) {
		return nil, domain.ErrInvalidDuration
	}
	duration := occ.End.Sub(occ.Start)

	anchor := rule.Anchor
	if anchor.IsZero() {
		anchor = occ.Start
	}
	anchor = anchor.In(loc)

	var upper time.Time
	hasUpper := false
	if !rule.Until.IsZero() {
		upper = rule.Until.In(loc)
		hasUpper = true
	}
	if !to.IsZero() {
		if !hasUpper || to.Before(upper) {
			upper = to.In(loc)
		}
		hasUpper = true
	}
	if !hasUpper {
		return nil, domain.ErrInvalidWindow
	}

	lower := anchor
	if !from.IsZero() && from.After(lower) {
		lower = from.In(loc)
	}
	if lower.After(upper) {
		return nil, nil
	}

	selected := make(map[time.Weekday]struct{}, len(rule.Weekdays))
	for _, d := range rule.Weekdays {
		selected[d] = struct{}{}
	}
	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}
	anchorWeek := weekStart(anchor)

	instances := make([]domain.Instance, 0)
	current := atClock(lower, anchor)
	for current.Before(lower) {
		current = current.AddDate(0, 0, 1)
	}

	for !current.After(upper) {
		if _, ok := selected[current.Weekday()]; ok && weeksBetween(anchorWeek, current)%interval == 0 {
			instances = append(instances, domain.Instance{
				OccurrenceID: occ.ID,
				Title:        occ.Title,
				Start:        current,
				End:          current.Add(duration),
			})
		}
		current = current.AddDate(0, 0, 1)
	}

	return instances, nil
}

// atClock is day's date at template's clock time, in template's location
func atClock(day, template time.Time) time.Time {
	y, m, d := day.In(template.Location()).Date()
	return time.Date(y, m, d, template.Hour(), template.Minute(), template.Second(), 0, template.Location())
}

// weekStart is the Monday midnight of t's ISO week
func weekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	offset := int(t.Weekday()+6) % 7
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

func weeksBetween(anchorWeek, t time.Time) int {
	days := int(weekStart(t).Sub(anchorWeek).Hours()+12) / 24
	return days / 7
}
