package services

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"room-scheduler/internal/core/domain"
	"room-scheduler/internal/pkg/compacttime"

	"go.uber.org/zap"
)

// DefaultHorizon is the last instant recurring classes are generated for
var DefaultHorizon = time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC)

// ProjectorConfig controls how schedule rows become calendar occurrences
type ProjectorConfig struct {
	// Horizon is the "until" of every weekly rule
	Horizon time.Time
	// Location the compact clock times are interpreted in
	Location *time.Location
	// TermStart pins the anchor week. Zero anchors to the current week.
	TermStart time.Time
	// Weekdays the weekly rule is active on
	Weekdays []time.Weekday
}

// DefaultProjectorConfig returns the dashboard's calendar settings
func DefaultProjectorConfig() ProjectorConfig {
	return ProjectorConfig{
		Horizon:  DefaultHorizon,
		Location: time.UTC,
		Weekdays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
	}
}

// ScheduleProjector turns backend schedule rows into recurring calendar
// occurrences. It performs no I/O and keeps nothing between calls.
type ScheduleProjector struct {
	cfg    ProjectorConfig
	now    func() time.Time
	logger *zap.Logger
}

// NewScheduleProjector creates a new schedule projector
func NewScheduleProjector(cfg ProjectorConfig, now func() time.Time, logger *zap.Logger) *ScheduleProjector {
	defaults := DefaultProjectorConfig()
	if cfg.Horizon.IsZero() {
		cfg.Horizon = defaults.Horizon
	}
	if cfg.Location == nil {
		cfg.Location = defaults.Location
	}
	if len(cfg.Weekdays) == 0 {
		cfg.Weekdays = defaults.Weekdays
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleProjector{cfg: cfg, now: now, logger: logger}
}

// Config returns the effective configuration
func (p *ScheduleProjector) Config() ProjectorConfig {
	return p.cfg
}

// All lazily projects every row regardless of major. Rows that cannot be
// parsed are logged and skipped. The anchor week is fixed once per iteration.
func (p *ScheduleProjector) All(rows []domain.ScheduleRow) iter.Seq[domain.CalendarOccurrence] {
	return func(yield func(domain.CalendarOccurrence) bool) {
		ref := p.referenceDay()

		for _, row := range rows {
			occ, err := p.projectRow(row, ref)
			if err != nil {
				p.logger.Warn("dropped schedule row",
					zap.String("row_id", row.ID),
					zap.String("major", row.Major),
					zap.Error(err),
				)
				continue
			}
			if !yield(occ) {
				return
			}
		}
	}
}

// ProjectAll collects the unfiltered projection
func (p *ScheduleProjector) ProjectAll(rows []domain.ScheduleRow) []domain.CalendarOccurrence {
	return slices.Collect(p.All(rows))
}

// Project returns the occurrences of rows whose major equals major exactly
func (p *ScheduleProjector) Project(rows []domain.ScheduleRow, major string) []domain.CalendarOccurrence {
	return FilterByMajor(p.ProjectAll(rows), major)
}

// FilterByMajor keeps occurrences whose major matches, case-sensitively
func FilterByMajor(occurrences []domain.CalendarOccurrence, major string) []domain.CalendarOccurrence {
	filtered := make([]domain.CalendarOccurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		if occ.Major == major {
			filtered = append(filtered, occ)
		}
	}
	return filtered
}

// referenceDay is midnight of the day anchor weeks are computed from
func (p *ScheduleProjector) referenceDay() time.Time {
	ref := p.cfg.TermStart
	if ref.IsZero() {
		ref = p.now()
	}
	y, m, d := ref.In(p.cfg.Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.cfg.Location)
}

func (p *ScheduleProjector) projectRow(row domain.ScheduleRow, ref time.Time) (domain.CalendarOccurrence, error) {
	start, err := compacttime.Parse(row.Start)
	if err != nil {
		return domain.CalendarOccurrence{}, fmt.Errorf("%w: start: %v", domain.ErrUnparsableScheduleRow, err)
	}
	end, err := compacttime.Parse(row.End)
	if err != nil {
		return domain.CalendarOccurrence{}, fmt.Errorf("%w: end: %v", domain.ErrUnparsableScheduleRow, err)
	}

	startAt := p.anchor(start, ref)
	endAt := p.anchor(end, ref)
	if endAt.Before(startAt) {
		return domain.CalendarOccurrence{}, fmt.Errorf("%w: end %s is before start %s", domain.ErrUnparsableScheduleRow, end, start)
	}

	return domain.CalendarOccurrence{
		ID:          row.ID,
		Title:       row.Title,
		Major:       row.Major,
		Start:       startAt,
		End:         endAt,
		Description: row.Lecturer + " - " + row.Room,
		Recurrence: domain.WeeklyRule{
			Frequency: domain.FrequencyWeekly,
			Interval:  1,
			Anchor:    startAt,
			Until:     p.cfg.Horizon,
			Weekdays:  slices.Clone(p.cfg.Weekdays),
		},
	}, nil
}

// anchor places ct on its weekday within ref's ISO week
func (p *ScheduleProjector) anchor(ct compacttime.CompactTime, ref time.Time) time.Time {
	offset := ct.ISOWeekday() - compacttime.ISOWeekday(ref.Weekday())
	return ct.On(ref.AddDate(0, 0, offset), p.cfg.Location)
}
