package services

import (
	"context"
	"slices"
	"time"

	"room-scheduler/internal/core/domain"

	"go.uber.org/zap"
)

// CalendarService serves the calendar view: majors, recurring occurrences
// and their dated instances
type CalendarService struct {
	rows      RowProvider
	projector *ScheduleProjector
	expander  *RecurrenceExpander
	logger    *zap.Logger
}

// NewCalendarService creates a new calendar service
func NewCalendarService(rows RowProvider, projector *ScheduleProjector, expander *RecurrenceExpander, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		rows:      rows,
		projector: projector,
		expander:  expander,
		logger:    logger,
	}
}

// Majors lists the distinct majors in the schedule, sorted
func (s *CalendarService) Majors(ctx context.Context) ([]string, error) {
	rows, err := s.rows.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return UniqueMajors(rows), nil
}

// Occurrences projects the schedule and keeps major's classes
func (s *CalendarService) Occurrences(ctx context.Context, major string) ([]domain.CalendarOccurrence, error) {
	rows, err := s.rows.Rows(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(UniqueMajors(rows), major) {
		return nil, domain.ErrUnknownMajor
	}
	return s.projector.Project(rows, major), nil
}

// Instances expands major's occurrences into dated instances within
// [from, to], ordered by start time
func (s *CalendarService) Instances(ctx context.Context, major string, from, to time.Time) ([]domain.Instance, error) {
	if to.IsZero() || to.Before(from) {
		return nil, domain.ErrInvalidWindow
	}

	occurrences, err := s.Occurrences(ctx, major)
	if err != nil {
		return nil, err
	}

	instances := make([]domain.Instance, 0)
	for _, occ := range occurrences {
		expanded, err := s.expander.Expand(occ, from, to)
		if err != nil {
			s.logger.Warn("skipped occurrence", zap.String("occurrence_id", occ.ID), zap.Error(err))
			continue
		}
		instances = append(instances, expanded...)
	}

	slices.SortStableFunc(instances, func(a, b domain.Instance) int {
		return a.Start.Compare(b.Start)
	})
	return instances, nil
}

// Refresh reloads rows from the source and returns how many were loaded
func (s *CalendarService) Refresh(ctx context.Context) (int, error) {
	rows, err := s.rows.Refresh(ctx)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// UniqueMajors returns the distinct non-empty majors of rows, sorted
func UniqueMajors(rows []domain.ScheduleRow) []string {
	majors := make([]string, 0)
	for _, r := range rows {
		if r.Major != "" {
			majors = append(majors, r.Major)
		}
	}
	slices.Sort(majors)
	return slices.Compact(majors)
}
