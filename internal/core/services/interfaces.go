package services

import (
	"context"
	"time"

	"room-scheduler/internal/core/domain"
)

// Note: RouteAuthorizer implementation is in route_authorizer.go
// Note: ScheduleProjector implementation is in schedule_projector.go

// ScheduleSource supplies raw schedule rows
type ScheduleSource interface {
	FetchRows(ctx context.Context) ([]domain.ScheduleRow, error)
}

// RowProvider serves schedule rows, possibly cached
type RowProvider interface {
	Rows(ctx context.Context) ([]domain.ScheduleRow, error)
	Refresh(ctx context.Context) ([]domain.ScheduleRow, error)
}

// CalendarReader defines what the calendar handlers need
type CalendarReader interface {
	Majors(ctx context.Context) ([]string, error)
	Occurrences(ctx context.Context, major string) ([]domain.CalendarOccurrence, error)
	Instances(ctx context.Context, major string, from, to time.Time) ([]domain.Instance, error)
	Refresh(ctx context.Context) (int, error)
}
