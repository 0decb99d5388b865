package repositories

import (
	"context"

	"room-scheduler/internal/adapters/persistence/models"
)

// ScheduleRepository defines schedule repository interface
// Read-only access to schedule table
type ScheduleRepository interface {
	List(ctx context.Context) ([]*models.Schedule, error)
	ListByMajor(ctx context.Context, major string) ([]*models.Schedule, error)
	Majors(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}
