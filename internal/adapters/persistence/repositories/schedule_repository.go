package repositories

import (
	"context"

	"room-scheduler/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// scheduleRepository implements ScheduleRepository interface
// This is READ-ONLY access to the scheduling backend's schedule table
type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

// List returns every scheduled class ordered by id
func (r *scheduleRepository) List(ctx context.Context) ([]*models.Schedule, error) {
	var schedules []*models.Schedule
	err := r.db.WithContext(ctx).
		Where("sched_time IS NOT NULL AND sched_time <> ''").
		Order("id").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

// ListByMajor returns the classes of one major
func (r *scheduleRepository) ListByMajor(ctx context.Context, major string) ([]*models.Schedule, error) {
	var schedules []*models.Schedule
	err := r.db.WithContext(ctx).
		Where("major = ?", major).
		Order("id").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

// Majors lists the distinct majors present in the table
func (r *scheduleRepository) Majors(ctx context.Context) ([]string, error) {
	var majors []string
	err := r.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("major IS NOT NULL AND major <> ''").
		Distinct("major").
		Order("major").
		Pluck("major", &majors).Error
	return majors, err
}

// Ping checks the database connection
func (r *scheduleRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
