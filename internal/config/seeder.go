package config

import (
	"room-scheduler/internal/adapters/persistence/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder fills an empty local schedule table with sample classes.
// This is for development only; production reads the backend's table.
type Seeder struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, log *zap.Logger) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{db: db, log: log}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	if err := models.AutoMigrate(s.db); err != nil {
		return err
	}

	inserted, err := s.seedSchedule()
	if err != nil {
		s.log.Warn("schedule seeder skipped", zap.Error(err))
		return nil
	}

	s.log.Info("database seeding completed", zap.Int("schedule_rows", inserted))
	return nil
}

// seedSchedule inserts SampleSchedule when the table is empty
func (s *Seeder) seedSchedule() (int, error) {
	var count int64
	if err := s.db.Model(&models.Schedule{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	rows := SampleSchedule()
	if err := s.db.Create(&rows).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}

// SampleSchedule is a small two-major timetable
func SampleSchedule() []models.Schedule {
	return []models.Schedule{
		{ProgramSession: "Regular", Major: "Informatics", Curriculum: "2024", ClassName: "IF-A", Subject: "Algorithms", Credit: 3, Room: "Lab 1", SchedTime: "Mon 08:00-Mon 10:30", Lecturer: "Dewi Lestari"},
		{ProgramSession: "Regular", Major: "Informatics", Curriculum: "2024", ClassName: "IF-A", Subject: "Databases", Credit: 3, Room: "Lab 2", SchedTime: "Wed 13:00-15:30", Lecturer: "Andi Saputra"},
		{ProgramSession: "Regular", Major: "Informatics", Curriculum: "2024", ClassName: "IF-B", Subject: "Operating Systems", Credit: 2, Room: "R 204", SchedTime: "Thu 10:00-Thu 11:40", Lecturer: "Rina Wulandari"},
		{ProgramSession: "Regular", Major: "Electrical Engineering", Curriculum: "2023", ClassName: "EE-A", Subject: "Circuits", Credit: 3, Room: "R 101", SchedTime: "Tue 09:00-Tue 11:30", Lecturer: "Budi Santoso"},
		{ProgramSession: "Evening", Major: "Electrical Engineering", Curriculum: "2023", ClassName: "EE-K", Subject: "Signals", Credit: 2, Room: "R 102", SchedTime: "Fri 18:30-20:10", Lecturer: "Sari Handayani"},
	}
}
