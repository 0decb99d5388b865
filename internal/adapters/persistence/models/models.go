package models

import "gorm.io/gorm"

// AutoMigrate creates the schedule table for local development databases.
// Deployed gateways read the scheduling backend's existing table and never
// migrate it.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Schedule{},
	)
}
