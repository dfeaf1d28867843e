// internal/database/database.go
package database

import (
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"dtmap-back/internal/models"
)

// InitDB opens the postgres connection described by DATABASE_URL.
func InitDB() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=dtmap port=5432 sslmode=disable"
	}

	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// MigrateDB creates the model library and scene tables.
func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(&models.ModelRecord{}, &models.Scene{})
}
