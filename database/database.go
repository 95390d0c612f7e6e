package database

import (
	"github.com/techmaster-vietnam/rolekit/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open mở kết nối PostgreSQL qua gorm
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// Migrate runs database migrations for rolekit models
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}
