package config

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	model "ticket-tracker.com/ticket-tracker/internal/models"
)

// New opens the sqlite store and migrates the schema. TranslateError lets the
// repositories detect unique-index violations as gorm.ErrDuplicatedKey.
func New(dsn string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Ticket{}); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	return db
}
