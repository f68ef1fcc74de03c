package config

import (
	"fmt"
	"log"
	"os"

	"github.com/humayun7777/medicureon-backend/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// LoadEnv reads .env if present. Missing file is fine in production where
// the environment comes from the platform.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
}

// InitDB opens Postgres and migrates the tracking schema. The handle is
// returned for injection rather than stored in a package global.
func InitDB() *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.DailyLog{},
		&models.MealEntry{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	return db
}
