package database

import (
	"log"
	"os"

	"eduplus-app/internal/domain/billing"
	"eduplus-app/internal/domain/catalog"
	"eduplus-app/internal/domain/enrollment"
	"eduplus-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatal("AutoMigrate error:", err)
	}

	log.Println("Connected and migrated successfully")
}

// Migrate creates/updates the schema for every domain model. Shared with the
// test helpers, which run it against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// accounts
		&users.User{},
		&users.UserProfile{},
		&users.Notification{},
		&users.VerificationToken{},

		// catalog
		&catalog.Category{},
		&catalog.Course{},
		&catalog.Module{},
		&catalog.Content{},
		&catalog.Assignment{},
		&catalog.Review{},

		// enrollment
		&enrollment.Enrollment{},
		&enrollment.CourseProgress{},
		&enrollment.ContentProgress{},

		// billing
		&billing.Payment{},
		&billing.Invoice{},
		&billing.Coupon{},
		&billing.CouponUsage{},
	)
}
