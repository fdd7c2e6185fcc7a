package users

import (
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserProfile struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"uniqueIndex"`
	User   User `gorm:"constraint:OnDelete:CASCADE"`

	Bio      string
	Headline string
	Website  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Notification struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"index"`
	User   User `gorm:"constraint:OnDelete:CASCADE"`

	Title   string
	Message string
	Kind    string `gorm:"type:varchar(20);default:'system'"`
	Read    bool

	CreatedAt time.Time
}

// CompleteRegistration is the explicit post-creation step for a new account:
// it guarantees a profile row and queues the welcome notification. The user row
// must already be persisted. Safe to call more than once.
func CompleteRegistration(db *gorm.DB, user *User) error {
	profile := UserProfile{UserID: user.ID}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&profile)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// registration already completed earlier
		return nil
	}

	welcome := Notification{
		UserID:  user.ID,
		Title:   "Welcome to EduPlus!",
		Message: "Browse the catalog and start learning today.",
		Kind:    "system",
	}
	if err := db.Create(&welcome).Error; err != nil {
		// the account is usable without the notification
		log.Printf("welcome notification for user %d failed: %v", user.ID, err)
	}
	return nil
}
