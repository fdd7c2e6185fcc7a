package users

import (
	"time"
)

type User struct {
	ID           uint    `gorm:"primaryKey"`
	Name         string
	Lastname     string
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Password     *string
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Role         Role    `gorm:"type:varchar(20);not null;default:'student'"`
	IsVerified   bool

	Profile *UserProfile

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) DisplayName() string {
	if u.Name == "" && u.Lastname == "" {
		return u.Email
	}
	if u.Lastname == "" {
		return u.Name
	}
	return u.Name + " " + u.Lastname
}
