package catalog

import (
	"strings"
	"time"

	"eduplus-app/internal/domain/users"
)

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
	DifficultyExpert       = "expert"
)

type Course struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"not null"`
	Slug  string `gorm:"uniqueIndex;not null"`

	InstructorID uint
	Instructor   users.User
	CategoryID   uint
	Category     Category

	Overview     string
	Objectives   string
	Requirements string

	// Price is authoritative; DiscountPrice, when set, is what the student pays.
	Price         float64 `gorm:"not null;default:0"`
	DiscountPrice *float64

	DifficultyLevel string `gorm:"type:varchar(15);default:'beginner'"`
	Language        string `gorm:"default:'English'"`
	IsPublished     bool

	Modules []Module

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CurrentPrice is the amount a checkout session is opened with.
func (c Course) CurrentPrice() float64 {
	if c.DiscountPrice != nil {
		return *c.DiscountPrice
	}
	return c.Price
}

func (c Course) IsFree() bool {
	return c.CurrentPrice() == 0
}

func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
