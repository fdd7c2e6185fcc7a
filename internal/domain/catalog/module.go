package catalog

import "time"

type Module struct {
	ID       uint `gorm:"primaryKey"`
	CourseID uint `gorm:"index"`

	Title       string `gorm:"not null"`
	Description string
	Order       int `gorm:"column:position;default:0"`

	Contents    []Content
	Assignments []Assignment

	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	ContentVideo    = "video"
	ContentText     = "text"
	ContentFile     = "file"
	ContentExternal = "external"
)

type Content struct {
	ID       uint   `gorm:"primaryKey"`
	ModuleID uint   `gorm:"index"`
	Module   Module `gorm:"constraint:OnDelete:CASCADE"`

	Title string `gorm:"not null"`
	Kind  string `gorm:"type:varchar(15);default:'text'"`
	Body  string
	URL   string
	Order int `gorm:"column:position;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Assignment struct {
	ID       uint   `gorm:"primaryKey"`
	ModuleID uint   `gorm:"index"`
	Module   Module `gorm:"constraint:OnDelete:CASCADE"`

	Title       string `gorm:"not null"`
	Description string
	MaxScore    int `gorm:"default:100"`
	DueAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a Assignment) IsPastDue(now time.Time) bool {
	return a.DueAt != nil && now.After(*a.DueAt)
}
