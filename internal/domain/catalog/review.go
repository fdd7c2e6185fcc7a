package catalog

import (
	"time"

	"eduplus-app/internal/domain/users"

	"gorm.io/gorm"
)

// Review is one student's rating of a course. One review per (course, student).
type Review struct {
	ID        uint       `gorm:"primaryKey"`
	CourseID  uint       `gorm:"uniqueIndex:idx_reviews_course_student"`
	Course    Course     `gorm:"constraint:OnDelete:CASCADE"`
	StudentID uint       `gorm:"uniqueIndex:idx_reviews_course_student"`
	Student   users.User `gorm:"constraint:OnDelete:CASCADE"`

	Rating  int `gorm:"not null"`
	Comment string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AverageRating computes the course's mean rating on demand; zero when unrated.
func AverageRating(db *gorm.DB, courseID uint) (float64, error) {
	var avg *float64
	err := db.Model(&Review{}).
		Where("course_id = ?", courseID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
