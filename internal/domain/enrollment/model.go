package enrollment

import (
	"time"

	"eduplus-app/internal/domain/catalog"
	"eduplus-app/internal/domain/users"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Enrollment grants a student access to a course. One row per (student, course);
// the unique index is what keeps concurrent grants from duplicating it.
type Enrollment struct {
	ID        uint           `gorm:"primaryKey"`
	StudentID uint           `gorm:"uniqueIndex:idx_enrollments_student_course"`
	Student   users.User     `gorm:"constraint:OnDelete:CASCADE"`
	CourseID  uint           `gorm:"uniqueIndex:idx_enrollments_student_course"`
	Course    catalog.Course `gorm:"constraint:OnDelete:CASCADE"`

	Active    bool `gorm:"default:true"`
	Completed bool

	EnrolledAt time.Time `gorm:"autoCreateTime"`
}

// Grant enrolls the student, or leaves an existing enrollment untouched.
// Returns the row and whether it was newly created.
func Grant(db *gorm.DB, studentID, courseID uint) (Enrollment, bool, error) {
	e := Enrollment{StudentID: studentID, CourseID: courseID, Active: true}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&e)
	if res.Error != nil {
		return Enrollment{}, false, res.Error
	}
	if res.RowsAffected == 0 {
		err := db.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&e).Error
		return e, false, err
	}
	return e, true, nil
}

// Revoke removes the enrollment entirely. Used on full refunds.
func Revoke(db *gorm.DB, studentID, courseID uint) error {
	return db.Where("student_id = ? AND course_id = ?", studentID, courseID).
		Delete(&Enrollment{}).Error
}

func IsEnrolled(db *gorm.DB, studentID, courseID uint) (bool, error) {
	var n int64
	err := db.Model(&Enrollment{}).
		Where("student_id = ? AND course_id = ? AND active", studentID, courseID).
		Count(&n).Error
	return n > 0, err
}
