package enrollment

import (
	"time"

	"eduplus-app/internal/domain/catalog"
	"eduplus-app/internal/domain/users"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseProgress struct {
	ID        uint           `gorm:"primaryKey"`
	StudentID uint           `gorm:"uniqueIndex:idx_course_progress_student_course"`
	Student   users.User     `gorm:"constraint:OnDelete:CASCADE"`
	CourseID  uint           `gorm:"uniqueIndex:idx_course_progress_student_course"`
	Course    catalog.Course `gorm:"constraint:OnDelete:CASCADE"`

	LastAccessedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ContentProgress struct {
	ID        uint            `gorm:"primaryKey"`
	StudentID uint            `gorm:"uniqueIndex:idx_content_progress_student_content"`
	Student   users.User      `gorm:"constraint:OnDelete:CASCADE"`
	ContentID uint            `gorm:"uniqueIndex:idx_content_progress_student_content"`
	Content   catalog.Content `gorm:"constraint:OnDelete:CASCADE"`

	CompletedAt time.Time `gorm:"autoCreateTime"`
}

// MarkContentCompleted records one content item as done; repeats are no-ops.
func MarkContentCompleted(db *gorm.DB, studentID, contentID uint) error {
	cp := ContentProgress{StudentID: studentID, ContentID: contentID}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "content_id"}},
		DoNothing: true,
	}).Create(&cp).Error
}

// ProgressPercent is completed contents over total contents in the course,
// computed on demand. Zero when the course has no content.
func ProgressPercent(db *gorm.DB, studentID, courseID uint) (float64, error) {
	var total int64
	err := db.Model(&catalog.Content{}).
		Joins("JOIN modules ON modules.id = contents.module_id").
		Where("modules.course_id = ?", courseID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	var done int64
	err = db.Model(&ContentProgress{}).
		Joins("JOIN contents ON contents.id = content_progresses.content_id").
		Joins("JOIN modules ON modules.id = contents.module_id").
		Where("content_progresses.student_id = ? AND modules.course_id = ?", studentID, courseID).
		Count(&done).Error
	if err != nil {
		return 0, err
	}
	return float64(done) / float64(total) * 100, nil
}
