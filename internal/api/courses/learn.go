package courses

import (
	"net/http"

	"eduplus-app/database"
	"eduplus-app/internal/domain/catalog"
	"eduplus-app/internal/domain/enrollment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetCourseForLearning serves the full course to an enrolled student, lesson
// bodies included. The enrollment guard has already resolved the course and
// stashed its id in the context.
func GetCourseForLearning(c *gin.Context) {
	courseID := c.GetUint("course_id")
	userID := c.GetUint("user_id")

	var course catalog.Course
	err := database.DB.
		Preload("Category").
		Preload("Instructor").
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Modules.Contents", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Modules.Assignments").
		First(&course, courseID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	percent, err := enrollment.ProgressPercent(database.DB, userID, courseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute progress"})
		return
	}

	var completed []enrollment.ContentProgress
	database.DB.
		Joins("JOIN contents ON contents.id = content_progresses.content_id").
		Joins("JOIN modules ON modules.id = contents.module_id AND modules.course_id = ?", courseID).
		Where("content_progresses.student_id = ?", userID).
		Find(&completed)

	completedIDs := make([]uint, 0, len(completed))
	for _, cp := range completed {
		completedIDs = append(completedIDs, cp.ContentID)
	}

	c.JSON(http.StatusOK, gin.H{
		"course":            course,
		"progress_percent":  percent,
		"completed_content": completedIDs,
	})
}
