package courses

import (
	"net/http"
	"strconv"
	"time"

	"eduplus-app/database"
	"eduplus-app/internal/domain/catalog"
	"eduplus-app/internal/domain/enrollment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// CompleteContent marks one lesson done for the caller. Requires an active
// enrollment in the course the content belongs to.
func CompleteContent(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	contentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content id"})
		return
	}

	var content catalog.Content
	if err := database.DB.Preload("Module").First(&content, contentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		return
	}

	enrolled, err := enrollment.IsEnrolled(database.DB, userID, content.Module.CourseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check enrollment"})
		return
	}
	if !enrolled {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not enrolled in this course"})
		return
	}

	if err := enrollment.MarkContentCompleted(database.DB, userID, content.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record progress"})
		return
	}

	now := time.Now()
	cp := enrollment.CourseProgress{
		StudentID:      userID,
		CourseID:       content.Module.CourseID,
		LastAccessedAt: &now,
	}
	database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_accessed_at", "updated_at"}),
	}).Create(&cp)

	percent, err := enrollment.ProgressPercent(database.DB, userID, content.Module.CourseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Content completed", "progress_percent": percent})
}

// GetCourseProgress reports the caller's completion percentage for a course.
func GetCourseProgress(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	courseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course id"})
		return
	}

	enrolled, err := enrollment.IsEnrolled(database.DB, userID, uint(courseID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check enrollment"})
		return
	}
	if !enrolled {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not enrolled in this course"})
		return
	}

	percent, err := enrollment.ProgressPercent(database.DB, userID, uint(courseID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"course_id": courseID, "progress_percent": percent})
}
