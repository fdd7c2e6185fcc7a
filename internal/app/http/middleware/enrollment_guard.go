package middleware

import (
	"net/http"

	"eduplus-app/database"
	"eduplus-app/internal/domain/catalog"
	"eduplus-app/internal/domain/enrollment"

	"github.com/gin-gonic/gin"
)

// RequireEnrollment blocks access to course internals (content, progress,
// reviews) unless the caller holds an active enrollment in the course named by
// the :slug route param. The resolved course is stored in the context so
// handlers do not look it up twice.
func RequireEnrollment() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		slug := c.Param("slug")

		var course catalog.Course
		if err := database.DB.Where("slug = ?", slug).First(&course).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}

		enrolled, err := enrollment.IsEnrolled(database.DB, userID, course.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to check enrollment"})
			return
		}
		if !enrolled {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You are not enrolled in this course"})
			return
		}

		c.Set("course_id", course.ID)
		c.Next()
	}
}
