package courses

import (
	"net/http"

	"eduplus-app/database"
	"eduplus-app/internal/domain/catalog"
	"eduplus-app/internal/domain/enrollment"

	"github.com/gin-gonic/gin"
)

// EnrollFree grants access to a zero-priced course directly, no payment flow.
// Paid courses must go through checkout.
func EnrollFree(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var course catalog.Course
	if err := database.DB.Where("slug = ?", c.Param("slug")).First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	if !course.IsPublished {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Course is not available"})
		return
	}
	if !course.IsFree() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This course requires payment"})
		return
	}

	_, created, err := enrollment.Grant(database.DB, userID, course.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enroll"})
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "Already enrolled"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Enrolled successfully"})
}
