package courses

import (
	"net/http"

	"eduplus-app/database"
	"eduplus-app/internal/domain/catalog"
	"eduplus-app/internal/domain/enrollment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// CreateReview records or replaces the caller's review of a course. One review
// per student per course; a second submission updates the first.
func CreateReview(c *gin.Context) {
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

	var body struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}

	enrolled, err := enrollment.IsEnrolled(database.DB, userID, course.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check enrollment"})
		return
	}
	if !enrolled {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only enrolled students can review a course"})
		return
	}

	review := catalog.Review{
		CourseID:  course.ID,
		StudentID: userID,
		Rating:    body.Rating,
		Comment:   body.Comment,
	}
	err = database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
	}).Create(&review).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review saved"})
}

func ListReviews(c *gin.Context) {
	var course catalog.Course
	if err := database.DB.Where("slug = ?", c.Param("slug")).First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	var reviews []catalog.Review
	if err := database.DB.
		Preload("Student").
		Where("course_id = ?", course.ID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}

	rating, _ := catalog.AverageRating(database.DB, course.ID)

	type reviewDTO struct {
		Student   string `json:"student"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
		CreatedAt string `json:"created_at"`
	}
	out := make([]reviewDTO, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, reviewDTO{
			Student:   r.Student.DisplayName(),
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt.Format("2006-01-02"),
		})
	}

	c.JSON(http.StatusOK, gin.H{"average_rating": rating, "reviews": out})
}
