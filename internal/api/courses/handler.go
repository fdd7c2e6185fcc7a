package courses

import (
	"net/http"

	"eduplus-app/database"
	"eduplus-app/internal/domain/catalog"
	"eduplus-app/internal/domain/enrollment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CourseSummary struct {
	ID            uint     `json:"id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Category      string   `json:"category"`
	Instructor    string   `json:"instructor"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discount_price,omitempty"`
	CurrentPrice  float64  `json:"current_price"`
	Difficulty    string   `json:"difficulty"`
	Rating        float64  `json:"rating"`
}

func ListCourses(c *gin.Context) {
	q := database.DB.Preload("Category").Preload("Instructor").Where("is_published = ?", true)
	if slug := c.Query("category"); slug != "" {
		q = q.Joins("JOIN categories ON categories.id = courses.category_id AND categories.slug = ?", slug)
	}

	var list []catalog.Course
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load courses"})
		return
	}

	out := make([]CourseSummary, 0, len(list))
	for _, course := range list {
		rating, _ := catalog.AverageRating(database.DB, course.ID)
		out = append(out, CourseSummary{
			ID:            course.ID,
			Title:         course.Title,
			Slug:          course.Slug,
			Category:      course.Category.Name,
			Instructor:    course.Instructor.DisplayName(),
			Price:         course.Price,
			DiscountPrice: course.DiscountPrice,
			CurrentPrice:  course.CurrentPrice(),
			Difficulty:    course.DifficultyLevel,
			Rating:        rating,
		})
	}

	c.JSON(http.StatusOK, out)
}

func GetCourse(c *gin.Context) {
	slug := c.Param("slug")

	var course catalog.Course
	err := database.DB.
		Preload("Category").
		Preload("Instructor").
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Modules.Contents", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Modules.Assignments").
		Where("slug = ?", slug).
		First(&course).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	rating, _ := catalog.AverageRating(database.DB, course.ID)

	enrolled := false
	if userID := c.GetUint("user_id"); userID != 0 {
		enrolled, _ = enrollment.IsEnrolled(database.DB, userID, course.ID)
	}

	// lesson bodies stay behind the enrollment gate
	if !enrolled {
		for mi := range course.Modules {
			for ci := range course.Modules[mi].Contents {
				course.Modules[mi].Contents[ci].Body = ""
				course.Modules[mi].Contents[ci].URL = ""
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"course":   course,
		"rating":   rating,
		"enrolled": enrolled,
	})
}
