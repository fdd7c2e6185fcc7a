package courses

import (
	"net/http"
	"strconv"
	"time"

	"eduplus-app/database"
	"eduplus-app/internal/domain/catalog"

	"github.com/gin-gonic/gin"
)

// Instructor-facing course management. Route guards already ensured the
// caller's role can teach; these handlers still scope every write to the
// caller's own courses.

func CreateCourse(c *gin.Context) {
	userID := c.GetUint("user_id")

	var body struct {
		Title         string   `json:"title" binding:"required"`
		CategoryID    uint     `json:"category_id" binding:"required"`
		Overview      string   `json:"overview"`
		Objectives    string   `json:"objectives"`
		Requirements  string   `json:"requirements"`
		Price         float64  `json:"price"`
		DiscountPrice *float64 `json:"discount_price"`
		Difficulty    string   `json:"difficulty"`
		Language      string   `json:"language"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category catalog.Category
	if err := database.DB.First(&category, body.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}

	course := catalog.Course{
		Title:           body.Title,
		Slug:            catalog.Slugify(body.Title),
		InstructorID:    userID,
		CategoryID:      category.ID,
		Overview:        body.Overview,
		Objectives:      body.Objectives,
		Requirements:    body.Requirements,
		Price:           body.Price,
		DiscountPrice:   body.DiscountPrice,
		DifficultyLevel: body.Difficulty,
	}
	if course.DifficultyLevel == "" {
		course.DifficultyLevel = catalog.DifficultyBeginner
	}
	if body.Language != "" {
		course.Language = body.Language
	}

	if err := database.DB.Create(&course).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A course with this title may already exist"})
		return
	}

	c.JSON(http.StatusCreated, course)
}

func ownedCourse(c *gin.Context) (catalog.Course, bool) {
	userID := c.GetUint("user_id")
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course id"})
		return catalog.Course{}, false
	}

	var course catalog.Course
	if err := database.DB.First(&course, courseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return catalog.Course{}, false
	}
	if course.InstructorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your course"})
		return catalog.Course{}, false
	}
	return course, true
}

func PublishCourse(c *gin.Context) {
	course, ok := ownedCourse(c)
	if !ok {
		return
	}
	if err := database.DB.Model(&course).Update("is_published", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish course"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course published"})
}

func UnpublishCourse(c *gin.Context) {
	course, ok := ownedCourse(c)
	if !ok {
		return
	}
	if err := database.DB.Model(&course).Update("is_published", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unpublish course"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course unpublished"})
}

func CreateModule(c *gin.Context) {
	course, ok := ownedCourse(c)
	if !ok {
		return
	}

	var body struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Order       int    `json:"order"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	module := catalog.Module{
		CourseID:    course.ID,
		Title:       body.Title,
		Description: body.Description,
		Order:       body.Order,
	}
	if err := database.DB.Create(&module).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create module"})
		return
	}

	c.JSON(http.StatusCreated, module)
}

func CreateContent(c *gin.Context) {
	userID := c.GetUint("user_id")

	moduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid module id"})
		return
	}

	var module catalog.Module
	if err := database.DB.First(&module, moduleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Module not found"})
		return
	}
	var course catalog.Course
	if err := database.DB.First(&course, module.CourseID).Error; err != nil || course.InstructorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your course"})
		return
	}

	var body struct {
		Title string `json:"title" binding:"required"`
		Kind  string `json:"kind"`
		Body  string `json:"body"`
		URL   string `json:"url"`
		Order int    `json:"order"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content := catalog.Content{
		ModuleID: module.ID,
		Title:    body.Title,
		Kind:     body.Kind,
		Body:     body.Body,
		URL:      body.URL,
		Order:    body.Order,
	}
	if content.Kind == "" {
		content.Kind = catalog.ContentText
	}
	if err := database.DB.Create(&content).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create content"})
		return
	}

	c.JSON(http.StatusCreated, content)
}

func CreateAssignment(c *gin.Context) {
	userID := c.GetUint("user_id")

	moduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid module id"})
		return
	}

	var module catalog.Module
	if err := database.DB.First(&module, moduleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Module not found"})
		return
	}
	var course catalog.Course
	if err := database.DB.First(&course, module.CourseID).Error; err != nil || course.InstructorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your course"})
		return
	}

	var body struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		MaxScore    int        `json:"max_score"`
		DueAt       *time.Time `json:"due_at"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment := catalog.Assignment{
		ModuleID:    module.ID,
		Title:       body.Title,
		Description: body.Description,
		MaxScore:    body.MaxScore,
		DueAt:       body.DueAt,
	}
	if assignment.MaxScore == 0 {
		assignment.MaxScore = 100
	}
	if err := database.DB.Create(&assignment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create assignment"})
		return
	}

	c.JSON(http.StatusCreated, assignment)
}
