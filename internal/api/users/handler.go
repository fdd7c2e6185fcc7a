package usersapi

import (
	"net/http"
	"time"

	"eduplus-app/database"
	"eduplus-app/internal/domain/enrollment"
	"eduplus-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type MeResponse struct {
	ID           uint     `json:"id"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	Lastname     string   `json:"lastname"`
	Role         string   `json:"role"`
	IsVerified   bool     `json:"is_verified"`
	Capabilities []string `json:"capabilities"`
	Profile      *gin.H   `json:"profile,omitempty"`
}

func GetCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.Preload("Profile").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	caps := []string{}
	if user.Role.CanEnroll() {
		caps = append(caps, "enroll")
	}
	if user.Role.CanTeach() {
		caps = append(caps, "teach")
	}
	if user.Role.CanAdministrate() {
		caps = append(caps, "administrate")
	}

	resp := MeResponse{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Lastname:     user.Lastname,
		Role:         string(user.Role),
		IsVerified:   user.IsVerified,
		Capabilities: caps,
	}
	if user.Profile != nil {
		resp.Profile = &gin.H{
			"bio":      user.Profile.Bio,
			"headline": user.Profile.Headline,
			"website":  user.Profile.Website,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// GetMyEnrollments backs the student dashboard: each enrollment with its
// on-demand progress percentage.
func GetMyEnrollments(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var list []enrollment.Enrollment
	if err := database.DB.
		Preload("Course").
		Where("student_id = ? AND active", userID).
		Order("enrolled_at DESC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load enrollments"})
		return
	}

	type entry struct {
		CourseID        uint    `json:"course_id"`
		CourseTitle     string  `json:"course_title"`
		CourseSlug      string  `json:"course_slug"`
		EnrolledAt      string  `json:"enrolled_at"`
		Completed       bool    `json:"completed"`
		ProgressPercent float64 `json:"progress_percent"`
	}
	out := make([]entry, 0, len(list))
	for _, e := range list {
		percent, _ := enrollment.ProgressPercent(database.DB, userID, e.CourseID)
		out = append(out, entry{
			CourseID:        e.CourseID,
			CourseTitle:     e.Course.Title,
			CourseSlug:      e.Course.Slug,
			EnrolledAt:      e.EnrolledAt.Format("2006-01-02"),
			Completed:       e.Completed,
			ProgressPercent: percent,
		})
	}

	c.JSON(http.StatusOK, out)
}

func GetMyNotifications(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var notifications []users.Notification
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	var t users.VerificationToken
	err := database.DB.Where("token = ? AND type = ?", token, "email_verification").First(&t).Error
	if err != nil || t.ExpiresAt.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	if err := database.DB.Model(&users.User{}).Where("id = ?", t.UserID).Update("is_verified", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify user"})
		return
	}

	database.DB.Delete(&t)

	c.JSON(http.StatusOK, gin.H{"message": "Email verified, you can sign in now"})
}
