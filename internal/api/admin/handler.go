package admin

import (
	"net/http"
	"time"

	"eduplus-app/database"
	"eduplus-app/internal/domain/billing"
	"eduplus-app/internal/domain/catalog"
	"eduplus-app/internal/domain/enrollment"
	"eduplus-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Lastname   string `json:"lastname"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
	CreatedAt  string `json:"created_at"`
}

type AdminPayment struct {
	ID          uint    `json:"id"`
	Email       string  `json:"email"`
	CourseTitle *string `json:"course_title,omitempty"`
	ReferenceID string  `json:"reference_id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

type AdminStats struct {
	TotalUsers       int            `json:"total_users"`
	TotalCourses     int            `json:"total_courses"`
	TotalEnrollments int            `json:"total_enrollments"`
	TotalRevenue     float64        `json:"total_revenue"`
	RecentRevenue    float64        `json:"recent_revenue"`
	PaymentsByStatus map[string]int `json:"payments_by_status"`
}

func ListAllUsers(c *gin.Context) {
	var list []users.User
	if err := database.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	out := make([]AdminUser, 0, len(list))
	for _, u := range list {
		out = append(out, AdminUser{
			ID:         u.ID,
			Name:       u.Name,
			Lastname:   u.Lastname,
			Email:      u.Email,
			Role:       string(u.Role),
			IsVerified: u.IsVerified,
			CreatedAt:  u.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	c.JSON(http.StatusOK, out)
}

func ListAllPayments(c *gin.Context) {
	var payments []billing.Payment
	if err := database.DB.Preload("User").Preload("Course").Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	out := make([]AdminPayment, 0, len(payments))
	for _, p := range payments {
		var courseTitle *string
		if p.Course != nil {
			courseTitle = &p.Course.Title
		}
		out = append(out, AdminPayment{
			ID:          p.ID,
			Email:       p.User.Email,
			CourseTitle: courseTitle,
			ReferenceID: p.ReferenceID,
			Amount:      p.Amount,
			Currency:    p.Currency,
			Status:      p.Status,
			CreatedAt:   p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	c.JSON(http.StatusOK, out)
}

func GetAdminStats(c *gin.Context) {
	var stats AdminStats

	var totalUsers, totalCourses, totalEnrollments int64
	database.DB.Model(&users.User{}).Count(&totalUsers)
	database.DB.Model(&catalog.Course{}).Count(&totalCourses)
	database.DB.Model(&enrollment.Enrollment{}).Count(&totalEnrollments)

	var totalRevenue, recentRevenue float64
	database.DB.Model(&billing.Payment{}).
		Where("status = ?", billing.StatusCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalRevenue)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&billing.Payment{}).
		Where("status = ? AND created_at >= ?", billing.StatusCompleted, thirtyDaysAgo).
		Select("COALESCE(SUM(amount), 0)").Scan(&recentRevenue)

	type statusCount struct {
		Status string
		Count  int
	}
	var counts []statusCount
	database.DB.Model(&billing.Payment{}).
		Select("status, COUNT(id) as count").
		Group("status").
		Scan(&counts)

	stats.TotalUsers = int(totalUsers)
	stats.TotalCourses = int(totalCourses)
	stats.TotalEnrollments = int(totalEnrollments)
	stats.TotalRevenue = totalRevenue
	stats.RecentRevenue = recentRevenue
	stats.PaymentsByStatus = map[string]int{}
	for _, sc := range counts {
		stats.PaymentsByStatus[sc.Status] = sc.Count
	}

	c.JSON(http.StatusOK, stats)
}

func GetUserDetails(c *gin.Context) {
	userID := c.Param("id")

	var user users.User
	if err := database.DB.Preload("Profile").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var payments []billing.Payment
	if err := database.DB.Preload("Course").Where("user_id = ?", userID).Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	var enrollments []enrollment.Enrollment
	if err := database.DB.Preload("Course").Where("student_id = ?", userID).Find(&enrollments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch enrollments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        user,
		"payments":    payments,
		"enrollments": enrollments,
	})
}

// UpdateUserRole promotes or demotes an account. This is the only way to mint
// instructors and admins.
func UpdateUserRole(c *gin.Context) {
	userID := c.Param("id")

	var body struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing role"})
		return
	}
	role := users.ParseRole(body.Role)

	var user users.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := database.DB.Model(&user).Update("role", role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	notif := users.Notification{
		UserID:  user.ID,
		Title:   "Your account role changed",
		Message: "Your account is now a " + string(role) + " account.",
		Kind:    "system",
	}
	database.DB.Create(&notif)

	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "role": role})
}
