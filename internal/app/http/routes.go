package routes

import (
	adminapi "eduplus-app/internal/api/admin"
	authapi "eduplus-app/internal/api/auth"
	"eduplus-app/internal/api/billing"
	"eduplus-app/internal/api/courses"
	stripewebhooks "eduplus-app/internal/api/stripewebhook"
	usersapi "eduplus-app/internal/api/users"
	"eduplus-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// The webhook reads the raw body for signature checks, so it stays out of
	// the sanitized group.
	r.POST("/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/verify", usersapi.VerifyEmail)
	public.POST("/resend-verification", authapi.ResendVerification)
	public.POST("/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/reset-password", authapi.ResetPassword)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	public.GET("/courses", courses.ListCourses)
	public.GET("/courses/:slug", courses.GetCourse)
	public.GET("/courses/:slug/reviews", courses.ListReviews)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(), middleware.SanitizeInputMiddleware())
	auth.GET("/me", usersapi.GetCurrentUser)
	auth.GET("/me/enrollments", usersapi.GetMyEnrollments)
	auth.GET("/me/notifications", usersapi.GetMyNotifications)
	auth.POST("/change-password", authapi.ChangePassword)

	auth.POST("/courses/:slug/enroll", courses.EnrollFree)
	auth.POST("/courses/:slug/reviews", courses.CreateReview)
	auth.POST("/content/:id/complete", courses.CompleteContent)
	auth.GET("/courses-progress/:id", courses.GetCourseProgress)

	auth.POST("/checkout/:id", billing.CreateCheckoutSession)
	auth.POST("/checkout/:id/coupon", billing.ApplyCoupon)
	auth.DELETE("/checkout/:id/coupon", billing.RemoveCoupon)
	auth.GET("/payment-success", billing.PaymentSuccess)
	auth.GET("/payments", billing.GetPaymentHistory)
	auth.GET("/payments/:id/invoice", billing.GetInvoice)

	// Enrolled students
	enrolled := auth.Group("/")
	enrolled.Use(middleware.RequireEnrollment())
	enrolled.GET("/learn/:slug", courses.GetCourseForLearning)

	// Instructors
	instructor := r.Group("/instructor")
	instructor.Use(middleware.AuthMiddleware(), middleware.RequireInstructor(), middleware.SanitizeInputMiddleware())
	instructor.POST("/courses", courses.CreateCourse)
	instructor.POST("/courses/:id/publish", courses.PublishCourse)
	instructor.POST("/courses/:id/unpublish", courses.UnpublishCourse)
	instructor.POST("/courses/:id/modules", courses.CreateModule)
	instructor.POST("/modules/:id/contents", courses.CreateContent)
	instructor.POST("/modules/:id/assignments", courses.CreateAssignment)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireAdmin(), middleware.SanitizeInputMiddleware())
	admin.GET("/stats", adminapi.GetAdminStats)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/payments", adminapi.ListAllPayments)
	admin.GET("/user/:id", adminapi.GetUserDetails)
	admin.PUT("/user/:id/role", adminapi.UpdateUserRole)
	admin.GET("/coupons", adminapi.ListCoupons)
	admin.POST("/coupons", adminapi.CreateCoupon)
	admin.PUT("/coupons/:id", adminapi.UpdateCoupon)
	admin.POST("/coupons/:id/deactivate", adminapi.DeactivateCoupon)
}
