package billing

import (
	"errors"
	"net/http"
	"strconv"

	"eduplus-app/database"
	"eduplus-app/internal/coupon"
	"eduplus-app/internal/domain/catalog"
	"eduplus-app/internal/infra/cache"

	"github.com/gin-gonic/gin"
)

// ApplyCoupon validates a code against a course and stashes the selection
// until checkout-session creation consumes it. Nothing durable is written.
func ApplyCoupon(c *gin.Context) {
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

	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a coupon code"})
		return
	}

	var course catalog.Course
	if err := database.DB.First(&course, courseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	quote, err := coupon.Validate(database.DB, body.Code, course, userID)
	if err != nil {
		switch {
		case errors.Is(err, coupon.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired coupon code"})
		case errors.Is(err, coupon.ErrExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "This coupon has expired or is no longer valid"})
		case errors.Is(err, coupon.ErrNotApplicable):
			c.JSON(http.StatusBadRequest, gin.H{"error": "This coupon is not applicable to this course"})
		case errors.Is(err, coupon.ErrAlreadyUsed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "You have already used this coupon"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate coupon"})
		}
		return
	}

	sel := cache.AppliedCoupon{
		CouponID:       quote.Coupon.ID,
		Code:           quote.Coupon.Code,
		DiscountAmount: quote.DiscountAmount,
		NewPrice:       quote.NewPrice,
	}
	if err := cache.SetAppliedCoupon(c.Request.Context(), userID, course.ID, sel); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store coupon selection"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Coupon applied: " + quote.Descriptor,
		"original_price":  quote.OriginalPrice,
		"new_price":       quote.NewPrice,
		"discount_amount": quote.DiscountAmount,
	})
}

func RemoveCoupon(c *gin.Context) {
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

	cache.ClearAppliedCoupon(c.Request.Context(), userID, uint(courseID))
	c.JSON(http.StatusOK, gin.H{"message": "Coupon removed"})
}
