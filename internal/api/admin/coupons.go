package admin

import (
	"net/http"
	"strings"
	"time"

	"eduplus-app/database"
	"eduplus-app/internal/domain/billing"
	"eduplus-app/internal/domain/catalog"

	"github.com/gin-gonic/gin"
)

type couponInput struct {
	Code            string     `json:"code" binding:"required"`
	Description     string     `json:"description"`
	DiscountAmount  *float64   `json:"discount_amount"`
	DiscountPercent *int       `json:"discount_percent"`
	ValidFrom       *time.Time `json:"valid_from"`
	ValidUntil      *time.Time `json:"valid_until"`
	MaxUses         *int       `json:"max_uses"`
	IsSingleUse     bool       `json:"is_single_use"`
	IsActive        *bool      `json:"is_active"`
	CourseIDs       []uint     `json:"course_ids"`
}

func (in *couponInput) validate() string {
	if in.DiscountAmount == nil && in.DiscountPercent == nil {
		return "Set either a discount amount or a discount percent"
	}
	if in.DiscountAmount != nil && in.DiscountPercent != nil {
		return "Set only one of discount amount and discount percent"
	}
	if in.DiscountPercent != nil && (*in.DiscountPercent < 1 || *in.DiscountPercent > 100) {
		return "Discount percent must be between 1 and 100"
	}
	if in.DiscountAmount != nil && *in.DiscountAmount <= 0 {
		return "Discount amount must be positive"
	}
	return ""
}

func ListCoupons(c *gin.Context) {
	var coupons []billing.Coupon
	if err := database.DB.Preload("Courses").Order("created_at DESC").Find(&coupons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load coupons"})
		return
	}
	c.JSON(http.StatusOK, coupons)
}

func CreateCoupon(c *gin.Context) {
	var in couponInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing coupon code"})
		return
	}
	if msg := in.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	validFrom := time.Now()
	if in.ValidFrom != nil {
		validFrom = *in.ValidFrom
	}

	coupon := billing.Coupon{
		Code:            strings.ToUpper(strings.TrimSpace(in.Code)),
		Description:     in.Description,
		DiscountAmount:  in.DiscountAmount,
		DiscountPercent: in.DiscountPercent,
		ValidFrom:       validFrom,
		ValidUntil:      in.ValidUntil,
		MaxUses:         in.MaxUses,
		IsSingleUse:     in.IsSingleUse,
		IsActive:        active,
	}

	if len(in.CourseIDs) > 0 {
		var courses []catalog.Course
		if err := database.DB.Find(&courses, in.CourseIDs).Error; err != nil || len(courses) != len(in.CourseIDs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown course in course_ids"})
			return
		}
		coupon.Courses = courses
	}

	if err := database.DB.Create(&coupon).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A coupon with that code already exists"})
		return
	}

	c.JSON(http.StatusCreated, coupon)
}

func UpdateCoupon(c *gin.Context) {
	var coupon billing.Coupon
	if err := database.DB.First(&coupon, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
		return
	}

	var in couponInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing coupon code"})
		return
	}
	if msg := in.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	coupon.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	coupon.Description = in.Description
	coupon.DiscountAmount = in.DiscountAmount
	coupon.DiscountPercent = in.DiscountPercent
	if in.ValidFrom != nil {
		coupon.ValidFrom = *in.ValidFrom
	}
	coupon.ValidUntil = in.ValidUntil
	coupon.MaxUses = in.MaxUses
	coupon.IsSingleUse = in.IsSingleUse
	if in.IsActive != nil {
		coupon.IsActive = *in.IsActive
	}

	if err := database.DB.Save(&coupon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update coupon"})
		return
	}

	if in.CourseIDs != nil {
		var courses []catalog.Course
		if len(in.CourseIDs) > 0 {
			if err := database.DB.Find(&courses, in.CourseIDs).Error; err != nil || len(courses) != len(in.CourseIDs) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown course in course_ids"})
				return
			}
		}
		if err := database.DB.Model(&coupon).Association("Courses").Replace(courses); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update course list"})
			return
		}
	}

	c.JSON(http.StatusOK, coupon)
}

// DeactivateCoupon retires a code without deleting its usage history.
func DeactivateCoupon(c *gin.Context) {
	result := database.DB.Model(&billing.Coupon{}).
		Where("id = ?", c.Param("id")).
		Update("is_active", false)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate coupon"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon deactivated"})
}
