package billing

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"eduplus-app/config"
	"eduplus-app/database"
	"eduplus-app/internal/domain/billing"
	"eduplus-app/internal/domain/catalog"
	"eduplus-app/internal/domain/enrollment"
	"eduplus-app/internal/infra/cache"
	"eduplus-app/internal/reconcile"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"gorm.io/gorm"
)

// CreateCheckoutSession opens a gateway-hosted payment flow for one course.
// Price and discount are fixed here and carried in the session metadata; the
// reconciliation core trusts that snapshot, not the catalog, at completion.
func CreateCheckoutSession(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

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

	var course catalog.Course
	if err := database.DB.First(&course, courseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	if !course.IsPublished {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Course is not available"})
		return
	}
	if course.IsFree() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Course is free, enroll directly"})
		return
	}

	already, err := enrollment.IsEnrolled(database.DB, userID, course.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check enrollment"})
		return
	}
	if already {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are already enrolled in this course"})
		return
	}

	originalPrice := course.CurrentPrice()
	discountAmount := 0.0
	var couponID uint

	// Consume the transient selection if one is held and the coupon is still
	// usable; a selection gone stale is silently dropped.
	if sel, selErr := cache.GetAppliedCoupon(c.Request.Context(), userID, course.ID); selErr == nil {
		var cpn billing.Coupon
		dbErr := database.DB.First(&cpn, sel.CouponID).Error
		switch {
		case dbErr == nil && cpn.InWindow(time.Now()):
			couponID = cpn.ID
			discountAmount = sel.DiscountAmount
		case dbErr == nil || errors.Is(dbErr, gorm.ErrRecordNotFound):
			cache.ClearAppliedCoupon(c.Request.Context(), userID, course.ID)
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load coupon"})
			return
		}
	}

	finalPrice := math.Max(0, originalPrice-discountAmount)
	unitAmount := int64(math.Round(finalPrice * 100))

	meta := reconcile.Metadata{
		CourseID:       course.ID,
		UserID:         userID,
		CouponID:       couponID,
		DiscountAmount: discountAmount,
		OriginalPrice:  originalPrice,
	}.Encode()

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(config.APP_URL + "/payments/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(fmt.Sprintf("%s/courses/%d?canceled=1", config.APP_URL, course.ID)),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("eur"),
					UnitAmount: stripe.Int64(unitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(course.Title),
						Description: stripe.String("Course enrollment: " + course.Title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},

		ClientReferenceID: stripe.String(fmt.Sprint(userID)),
		Metadata:          meta,

		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Description: stripe.String("Course enrollment: " + course.Title),
			Metadata:    meta,
		},
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": s.ID, "url": s.URL})
}
