package billing

import (
	"net/http"
	"os"

	"eduplus-app/database"
	"eduplus-app/internal/infra/cache"
	"eduplus-app/internal/infra/dispatch"
	"eduplus-app/internal/reconcile"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// PaymentSuccess is the synchronous completion signal: the browser lands here
// after paying. It runs the same reconciliation the webhook does, so whichever
// arrives first wins and the other is a no-op.
func PaymentSuccess(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session_id"})
		return
	}

	sess, err := checkoutsession.Get(sessionID, &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Expand: []*string{stripe.String("payment_intent")},
		},
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to retrieve checkout session"})
		return
	}
	if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Checkout session has no payment"})
		return
	}

	meta, err := reconcile.ParseMetadata(sess.Metadata)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Checkout session metadata incomplete", "details": err.Error()})
		return
	}

	result, err := reconcile.Settle(database.DB, reconcile.SettleInput{
		StripePaymentID: sess.PaymentIntent.ID,
		AmountTotal:     sess.AmountTotal,
		Currency:        string(sess.Currency),
		Meta:            meta,
	}, dispatch.InvoiceDispatcher{})
	if err != nil {
		// money or access failed to reconcile; this one the user must see
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment could not be processed", "redirect": "/dashboard"})
		return
	}

	cache.ClearAppliedCoupon(c.Request.Context(), meta.UserID, meta.CourseID)

	c.JSON(http.StatusOK, gin.H{
		"payment": gin.H{
			"reference_id": result.Payment.ReferenceID,
			"amount":       result.Payment.Amount,
			"currency":     result.Payment.Currency,
			"status":       result.Payment.Status,
		},
		"invoice": gin.H{
			"invoice_number":  result.Invoice.InvoiceNumber,
			"subtotal":        result.Invoice.Subtotal,
			"discount_amount": result.Invoice.DiscountAmount,
			"total":           result.Invoice.Total,
		},
		"enrolled": true,
	})
}
