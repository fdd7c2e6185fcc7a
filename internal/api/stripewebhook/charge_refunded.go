package stripewebhooks

import (
	"errors"
	"log"

	"eduplus-app/database"
	"eduplus-app/internal/domain/billing"
	"eduplus-app/internal/domain/enrollment"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

func handleChargeRefunded(charge *stripe.Charge) error {
	if charge.PaymentIntent == nil || charge.PaymentIntent.ID == "" {
		return nil
	}
	intentID := charge.PaymentIntent.ID

	var payment billing.Payment
	err := database.DB.Where("stripe_payment_id = ?", intentID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// refund for a transaction we never recorded; nothing to undo
		return nil
	}
	if err != nil {
		return err
	}

	if err := billing.SetStatus(database.DB, intentID, billing.StatusRefunded, ""); err != nil {
		return err
	}

	// Only a full refund takes the course away.
	if charge.Refunded && payment.CourseID != nil {
		if err := enrollment.Revoke(database.DB, payment.UserID, *payment.CourseID); err != nil {
			return err
		}
		log.Printf("user %d unenrolled from course %d after full refund of %s",
			payment.UserID, *payment.CourseID, payment.ReferenceID)
	}
	return nil
}
