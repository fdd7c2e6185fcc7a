package stripewebhooks

import (
	"log"

	"eduplus-app/database"
	"eduplus-app/internal/domain/billing"

	"github.com/stripe/stripe-go/v75"
)

// payment_intent.succeeded only promotes an existing payment; enrollment and
// invoicing are driven by checkout.session.completed, which the gateway fires
// for the same transaction.
func handlePaymentIntentSucceeded(intent *stripe.PaymentIntent) error {
	if err := billing.MarkCompleted(database.DB, intent.ID); err != nil {
		return err
	}
	log.Printf("payment %s marked completed", intent.ID)
	return nil
}

func handlePaymentIntentFailed(intent *stripe.PaymentIntent) error {
	reason := "unknown error"
	if intent.LastPaymentError != nil && intent.LastPaymentError.Msg != "" {
		reason = intent.LastPaymentError.Msg
	}
	if err := billing.SetStatus(database.DB, intent.ID, billing.StatusFailed, "Payment failed: "+reason); err != nil {
		return err
	}
	log.Printf("payment %s marked failed: %s", intent.ID, reason)
	return nil
}
