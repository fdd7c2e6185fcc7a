package stripewebhooks

import (
	"log"

	"eduplus-app/database"
	"eduplus-app/internal/domain/billing"
	stripestatus "eduplus-app/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
)

func handleDisputeCreated(dispute *stripe.Dispute) error {
	if dispute.PaymentIntent == nil || dispute.PaymentIntent.ID == "" {
		return nil
	}
	return billing.SetStatus(
		database.DB,
		dispute.PaymentIntent.ID,
		billing.StatusDisputed,
		"Dispute created: "+string(dispute.Reason),
	)
}

func handleDisputeClosed(dispute *stripe.Dispute) error {
	if dispute.PaymentIntent == nil || dispute.PaymentIntent.ID == "" {
		return nil
	}
	intentID := dispute.PaymentIntent.ID

	switch stripestatus.NormalizeDisputeStatus(string(dispute.Status)) {
	case "won":
		log.Printf("dispute for payment %s won", intentID)
		return billing.MarkCompleted(database.DB, intentID)
	case "lost":
		log.Printf("dispute for payment %s lost", intentID)
		return billing.SetStatus(database.DB, intentID, billing.StatusRefunded, "Dispute lost")
	default:
		// other outcomes leave the disputed tag in place
		return nil
	}
}
