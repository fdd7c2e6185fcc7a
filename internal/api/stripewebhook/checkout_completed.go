package stripewebhooks

import (
	"context"
	"errors"

	"eduplus-app/database"
	"eduplus-app/internal/infra/cache"
	"eduplus-app/internal/infra/dispatch"
	"eduplus-app/internal/reconcile"

	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

func handleCheckoutSessionCompleted(session *stripe.CheckoutSession) error {
	// The webhook payload carries only the payment intent id; totals and
	// metadata are already on the session object.
	if session.PaymentIntent == nil || session.PaymentIntent.ID == "" {
		full, err := checkoutsession.Get(session.ID, nil)
		if err != nil {
			return err
		}
		session = full
	}
	if session.PaymentIntent == nil || session.PaymentIntent.ID == "" {
		return errors.New("checkout session missing payment intent")
	}

	meta, err := reconcile.ParseMetadata(session.Metadata)
	if err != nil {
		return err
	}

	_, err = reconcile.Settle(database.DB, reconcile.SettleInput{
		StripePaymentID: session.PaymentIntent.ID,
		AmountTotal:     session.AmountTotal,
		Currency:        string(session.Currency),
		Meta:            meta,
	}, dispatch.InvoiceDispatcher{})
	if err != nil {
		return err
	}

	// The selection is consumed; without this it would linger until its TTL
	// when the redirect never arrives.
	cache.ClearAppliedCoupon(context.Background(), meta.UserID, meta.CourseID)
	return nil
}
