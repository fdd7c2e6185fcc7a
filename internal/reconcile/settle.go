// Package reconcile converges the two completion signals of one checkout —
// the browser redirect and the gateway webhook — onto a single consistent
// state: one payment, one enrollment, one coupon usage, one invoice per
// gateway transaction, no matter how often or in which order the signals
// arrive. Idempotency rests on the storage layer's unique indexes, not on
// read-then-write checks.
package reconcile

import (
	"errors"
	"fmt"
	"log"

	"eduplus-app/internal/coupon"
	"eduplus-app/internal/domain/billing"
	"eduplus-app/internal/domain/enrollment"
	"eduplus-app/internal/domain/users"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Dispatcher turns a freshly created invoice into a durable document and a
// confirmation message. Implementations must be safe to fail: errors are
// logged, never propagated into the settlement.
type Dispatcher interface {
	Dispatch(db *gorm.DB, inv billing.Invoice) error
}

// SettleInput carries everything a completion signal knows about the
// transaction.
type SettleInput struct {
	StripePaymentID string
	// AmountTotal is what the gateway actually charged, in cents.
	AmountTotal int64
	Currency    string
	Meta        Metadata
}

// SettleResult reports what this particular invocation changed.
type SettleResult struct {
	Payment        billing.Payment
	Invoice        billing.Invoice
	PaymentCreated bool
	InvoiceCreated bool
	Enrolled       bool
	CouponApplied  bool
}

// Settle runs the full reconciliation sequence for a completed checkout.
// Safe to call any number of times for the same gateway transaction id.
func Settle(db *gorm.DB, in SettleInput, dispatcher Dispatcher) (SettleResult, error) {
	var out SettleResult

	if in.StripePaymentID == "" {
		return out, errors.New("settle: missing gateway transaction id")
	}

	currency := in.Currency
	if currency == "" {
		currency = "EUR"
	}

	// 1. One payment per gateway transaction. The unique index on
	// stripe_payment_id arbitrates concurrent deliveries; the loser of the
	// insert race falls through to the fetch-and-promote path.
	payment := billing.Payment{
		UserID:          in.Meta.UserID,
		CourseID:        &in.Meta.CourseID,
		StripePaymentID: in.StripePaymentID,
		Amount:          float64(in.AmountTotal) / 100,
		Currency:        currency,
		Status:          billing.StatusCompleted,
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_payment_id"}},
		DoNothing: true,
	}).Create(&payment)
	if res.Error != nil {
		return out, fmt.Errorf("settle: create payment: %w", res.Error)
	}
	out.PaymentCreated = res.RowsAffected > 0
	if !out.PaymentCreated {
		// Promote an earlier pending row, never regress a completed one.
		if err := billing.MarkCompleted(db, in.StripePaymentID); err != nil {
			return out, fmt.Errorf("settle: complete payment: %w", err)
		}
		if err := db.Where("stripe_payment_id = ?", in.StripePaymentID).First(&payment).Error; err != nil {
			return out, fmt.Errorf("settle: load payment: %w", err)
		}
	}
	out.Payment = payment

	// 2. Coupon usage, at most once per payment. A coupon deleted since
	// session creation simply yields no usage row.
	var appliedCoupon *billing.Coupon
	if in.Meta.CouponID != 0 {
		var cpn billing.Coupon
		err := db.First(&cpn, in.Meta.CouponID).Error
		switch {
		case err == nil:
			applied, applyErr := coupon.Apply(db, cpn.ID, payment.ID, in.Meta.UserID)
			if applyErr != nil {
				if errors.Is(applyErr, coupon.ErrExhausted) {
					// the charge already happened at the quoted price;
					// the cap just prevents recording one more usage
					log.Printf("settle: coupon %d exhausted for payment %s", cpn.ID, in.StripePaymentID)
				} else {
					return out, fmt.Errorf("settle: apply coupon: %w", applyErr)
				}
			}
			out.CouponApplied = applied
			appliedCoupon = &cpn
		case errors.Is(err, gorm.ErrRecordNotFound):
			log.Printf("settle: coupon %d referenced by payment %s no longer exists", in.Meta.CouponID, in.StripePaymentID)
		default:
			return out, fmt.Errorf("settle: load coupon: %w", err)
		}
	}

	// 3. Access. Already-enrolled students (duplicate delivery, free path)
	// keep their existing row.
	_, created, err := enrollment.Grant(db, in.Meta.UserID, in.Meta.CourseID)
	if err != nil {
		return out, fmt.Errorf("settle: grant enrollment: %w", err)
	}
	out.Enrolled = created

	// 4. One invoice per payment, priced from checkout-time metadata.
	subtotal := in.Meta.OriginalPrice
	if subtotal == 0 {
		subtotal = payment.Amount
	}
	invoice := billing.Invoice{
		PaymentID:      payment.ID,
		UserID:         &in.Meta.UserID,
		Subtotal:       subtotal,
		DiscountAmount: in.Meta.DiscountAmount,
		Total:          payment.Amount,
		BillingName:    billingName(db, in.Meta.UserID),
	}
	if appliedCoupon != nil && appliedCoupon.DiscountPercent != nil {
		invoice.DiscountPercent = float64(*appliedCoupon.DiscountPercent)
	}
	invCreated, err := billing.CreateForPayment(db, &invoice)
	if err != nil {
		return out, fmt.Errorf("settle: create invoice: %w", err)
	}
	out.InvoiceCreated = invCreated
	if !out.InvoiceCreated {
		if err := db.Where("payment_id = ?", payment.ID).First(&invoice).Error; err != nil {
			return out, fmt.Errorf("settle: load invoice: %w", err)
		}
	}
	out.Invoice = invoice

	// Document and email only on the creation branch, and never fatally:
	// the money and the access are already settled.
	if out.InvoiceCreated && dispatcher != nil {
		if err := dispatcher.Dispatch(db, invoice); err != nil {
			log.Printf("settle: invoice %s dispatch failed: %v", invoice.InvoiceNumber, err)
		}
	}

	return out, nil
}

func billingName(db *gorm.DB, userID uint) string {
	var u users.User
	if err := db.First(&u, userID).Error; err != nil {
		return ""
	}
	return u.DisplayName()
}
