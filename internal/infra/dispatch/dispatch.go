// Package dispatch wires a settled invoice to its side effects: the rendered
// document and the confirmation email. Both are best-effort; the caller logs
// failures and moves on.
package dispatch

import (
	"fmt"

	"eduplus-app/internal/domain/billing"
	"eduplus-app/internal/infra/invoicedoc"
	"eduplus-app/internal/infra/mailer"

	"gorm.io/gorm"
)

type InvoiceDispatcher struct{}

func (InvoiceDispatcher) Dispatch(db *gorm.DB, inv billing.Invoice) error {
	var payment billing.Payment
	if err := db.Preload("User").Preload("Course").First(&payment, inv.PaymentID).Error; err != nil {
		return fmt.Errorf("dispatch: load payment: %w", err)
	}

	courseTitle := ""
	if payment.Course != nil {
		courseTitle = payment.Course.Title
	}
	if inv.BillingName == "" {
		inv.BillingName = payment.User.DisplayName()
	}

	path, err := invoicedoc.Render(inv, payment, courseTitle)
	if err != nil {
		return err
	}
	if err := db.Model(&billing.Invoice{}).
		Where("id = ?", inv.ID).
		Update("document_path", path).Error; err != nil {
		return fmt.Errorf("dispatch: store document path: %w", err)
	}

	if err := mailer.SendInvoiceEmail(payment.User.DisplayName(), payment.User.Email, inv.InvoiceNumber, path); err != nil {
		return fmt.Errorf("dispatch: invoice email: %w", err)
	}
	return nil
}
