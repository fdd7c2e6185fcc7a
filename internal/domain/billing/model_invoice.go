package billing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"eduplus-app/internal/domain/users"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Invoice is 1:1 with Payment. Numbering restarts each calendar month:
// INV-YYYYMM-NNNN.
type Invoice struct {
	ID        uint    `gorm:"primaryKey"`
	PaymentID uint    `gorm:"uniqueIndex;not null"`
	Payment   Payment `gorm:"constraint:OnDelete:CASCADE"`
	UserID    *uint
	User      *users.User

	InvoiceNumber string `gorm:"uniqueIndex"`

	Subtotal        float64
	TaxPercent      float64
	TaxAmount       float64
	DiscountPercent float64
	DiscountAmount  float64
	Total           float64

	BillingName  string
	Notes        string
	DocumentPath string

	CreatedAt time.Time
}

func (inv *Invoice) BeforeCreate(tx *gorm.DB) error {
	inv.FillTotals()
	if inv.InvoiceNumber == "" {
		n, err := nextInvoiceNumber(tx, time.Now())
		if err != nil {
			return err
		}
		inv.InvoiceNumber = n
	}
	return nil
}

// FillTotals derives tax/discount amounts from percentages when only the
// percentage was supplied, and the grand total when it was not given.
func (inv *Invoice) FillTotals() {
	if inv.TaxPercent != 0 && inv.TaxAmount == 0 {
		inv.TaxAmount = inv.Subtotal * inv.TaxPercent / 100
	}
	if inv.DiscountPercent != 0 && inv.DiscountAmount == 0 {
		inv.DiscountAmount = inv.Subtotal * inv.DiscountPercent / 100
	}
	if inv.Total == 0 {
		inv.Total = inv.Subtotal - inv.DiscountAmount + inv.TaxAmount
	}
}

// CreateForPayment inserts the invoice backing its payment. A pre-existing
// invoice for the same payment is left alone (duplicate delivery); a lost
// race on the monthly invoice number is retried with a freshly derived one.
// Returns whether this call created the row.
func CreateForPayment(db *gorm.DB, inv *Invoice) (bool, error) {
	for attempt := 0; attempt < 3; attempt++ {
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_id"}},
			DoNothing: true,
		}).Create(inv)
		if res.Error == nil {
			return res.RowsAffected > 0, nil
		}
		if !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, res.Error
		}
		// another settlement took the number we read; derive the next one
		inv.ID = 0
		inv.InvoiceNumber = ""
	}
	return false, fmt.Errorf("invoice number contention for payment %d", inv.PaymentID)
}

func nextInvoiceNumber(tx *gorm.DB, now time.Time) (string, error) {
	prefix := "INV-" + now.Format("200601")

	var last Invoice
	err := tx.Where("invoice_number LIKE ?", prefix+"-%").
		Order("invoice_number DESC").
		First(&last).Error

	seq := 1
	switch {
	case err == nil:
		parts := strings.Split(last.InvoiceNumber, "-")
		n, convErr := strconv.Atoi(parts[len(parts)-1])
		if convErr != nil {
			return "", fmt.Errorf("malformed invoice number %q: %w", last.InvoiceNumber, convErr)
		}
		seq = n + 1
	case err == gorm.ErrRecordNotFound:
		// first invoice of the month
	default:
		return "", err
	}

	return fmt.Sprintf("%s-%04d", prefix, seq), nil
}
