// Package coupon validates discount codes against a course and a user, and
// applies them to payments atomically with the usage counter.
package coupon

import (
	"errors"
	"fmt"
	"time"

	"eduplus-app/internal/domain/billing"
	"eduplus-app/internal/domain/catalog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound      = errors.New("coupon not found")
	ErrExpired       = errors.New("coupon expired or inactive")
	ErrNotApplicable = errors.New("coupon not applicable to this course")
	ErrAlreadyUsed   = errors.New("coupon already used by this user")
	ErrExhausted     = errors.New("coupon usage limit reached")
)

// Quote is a successful validation: the price after discount and how it was
// reached.
type Quote struct {
	Coupon         billing.Coupon
	OriginalPrice  float64
	NewPrice       float64
	DiscountAmount float64
	Descriptor     string
}

// Validate checks a code against the course and user and quotes the discounted
// price. Nothing is mutated.
func Validate(db *gorm.DB, code string, course catalog.Course, userID uint) (Quote, error) {
	var cpn billing.Coupon
	err := db.Where("code = ? AND is_active", code).First(&cpn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Quote{}, ErrNotFound
		}
		return Quote{}, err
	}

	if !cpn.InWindow(time.Now()) {
		return Quote{}, ErrExpired
	}

	var restricted int64
	if err := db.Table("coupon_courses").Where("coupon_id = ?", cpn.ID).Count(&restricted).Error; err != nil {
		return Quote{}, err
	}
	if restricted > 0 {
		var applicable int64
		err := db.Table("coupon_courses").
			Where("coupon_id = ? AND course_id = ?", cpn.ID, course.ID).
			Count(&applicable).Error
		if err != nil {
			return Quote{}, err
		}
		if applicable == 0 {
			return Quote{}, ErrNotApplicable
		}
	}

	if cpn.IsSingleUse {
		var used int64
		err := db.Model(&billing.CouponUsage{}).
			Where("coupon_id = ? AND user_id = ?", cpn.ID, userID).
			Count(&used).Error
		if err != nil {
			return Quote{}, err
		}
		if used > 0 {
			return Quote{}, ErrAlreadyUsed
		}
	}

	price := course.CurrentPrice()
	q := Quote{Coupon: cpn, OriginalPrice: price, NewPrice: price, Descriptor: "no discount"}

	// amount wins when both fields are populated
	switch {
	case cpn.DiscountAmount != nil:
		q.NewPrice = max(0, price-*cpn.DiscountAmount)
		q.Descriptor = fmt.Sprintf("%.2f off", *cpn.DiscountAmount)
	case cpn.DiscountPercent != nil:
		q.NewPrice = max(0, price-price*float64(*cpn.DiscountPercent)/100)
		q.Descriptor = fmt.Sprintf("%d%% off", *cpn.DiscountPercent)
	}
	q.DiscountAmount = price - q.NewPrice

	return q, nil
}

// Apply records the usage and bumps the counter as one transaction: either the
// (coupon, user, payment) row exists afterwards with the counter incremented
// once, or nothing changed. A duplicate application reports applied=false with
// no error, matching duplicate webhook deliveries.
func Apply(db *gorm.DB, couponID, paymentID, userID uint) (applied bool, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		usage := billing.CouponUsage{
			CouponID:  couponID,
			UserID:    userID,
			PaymentID: paymentID,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "coupon_id"}, {Name: "user_id"}, {Name: "payment_id"},
			},
			DoNothing: true,
		}).Create(&usage)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// already applied to this payment
			return nil
		}

		inc := tx.Model(&billing.Coupon{}).
			Where("id = ? AND (max_uses IS NULL OR current_uses < max_uses)", couponID).
			Update("current_uses", gorm.Expr("current_uses + 1"))
		if inc.Error != nil {
			return inc.Error
		}
		if inc.RowsAffected == 0 {
			// cap reached by a concurrent application; roll the usage row back
			return ErrExhausted
		}

		applied = true
		return nil
	})
	return applied, err
}
