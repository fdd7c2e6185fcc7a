package billing

import (
	"time"

	"eduplus-app/internal/domain/catalog"
	"eduplus-app/internal/domain/users"
)

// Coupon is a discount code. Exactly one of DiscountAmount/DiscountPercent is
// expected in practice, but nothing here assumes the admin screens enforced it;
// the engine recomputes from whichever field is set.
type Coupon struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex;not null"`

	DiscountAmount  *float64
	DiscountPercent *int
	Description     string

	ValidFrom  time.Time
	ValidUntil *time.Time

	MaxUses     *int
	CurrentUses int `gorm:"default:0"`

	// empty set means the coupon applies to every course
	Courses []catalog.Course `gorm:"many2many:coupon_courses"`

	IsSingleUse bool
	IsActive    bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InWindow checks the validity window and the usage cap, not per-user rules.
func (c Coupon) InWindow(now time.Time) bool {
	if now.Before(c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return false
	}
	return c.IsActive
}

// CouponUsage ties one coupon application to one payment. The composite unique
// index makes duplicate webhook deliveries collapse into a single row, and its
// creation is the only thing allowed to bump Coupon.CurrentUses.
type CouponUsage struct {
	ID       uint       `gorm:"primaryKey"`
	CouponID uint       `gorm:"uniqueIndex:idx_coupon_usages_coupon_user_payment"`
	Coupon   Coupon     `gorm:"constraint:OnDelete:CASCADE"`
	UserID   uint       `gorm:"uniqueIndex:idx_coupon_usages_coupon_user_payment"`
	User     users.User `gorm:"constraint:OnDelete:CASCADE"`

	PaymentID uint    `gorm:"uniqueIndex:idx_coupon_usages_coupon_user_payment"`
	Payment   Payment `gorm:"constraint:OnDelete:CASCADE"`

	UsedAt time.Time `gorm:"autoCreateTime"`
}
