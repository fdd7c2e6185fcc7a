package billing

import (
	"strings"
	"time"

	"eduplus-app/internal/domain/catalog"
	"eduplus-app/internal/domain/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
	StatusDisputed  = "disputed"
	StatusCanceled  = "canceled"
)

// Payment is the root record of one real-world transaction. StripePaymentID is
// the gateway's payment-intent id and the idempotency key for the whole
// reconciliation flow; ReferenceID is our own durable identifier.
type Payment struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint
	User   users.User

	// nullable: legacy rows may predate the course link
	CourseID *uint
	Course   *catalog.Course

	StripePaymentID string `gorm:"uniqueIndex;not null"`
	ReferenceID     string `gorm:"uniqueIndex"`

	Amount   float64
	Currency string `gorm:"type:varchar(3);default:'EUR'"`

	PaymentMethod string `gorm:"type:varchar(20);default:'card'"`
	Status        string `gorm:"type:varchar(20);default:'pending'"`

	PaidAt *time.Time
	Notes  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ReferenceID == "" {
		p.ReferenceID = "PAY-" + strings.ToUpper(uuid.NewString()[:8])
	}
	if p.Status == StatusCompleted && p.PaidAt == nil {
		now := time.Now()
		p.PaidAt = &now
	}
	return nil
}

// MarkCompleted moves the payment to completed unless it already is, setting
// paid_at exactly once. The guard runs in SQL so a duplicate delivery racing
// this one cannot double-apply.
func MarkCompleted(db *gorm.DB, stripePaymentID string) error {
	return db.Model(&Payment{}).
		Where("stripe_payment_id = ? AND status <> ?", stripePaymentID, StatusCompleted).
		Updates(map[string]interface{}{
			"status":  StatusCompleted,
			"paid_at": gorm.Expr("COALESCE(paid_at, ?)", time.Now()),
		}).Error
}

// SetStatus tags the payment with a non-completed status (failed, refunded,
// disputed...) and an optional note.
func SetStatus(db *gorm.DB, stripePaymentID, status, note string) error {
	updates := map[string]interface{}{"status": status}
	if note != "" {
		updates["notes"] = note
	}
	return db.Model(&Payment{}).
		Where("stripe_payment_id = ?", stripePaymentID).
		Updates(updates).Error
}
