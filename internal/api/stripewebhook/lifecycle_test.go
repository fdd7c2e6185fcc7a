package stripewebhooks

import (
	"testing"

	"eduplus-app/database"
	"eduplus-app/internal/domain/billing"
	"eduplus-app/internal/domain/catalog"
	"eduplus-app/internal/domain/enrollment"
	"eduplus-app/internal/domain/users"
	"eduplus-app/internal/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func useTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
}

func seedPaidEnrollment(t *testing.T, intentID string) (users.User, catalog.Course, billing.Payment) {
	t.Helper()

	student := users.User{Name: "Rui", Email: "rui@test.dev", Role: users.RoleStudent}
	require.NoError(t, database.DB.Create(&student).Error)

	course := catalog.Course{Title: "Compilers", Slug: "compilers", Price: 80, IsPublished: true}
	require.NoError(t, database.DB.Create(&course).Error)

	payment := billing.Payment{
		UserID:          student.ID,
		CourseID:        &course.ID,
		StripePaymentID: intentID,
		Amount:          80,
		Status:          billing.StatusCompleted,
	}
	require.NoError(t, database.DB.Create(&payment).Error)

	_, _, err := enrollment.Grant(database.DB, student.ID, course.ID)
	require.NoError(t, err)

	return student, course, payment
}

func TestCheckoutCompletedSettlesOnce(t *testing.T) {
	useTestDB(t)

	student := users.User{Name: "Noa", Email: "noa@test.dev", Role: users.RoleStudent}
	require.NoError(t, database.DB.Create(&student).Error)
	course := catalog.Course{Title: "Databases", Slug: "databases", Price: 80, IsPublished: true}
	require.NoError(t, database.DB.Create(&course).Error)

	session := &stripe.CheckoutSession{
		ID:            "cs_settled",
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_settled"},
		AmountTotal:   8000,
		Currency:      stripe.CurrencyEUR,
		Metadata:      reconcile.Metadata{CourseID: course.ID, UserID: student.ID, OriginalPrice: 80}.Encode(),
	}
	require.NoError(t, handleCheckoutSessionCompleted(session))

	var payment billing.Payment
	require.NoError(t, database.DB.Where("stripe_payment_id = ?", "pi_settled").First(&payment).Error)
	assert.Equal(t, billing.StatusCompleted, payment.Status)

	enrolled, err := enrollment.IsEnrolled(database.DB, student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	// redelivery changes nothing
	require.NoError(t, handleCheckoutSessionCompleted(session))
	var payments int64
	require.NoError(t, database.DB.Model(&billing.Payment{}).Count(&payments).Error)
	assert.EqualValues(t, 1, payments)
}

func TestFullRefundRevokesEnrollment(t *testing.T) {
	useTestDB(t)
	student, course, _ := seedPaidEnrollment(t, "pi_refund_full")

	charge := &stripe.Charge{
		Refunded:      true,
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_refund_full"},
	}
	require.NoError(t, handleChargeRefunded(charge))

	var payment billing.Payment
	require.NoError(t, database.DB.Where("stripe_payment_id = ?", "pi_refund_full").First(&payment).Error)
	assert.Equal(t, billing.StatusRefunded, payment.Status)

	enrolled, err := enrollment.IsEnrolled(database.DB, student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)
}

func TestPartialRefundKeepsEnrollment(t *testing.T) {
	useTestDB(t)
	student, course, _ := seedPaidEnrollment(t, "pi_refund_part")

	charge := &stripe.Charge{
		Refunded:      false,
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_refund_part"},
	}
	require.NoError(t, handleChargeRefunded(charge))

	var payment billing.Payment
	require.NoError(t, database.DB.Where("stripe_payment_id = ?", "pi_refund_part").First(&payment).Error)
	assert.Equal(t, billing.StatusRefunded, payment.Status)

	enrolled, err := enrollment.IsEnrolled(database.DB, student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)
}

func TestRefundForUnknownPaymentIsIgnored(t *testing.T) {
	useTestDB(t)

	charge := &stripe.Charge{
		Refunded:      true,
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_never_seen"},
	}
	assert.NoError(t, handleChargeRefunded(charge))
}

func TestDisputeLifecycle(t *testing.T) {
	useTestDB(t)
	_, _, payment := seedPaidEnrollment(t, "pi_dispute")

	created := &stripe.Dispute{
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_dispute"},
		Reason:        stripe.DisputeReasonFraudulent,
	}
	require.NoError(t, handleDisputeCreated(created))

	var got billing.Payment
	require.NoError(t, database.DB.First(&got, payment.ID).Error)
	assert.Equal(t, billing.StatusDisputed, got.Status)

	won := &stripe.Dispute{
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_dispute"},
		Status:        stripe.DisputeStatusWon,
	}
	require.NoError(t, handleDisputeClosed(won))

	require.NoError(t, database.DB.First(&got, payment.ID).Error)
	assert.Equal(t, billing.StatusCompleted, got.Status)
}

func TestDisputeLostRefunds(t *testing.T) {
	useTestDB(t)
	_, _, payment := seedPaidEnrollment(t, "pi_dispute_lost")

	lost := &stripe.Dispute{
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_dispute_lost"},
		Status:        stripe.DisputeStatusLost,
	}
	require.NoError(t, handleDisputeClosed(lost))

	var got billing.Payment
	require.NoError(t, database.DB.First(&got, payment.ID).Error)
	assert.Equal(t, billing.StatusRefunded, got.Status)
	assert.Equal(t, "Dispute lost", got.Notes)
}

func TestPaymentIntentFailed(t *testing.T) {
	useTestDB(t)
	_, _, payment := seedPaidEnrollment(t, "pi_fail")
	require.NoError(t, database.DB.Model(&billing.Payment{}).
		Where("id = ?", payment.ID).
		Update("status", billing.StatusPending).Error)

	intent := &stripe.PaymentIntent{
		ID:               "pi_fail",
		LastPaymentError: &stripe.Error{Msg: "Your card was declined."},
	}
	require.NoError(t, handlePaymentIntentFailed(intent))

	var got billing.Payment
	require.NoError(t, database.DB.First(&got, payment.ID).Error)
	assert.Equal(t, billing.StatusFailed, got.Status)
	assert.Equal(t, "Payment failed: Your card was declined.", got.Notes)
}
