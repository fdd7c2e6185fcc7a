package billing

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"eduplus-app/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&users.User{}, &Payment{}, &Invoice{}, &Coupon{}, &CouponUsage{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) users.User {
	t.Helper()
	u := users.User{Name: "Test", Lastname: "Student", Email: email, Role: users.RoleStudent}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestInvoiceFillTotals(t *testing.T) {
	inv := Invoice{Subtotal: 100, DiscountPercent: 20}
	inv.FillTotals()
	assert.InDelta(t, 20.0, inv.DiscountAmount, 0.001)
	assert.InDelta(t, 80.0, inv.Total, 0.001)

	inv = Invoice{Subtotal: 50, DiscountAmount: 10, TaxPercent: 10}
	inv.FillTotals()
	assert.InDelta(t, 5.0, inv.TaxAmount, 0.001)
	assert.InDelta(t, 45.0, inv.Total, 0.001)

	// an explicit total is never recomputed
	inv = Invoice{Subtotal: 100, DiscountAmount: 30, Total: 70}
	inv.FillTotals()
	assert.InDelta(t, 70.0, inv.Total, 0.001)
}

func TestInvoiceNumberSequence(t *testing.T) {
	db := openTestDB(t)
	u := seedUser(t, db, "seq@test.dev")

	prefix := "INV-" + time.Now().Format("200601")

	for i := 1; i <= 3; i++ {
		p := Payment{UserID: u.ID, StripePaymentID: fmt.Sprintf("pi_seq_%d", i), Amount: 10, Status: StatusCompleted}
		require.NoError(t, db.Create(&p).Error)

		inv := Invoice{PaymentID: p.ID, UserID: &u.ID, Subtotal: 10}
		require.NoError(t, db.Create(&inv).Error)

		assert.Equal(t, fmt.Sprintf("%s-%04d", prefix, i), inv.InvoiceNumber)
	}
}

func TestInvoiceUniquePerPayment(t *testing.T) {
	db := openTestDB(t)
	u := seedUser(t, db, "unique@test.dev")

	p := Payment{UserID: u.ID, StripePaymentID: "pi_unique", Amount: 10, Status: StatusCompleted}
	require.NoError(t, db.Create(&p).Error)

	first := Invoice{PaymentID: p.ID, Subtotal: 10}
	require.NoError(t, db.Create(&first).Error)

	dup := Invoice{PaymentID: p.ID, Subtotal: 10}
	assert.Error(t, db.Create(&dup).Error)
}

func TestCreateForPaymentRetriesTakenNumber(t *testing.T) {
	db := openTestDB(t)
	u := seedUser(t, db, "race@test.dev")

	p1 := Payment{UserID: u.ID, StripePaymentID: "pi_race_1", Amount: 10, Status: StatusCompleted}
	require.NoError(t, db.Create(&p1).Error)
	first := Invoice{PaymentID: p1.ID, Subtotal: 10}
	created, err := CreateForPayment(db, &first)
	require.NoError(t, err)
	assert.True(t, created)

	// a concurrent settlement that read the same monthly maximum would arrive
	// holding the number the first insert just took
	p2 := Payment{UserID: u.ID, StripePaymentID: "pi_race_2", Amount: 10, Status: StatusCompleted}
	require.NoError(t, db.Create(&p2).Error)
	second := Invoice{PaymentID: p2.ID, Subtotal: 10, InvoiceNumber: first.InvoiceNumber}
	created, err = CreateForPayment(db, &second)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.InvoiceNumber, second.InvoiceNumber)

	prefix := "INV-" + time.Now().Format("200601")
	assert.Equal(t, prefix+"-0002", second.InvoiceNumber)
}

func TestCreateForPaymentKeepsExistingInvoice(t *testing.T) {
	db := openTestDB(t)
	u := seedUser(t, db, "keep@test.dev")

	p := Payment{UserID: u.ID, StripePaymentID: "pi_keep", Amount: 10, Status: StatusCompleted}
	require.NoError(t, db.Create(&p).Error)

	first := Invoice{PaymentID: p.ID, Subtotal: 10}
	created, err := CreateForPayment(db, &first)
	require.NoError(t, err)
	assert.True(t, created)

	again := Invoice{PaymentID: p.ID, Subtotal: 10}
	created, err = CreateForPayment(db, &again)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, db.Model(&Invoice{}).Where("payment_id = ?", p.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPaymentReferenceID(t *testing.T) {
	db := openTestDB(t)
	u := seedUser(t, db, "ref@test.dev")

	p := Payment{UserID: u.ID, StripePaymentID: "pi_ref", Amount: 25}
	require.NoError(t, db.Create(&p).Error)

	assert.True(t, strings.HasPrefix(p.ReferenceID, "PAY-"))
	assert.Len(t, p.ReferenceID, len("PAY-")+8)
	assert.Equal(t, strings.ToUpper(p.ReferenceID), p.ReferenceID)
}

func TestMarkCompletedSetsPaidAtOnce(t *testing.T) {
	db := openTestDB(t)
	u := seedUser(t, db, "paidat@test.dev")

	p := Payment{UserID: u.ID, StripePaymentID: "pi_paidat", Amount: 25, Status: StatusPending}
	require.NoError(t, db.Create(&p).Error)
	require.Nil(t, p.PaidAt)

	require.NoError(t, MarkCompleted(db, "pi_paidat"))

	var first Payment
	require.NoError(t, db.First(&first, p.ID).Error)
	assert.Equal(t, StatusCompleted, first.Status)
	require.NotNil(t, first.PaidAt)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, MarkCompleted(db, "pi_paidat"))

	var second Payment
	require.NoError(t, db.First(&second, p.ID).Error)
	require.NotNil(t, second.PaidAt)
	assert.Equal(t, first.PaidAt.UnixNano(), second.PaidAt.UnixNano())
}

func TestSetStatusKeepsNotes(t *testing.T) {
	db := openTestDB(t)
	u := seedUser(t, db, "notes@test.dev")

	p := Payment{UserID: u.ID, StripePaymentID: "pi_notes", Amount: 25, Status: StatusCompleted}
	require.NoError(t, db.Create(&p).Error)

	require.NoError(t, SetStatus(db, "pi_notes", StatusDisputed, "Dispute created: fraudulent"))

	var got Payment
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, StatusDisputed, got.Status)
	assert.Equal(t, "Dispute created: fraudulent", got.Notes)

	// status change without a note leaves the old note in place
	require.NoError(t, SetStatus(db, "pi_notes", StatusRefunded, ""))
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, StatusRefunded, got.Status)
	assert.Equal(t, "Dispute created: fraudulent", got.Notes)
}

func TestCouponInWindow(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)
	three := 3

	c := Coupon{Code: "WINDOW", ValidFrom: yesterday, ValidUntil: &tomorrow, IsActive: true}
	assert.True(t, c.InWindow(now))

	c.ValidFrom = tomorrow
	assert.False(t, c.InWindow(now))

	c.ValidFrom = yesterday
	c.ValidUntil = &yesterday
	assert.False(t, c.InWindow(now))

	c.ValidUntil = &tomorrow
	c.MaxUses = &three
	c.CurrentUses = 3
	assert.False(t, c.InWindow(now))

	c.CurrentUses = 2
	assert.True(t, c.InWindow(now))

	c.IsActive = false
	assert.False(t, c.InWindow(now))
}
