package coupon

import (
	"testing"
	"time"

	"eduplus-app/database"
	"eduplus-app/internal/domain/billing"
	"eduplus-app/internal/domain/catalog"
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
	require.NoError(t, database.Migrate(db))
	return db
}

type fixtures struct {
	student users.User
	course  catalog.Course
}

func seedFixtures(t *testing.T, db *gorm.DB, price float64) fixtures {
	t.Helper()

	student := users.User{Name: "Nora", Email: "nora@test.dev", Role: users.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	instructor := users.User{Name: "Ivo", Email: "ivo@test.dev", Role: users.RoleInstructor}
	require.NoError(t, db.Create(&instructor).Error)

	course := catalog.Course{
		Title:        "Go for Backends",
		Slug:         "go-for-backends",
		InstructorID: instructor.ID,
		Price:        price,
		IsPublished:  true,
	}
	require.NoError(t, db.Create(&course).Error)

	return fixtures{student: student, course: course}
}

func seedCoupon(t *testing.T, db *gorm.DB, c billing.Coupon) billing.Coupon {
	t.Helper()
	if c.ValidFrom.IsZero() {
		c.ValidFrom = time.Now().Add(-time.Hour)
	}
	c.IsActive = true
	require.NoError(t, db.Create(&c).Error)
	return c
}

func seedPayment(t *testing.T, db *gorm.DB, userID uint, stripeID string) billing.Payment {
	t.Helper()
	p := billing.Payment{UserID: userID, StripePaymentID: stripeID, Amount: 10, Status: billing.StatusCompleted}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestValidateUnknownCode(t *testing.T) {
	db := openTestDB(t)
	fx := seedFixtures(t, db, 100)

	_, err := Validate(db, "NOPE", fx.course, fx.student.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidateInactiveCode(t *testing.T) {
	db := openTestDB(t)
	fx := seedFixtures(t, db, 100)

	ten := 10.0
	c := seedCoupon(t, db, billing.Coupon{Code: "RETIRED", DiscountAmount: &ten})
	require.NoError(t, db.Model(&c).Update("is_active", false).Error)

	_, err := Validate(db, "RETIRED", fx.course, fx.student.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidateWindow(t *testing.T) {
	db := openTestDB(t)
	fx := seedFixtures(t, db, 100)
	ten := 10.0

	seedCoupon(t, db, billing.Coupon{
		Code:           "NOTYET",
		DiscountAmount: &ten,
		ValidFrom:      time.Now().Add(time.Hour),
	})
	_, err := Validate(db, "NOTYET", fx.course, fx.student.ID)
	assert.ErrorIs(t, err, ErrExpired)

	past := time.Now().Add(-time.Minute)
	seedCoupon(t, db, billing.Coupon{
		Code:           "TOOLATE",
		DiscountAmount: &ten,
		ValidUntil:     &past,
	})
	_, err = Validate(db, "TOOLATE", fx.course, fx.student.ID)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestValidateCourseRestriction(t *testing.T) {
	db := openTestDB(t)
	fx := seedFixtures(t, db, 100)

	other := catalog.Course{Title: "Other", Slug: "other", Price: 50}
	require.NoError(t, db.Create(&other).Error)

	ten := 10.0
	seedCoupon(t, db, billing.Coupon{
		Code:           "ONLYOTHER",
		DiscountAmount: &ten,
		Courses:        []catalog.Course{other},
	})

	_, err := Validate(db, "ONLYOTHER", fx.course, fx.student.ID)
	assert.ErrorIs(t, err, ErrNotApplicable)

	q, err := Validate(db, "ONLYOTHER", other, fx.student.ID)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, q.NewPrice, 0.001)
}

func TestValidateSingleUse(t *testing.T) {
	db := openTestDB(t)
	fx := seedFixtures(t, db, 100)

	ten := 10.0
	c := seedCoupon(t, db, billing.Coupon{Code: "ONCE", DiscountAmount: &ten, IsSingleUse: true})

	q, err := Validate(db, "ONCE", fx.course, fx.student.ID)
	require.NoError(t, err)
	assert.InDelta(t, 90.0, q.NewPrice, 0.001)

	p := seedPayment(t, db, fx.student.ID, "pi_once")
	applied, err := Apply(db, c.ID, p.ID, fx.student.ID)
	require.NoError(t, err)
	require.True(t, applied)

	_, err = Validate(db, "ONCE", fx.course, fx.student.ID)
	assert.ErrorIs(t, err, ErrAlreadyUsed)
}

func TestValidateQuotes(t *testing.T) {
	db := openTestDB(t)
	fx := seedFixtures(t, db, 89.99)

	half := 50
	seedCoupon(t, db, billing.Coupon{Code: "FLASH50", DiscountPercent: &half})

	q, err := Validate(db, "FLASH50", fx.course, fx.student.ID)
	require.NoError(t, err)
	assert.InDelta(t, 89.99, q.OriginalPrice, 0.001)
	assert.InDelta(t, 44.995, q.NewPrice, 0.001)
	assert.InDelta(t, 44.995, q.DiscountAmount, 0.001)
	assert.Equal(t, "50% off", q.Descriptor)

	// an absolute amount that exceeds the price floors at zero
	big := 200.0
	seedCoupon(t, db, billing.Coupon{Code: "BIG", DiscountAmount: &big})
	q, err = Validate(db, "BIG", fx.course, fx.student.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, q.NewPrice, 0.001)

	// when both fields are set the absolute amount wins
	ten := 10.0
	seedCoupon(t, db, billing.Coupon{Code: "BOTH", DiscountAmount: &ten, DiscountPercent: &half})
	q, err = Validate(db, "BOTH", fx.course, fx.student.ID)
	require.NoError(t, err)
	assert.InDelta(t, 79.99, q.NewPrice, 0.001)
}

func TestValidateUsesDiscountPrice(t *testing.T) {
	db := openTestDB(t)
	fx := seedFixtures(t, db, 100)

	sale := 60.0
	require.NoError(t, db.Model(&catalog.Course{}).Where("id = ?", fx.course.ID).
		Update("discount_price", sale).Error)
	require.NoError(t, db.First(&fx.course, fx.course.ID).Error)

	ten := 10.0
	seedCoupon(t, db, billing.Coupon{Code: "STACK", DiscountAmount: &ten})

	q, err := Validate(db, "STACK", fx.course, fx.student.ID)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, q.OriginalPrice, 0.001)
	assert.InDelta(t, 50.0, q.NewPrice, 0.001)
}

func TestApplyIdempotent(t *testing.T) {
	db := openTestDB(t)
	fx := seedFixtures(t, db, 100)

	ten := 10.0
	c := seedCoupon(t, db, billing.Coupon{Code: "APPLY", DiscountAmount: &ten})
	p := seedPayment(t, db, fx.student.ID, "pi_apply")

	applied, err := Apply(db, c.ID, p.ID, fx.student.ID)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = Apply(db, c.ID, p.ID, fx.student.ID)
	require.NoError(t, err)
	assert.False(t, applied)

	var usages int64
	require.NoError(t, db.Model(&billing.CouponUsage{}).Count(&usages).Error)
	assert.EqualValues(t, 1, usages)

	var got billing.Coupon
	require.NoError(t, db.First(&got, c.ID).Error)
	assert.Equal(t, 1, got.CurrentUses)
}

func TestApplyHonorsUsageCap(t *testing.T) {
	db := openTestDB(t)
	fx := seedFixtures(t, db, 100)

	ten := 10.0
	one := 1
	c := seedCoupon(t, db, billing.Coupon{Code: "CAPPED", DiscountAmount: &ten, MaxUses: &one})

	p1 := seedPayment(t, db, fx.student.ID, "pi_cap_1")
	applied, err := Apply(db, c.ID, p1.ID, fx.student.ID)
	require.NoError(t, err)
	require.True(t, applied)

	other := users.User{Name: "Omar", Email: "omar@test.dev", Role: users.RoleStudent}
	require.NoError(t, db.Create(&other).Error)
	p2 := seedPayment(t, db, other.ID, "pi_cap_2")

	applied, err = Apply(db, c.ID, p2.ID, other.ID)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.False(t, applied)

	// the rejected application leaves no usage row behind
	var usages int64
	require.NoError(t, db.Model(&billing.CouponUsage{}).Count(&usages).Error)
	assert.EqualValues(t, 1, usages)

	var got billing.Coupon
	require.NoError(t, db.First(&got, c.ID).Error)
	assert.Equal(t, 1, got.CurrentUses)
}
