package catalog

import (
	"testing"
	"time"

	"eduplus-app/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "go-for-backends", Slugify("Go for Backends"))
	assert.Equal(t, "c-programming-101", Slugify("  C++ Programming 101! "))
	assert.Equal(t, "a-b", Slugify("a---b"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestCurrentPrice(t *testing.T) {
	c := Course{Price: 100}
	assert.InDelta(t, 100.0, c.CurrentPrice(), 0.001)
	assert.False(t, c.IsFree())

	sale := 60.0
	c.DiscountPrice = &sale
	assert.InDelta(t, 60.0, c.CurrentPrice(), 0.001)

	free := Course{Price: 0}
	assert.True(t, free.IsFree())
}

func TestAverageRating(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&users.User{}, &Category{}, &Course{}, &Review{}))

	course := Course{Title: "Ratings", Slug: "ratings", Price: 10}
	require.NoError(t, db.Create(&course).Error)

	rating, err := AverageRating(db, course.ID)
	require.NoError(t, err)
	assert.Zero(t, rating)

	for i, stars := range []int{5, 4, 3} {
		u := users.User{Email: string(rune('a'+i)) + "@test.dev", Role: users.RoleStudent}
		require.NoError(t, db.Create(&u).Error)
		require.NoError(t, db.Create(&Review{CourseID: course.ID, StudentID: u.ID, Rating: stars}).Error)
	}

	rating, err = AverageRating(db, course.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, rating, 0.001)
}

func TestAssignmentIsPastDue(t *testing.T) {
	now := time.Now()
	due := now.Add(-time.Hour)

	assert.False(t, Assignment{}.IsPastDue(now))
	assert.True(t, Assignment{DueAt: &due}.IsPastDue(now))

	future := now.Add(time.Hour)
	assert.False(t, Assignment{DueAt: &future}.IsPastDue(now))
}
