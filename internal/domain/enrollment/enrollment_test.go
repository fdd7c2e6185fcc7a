package enrollment

import (
	"testing"

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
	require.NoError(t, db.AutoMigrate(
		&users.User{},
		&catalog.Category{}, &catalog.Course{}, &catalog.Module{}, &catalog.Content{},
		&Enrollment{}, &CourseProgress{}, &ContentProgress{},
	))
	return db
}

func seedCourseWithContent(t *testing.T, db *gorm.DB, contentsPerModule ...int) (users.User, catalog.Course, []catalog.Content) {
	t.Helper()

	student := users.User{Name: "Lena", Email: "lena@test.dev", Role: users.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	course := catalog.Course{Title: "Networks", Slug: "networks", Price: 10, IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	var contents []catalog.Content
	for mi, n := range contentsPerModule {
		module := catalog.Module{CourseID: course.ID, Title: "Module", Order: mi + 1}
		require.NoError(t, db.Create(&module).Error)
		for ci := 0; ci < n; ci++ {
			content := catalog.Content{ModuleID: module.ID, Title: "Lesson", Kind: "text", Order: ci + 1}
			require.NoError(t, db.Create(&content).Error)
			contents = append(contents, content)
		}
	}
	return student, course, contents
}

func TestGrantIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	student, course, _ := seedCourseWithContent(t, db)

	_, created, err := Grant(db, student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, created)

	e, created, err := Grant(db, student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NotZero(t, e.ID)

	var n int64
	require.NoError(t, db.Model(&Enrollment{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestRevoke(t *testing.T) {
	db := openTestDB(t)
	student, course, _ := seedCourseWithContent(t, db)

	_, _, err := Grant(db, student.ID, course.ID)
	require.NoError(t, err)

	require.NoError(t, Revoke(db, student.ID, course.ID))

	enrolled, err := IsEnrolled(db, student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)
}

func TestProgressPercent(t *testing.T) {
	db := openTestDB(t)
	student, course, contents := seedCourseWithContent(t, db, 2, 2)
	require.Len(t, contents, 4)

	percent, err := ProgressPercent(db, student.ID, course.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, percent, 0.001)

	require.NoError(t, MarkContentCompleted(db, student.ID, contents[0].ID))
	percent, err = ProgressPercent(db, student.ID, course.ID)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, percent, 0.001)

	// completing the same lesson twice does not move the needle
	require.NoError(t, MarkContentCompleted(db, student.ID, contents[0].ID))
	percent, err = ProgressPercent(db, student.ID, course.ID)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, percent, 0.001)

	for _, content := range contents[1:] {
		require.NoError(t, MarkContentCompleted(db, student.ID, content.ID))
	}
	percent, err = ProgressPercent(db, student.ID, course.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, percent, 0.001)
}

func TestProgressPercentEmptyCourse(t *testing.T) {
	db := openTestDB(t)
	student, course, _ := seedCourseWithContent(t, db)

	percent, err := ProgressPercent(db, student.ID, course.ID)
	require.NoError(t, err)
	assert.Zero(t, percent)
}
