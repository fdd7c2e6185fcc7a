package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleStudent, ParseRole("student"))
	assert.Equal(t, RoleInstructor, ParseRole("instructor"))
	assert.Equal(t, RoleAdmin, ParseRole("admin"))

	// anything unknown degrades to the least privileged role
	assert.Equal(t, RoleStudent, ParseRole(""))
	assert.Equal(t, RoleStudent, ParseRole("superuser"))
	assert.Equal(t, RoleStudent, ParseRole("Admin"))
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleStudent.CanEnroll())
	assert.False(t, RoleStudent.CanTeach())
	assert.False(t, RoleStudent.CanAdministrate())

	assert.False(t, RoleInstructor.CanEnroll())
	assert.True(t, RoleInstructor.CanTeach())
	assert.False(t, RoleInstructor.CanAdministrate())

	assert.True(t, RoleAdmin.CanEnroll())
	assert.True(t, RoleAdmin.CanTeach())
	assert.True(t, RoleAdmin.CanAdministrate())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{Name: "Ada", Lastname: "Lovelace"}.DisplayName())
	assert.Equal(t, "Ada", User{Name: "Ada"}.DisplayName())
	assert.Equal(t, "ada@test.dev", User{Email: "ada@test.dev"}.DisplayName())
}
