package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  Role
		ok    bool
	}{
		{"admin", RoleAdmin, true},
		{"  Manager ", RoleManager, true},
		{"INSTRUCTOR", RoleInstructor, true},
		{"student", RoleStudent, true},
		{"guest", RoleGuest, true},
		{"owner", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleStudent))
	assert.True(t, RoleManager.AtLeast(RoleInstructor))
	assert.True(t, RoleStudent.AtLeast(RoleStudent))
	assert.False(t, RoleStudent.AtLeast(RoleAdmin))
	assert.False(t, RoleGuest.AtLeast(RoleStudent))

	// Unknown roles never satisfy a requirement.
	assert.False(t, Role("owner").AtLeast(RoleGuest))
	assert.False(t, RoleAdmin.AtLeast(Role("owner")))
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := Session{ID: "s1", Role: RoleStudent, ExpiresAt: now.Add(time.Hour)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(2*time.Hour)))
}

func TestSessionIsGuest(t *testing.T) {
	assert.True(t, Session{Role: RoleGuest}.IsGuest())
	assert.False(t, Session{Role: RoleStudent}.IsGuest())
}
