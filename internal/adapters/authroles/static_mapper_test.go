package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
)

func TestStaticRoleMapper_Map(t *testing.T) {
	m := StaticRoleMapper{
		AdminGroup:      "academy-admins",
		ManagerGroup:    "academy-managers",
		InstructorGroup: "academy-instructors",
		StudentGroup:    "academy-students",
	}

	tests := []struct {
		name   string
		groups []string
		want   domainauth.Role
	}{
		{"admin", []string{"academy-admins"}, domainauth.RoleAdmin},
		{"manager", []string{"academy-managers"}, domainauth.RoleManager},
		{"instructor", []string{"academy-instructors"}, domainauth.RoleInstructor},
		{"student", []string{"academy-students"}, domainauth.RoleStudent},
		{"no match", []string{"something-else"}, domainauth.RoleGuest},
		{"empty", nil, domainauth.RoleGuest},
		{"highest wins", []string{"academy-students", "academy-managers"}, domainauth.RoleManager},
		{"admin beats all", []string{"academy-students", "academy-admins", "academy-instructors"}, domainauth.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Map(tt.groups))
		})
	}
}

func TestStaticRoleMapper_EmptyConfigNeverMatches(t *testing.T) {
	var m StaticRoleMapper
	assert.Equal(t, domainauth.RoleGuest, m.Map([]string{"", "academy-admins"}))
}
