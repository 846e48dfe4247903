package authroles

import (
	domainauth "github.com/rodaworks/academy/internal/domain/auth"
)

// StaticRoleMapper maps identity provider groups to roles by simple string
// membership. When an identity belongs to several mapped groups the highest
// role wins.
type StaticRoleMapper struct {
	AdminGroup      string
	ManagerGroup    string
	InstructorGroup string
	StudentGroup    string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	role := domainauth.RoleGuest
	for _, g := range groups {
		var candidate domainauth.Role
		switch {
		case m.AdminGroup != "" && g == m.AdminGroup:
			candidate = domainauth.RoleAdmin
		case m.ManagerGroup != "" && g == m.ManagerGroup:
			candidate = domainauth.RoleManager
		case m.InstructorGroup != "" && g == m.InstructorGroup:
			candidate = domainauth.RoleInstructor
		case m.StudentGroup != "" && g == m.StudentGroup:
			candidate = domainauth.RoleStudent
		default:
			continue
		}
		if candidate.Level() > role.Level() {
			role = candidate
		}
	}
	return role
}
