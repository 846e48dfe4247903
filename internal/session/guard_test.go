package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
)

func snapFor(role domainauth.Role) Snapshot {
	return Snapshot{
		User:  &User{ID: "u1", Name: "User", Email: "u@example.com", Role: role},
		Token: "t1",
		Phase: PhaseConfirmed,
	}
}

func TestDecide_LoadingAlwaysPending(t *testing.T) {
	// Content does not matter while loading; no redirect may be issued yet.
	snaps := []Snapshot{
		{Phase: PhaseUnknown},
		{Phase: PhaseOptimistic, Token: "t1", User: &User{Role: domainauth.RoleAdmin}},
	}
	for _, snap := range snaps {
		dec := Decide(snap, Requirement{Role: domainauth.RoleAdmin}, "/admin/users")
		assert.Equal(t, DecisionPending, dec.Kind, "phase %s", snap.Phase)
		assert.Empty(t, dec.RedirectTo)
	}
}

func TestDecide_UnauthenticatedPreservesDestination(t *testing.T) {
	dec := Decide(Snapshot{Phase: PhaseRejected}, Requirement{}, "/admin/dashboard")
	assert.Equal(t, DecisionUnauthenticated, dec.Kind)
	assert.Equal(t, LoginPath, dec.RedirectTo)
	assert.Equal(t, "/admin/dashboard", dec.ReturnTo)
}

func TestDecide_RoleMismatchGoesToDashboardNotLogin(t *testing.T) {
	dec := Decide(snapFor(domainauth.RoleStudent), Requirement{Role: domainauth.RoleAdmin}, "/admin/users")
	assert.Equal(t, DecisionForbidden, dec.Kind)
	assert.Equal(t, DashboardPath, dec.RedirectTo)
	assert.Empty(t, dec.ReturnTo)
}

func TestDecide_AllowListEnforced(t *testing.T) {
	req := Requirement{AllowRoles: []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleManager}}

	dec := Decide(snapFor(domainauth.RoleManager), req, "/admin/orders")
	assert.Equal(t, DecisionAuthorized, dec.Kind)

	dec = Decide(snapFor(domainauth.RoleInstructor), req, "/admin/orders")
	assert.Equal(t, DecisionForbidden, dec.Kind)
	assert.Equal(t, DashboardPath, dec.RedirectTo)
}

func TestDecide_EmptyAllowListMeansAnyAuthenticated(t *testing.T) {
	dec := Decide(snapFor(domainauth.RoleStudent), Requirement{}, "/dashboard")
	assert.Equal(t, DecisionAuthorized, dec.Kind)
}

func TestDecide_ExactRoleMatch(t *testing.T) {
	dec := Decide(snapFor(domainauth.RoleAdmin), Requirement{Role: domainauth.RoleAdmin}, "/admin/users")
	assert.Equal(t, DecisionAuthorized, dec.Kind)
}

func TestDecide_Total(t *testing.T) {
	// Every phase/requirement combination yields exactly one of the four
	// outcomes; the guard never panics or returns an invalid kind.
	phases := []Phase{PhaseUnknown, PhaseOptimistic, PhaseConfirmed, PhaseRejected}
	reqs := []Requirement{
		{},
		{Role: domainauth.RoleAdmin},
		{AllowRoles: []domainauth.Role{domainauth.RoleStudent}},
	}
	for _, phase := range phases {
		for _, req := range reqs {
			snap := Snapshot{Phase: phase}
			if phase == PhaseConfirmed || phase == PhaseOptimistic {
				snap.Token = "t1"
				snap.User = &User{Role: domainauth.RoleStudent}
			}
			dec := Decide(snap, req, "/x")
			assert.Contains(t, []DecisionKind{
				DecisionPending, DecisionUnauthenticated, DecisionForbidden, DecisionAuthorized,
			}, dec.Kind)
		}
	}
}
