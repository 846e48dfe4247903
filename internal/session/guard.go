package session

import (
	domainauth "github.com/rodaworks/academy/internal/domain/auth"
)

// Well-known destinations the guard redirects to.
const (
	LoginPath     = "/auth/login"
	DashboardPath = "/dashboard"
)

// Requirement describes what a route demands of the session. Zero value
// means "any authenticated user".
type Requirement struct {
	// Role, when set, is the single role the route requires exactly.
	Role domainauth.Role
	// AllowRoles, when non-empty, is the set of acceptable roles.
	AllowRoles []domainauth.Role
}

// DecisionKind enumerates the guard outcomes.
type DecisionKind int

const (
	// DecisionPending means the session is still loading; render a
	// placeholder and decide nothing.
	DecisionPending DecisionKind = iota
	// DecisionUnauthenticated redirects to login, carrying the original
	// destination for the post-login return.
	DecisionUnauthenticated
	// DecisionForbidden redirects an authenticated but under-privileged
	// user to the dashboard, never back to login.
	DecisionForbidden
	// DecisionAuthorized renders the requested view.
	DecisionAuthorized
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionPending:
		return "pending"
	case DecisionUnauthenticated:
		return "unauthenticated"
	case DecisionForbidden:
		return "forbidden"
	case DecisionAuthorized:
		return "authorized"
	default:
		return "invalid"
	}
}

// Decision is the guard's verdict for one render of one route.
type Decision struct {
	Kind       DecisionKind
	RedirectTo string // set for Unauthenticated and Forbidden
	ReturnTo   string // original location, set for Unauthenticated
}

// Decide gates a protected route against a session snapshot. It is pure and
// total: every input produces exactly one decision and no side effects, so
// it is safe to re-evaluate on every render. location is the originally
// requested path, preserved across the login redirect.
func Decide(snap Snapshot, req Requirement, location string) Decision {
	if snap.Loading() {
		return Decision{Kind: DecisionPending}
	}
	if !snap.Authenticated() {
		return Decision{
			Kind:       DecisionUnauthenticated,
			RedirectTo: LoginPath,
			ReturnTo:   location,
		}
	}
	role := snap.User.Role
	if req.Role != "" && role != req.Role {
		return Decision{Kind: DecisionForbidden, RedirectTo: DashboardPath}
	}
	if len(req.AllowRoles) > 0 && !containsRole(req.AllowRoles, role) {
		return Decision{Kind: DecisionForbidden, RedirectTo: DashboardPath}
	}
	return Decision{Kind: DecisionAuthorized}
}

func containsRole(roles []domainauth.Role, role domainauth.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
