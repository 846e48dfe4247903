// Package session implements the client-side session store and route guard
// used by interactive clients of the academy API. The store is the single
// source of truth for "who is logged in": it restores a persisted token at
// startup, revalidates it against the server, performs credential exchanges,
// and publishes immutable snapshots to subscribers. The guard is a pure
// decision function over a snapshot and a route requirement.
package session

import (
	"encoding/json"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
)

// Phase tags the lifecycle state of a session snapshot.
//
//	Unknown:    a validation or exchange call is in flight; no decision yet
//	Optimistic: restored from durable storage, awaiting server confirmation
//	Confirmed:  the server vouched for the current user record
//	Rejected:   settled without a session (never logged in, logged out, or
//	             the persisted token was purged)
type Phase int

const (
	PhaseUnknown Phase = iota
	PhaseOptimistic
	PhaseConfirmed
	PhaseRejected
)

func (p Phase) String() string {
	switch p {
	case PhaseUnknown:
		return "unknown"
	case PhaseOptimistic:
		return "optimistic"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseRejected:
		return "rejected"
	default:
		return "invalid"
	}
}

// Settled reports whether the phase represents a resolved session state.
func (p Phase) Settled() bool { return p == PhaseConfirmed || p == PhaseRejected }

// User is the client-side view of a user record. Fields beyond the known
// four are opaque profile data: they survive a decode/encode round trip
// untouched but are never interpreted here.
type User struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  domainauth.Role `json:"role"`

	raw json.RawMessage
}

type userAlias User

// UnmarshalJSON decodes the known fields and keeps the full payload so
// profile fields the core does not model pass through persistence intact.
func (u *User) UnmarshalJSON(data []byte) error {
	var a userAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*u = User(a)
	u.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the original payload when one was captured.
func (u User) MarshalJSON() ([]byte, error) {
	if len(u.raw) > 0 {
		return u.raw, nil
	}
	return json.Marshal(userAlias(u))
}

// Snapshot is an immutable view of the session at a point in time. The
// store publishes a new snapshot on every transition; consumers never
// mutate one.
type Snapshot struct {
	User  *User
	Token string
	Phase Phase
}

// Loading reports whether a routing decision must wait.
func (s Snapshot) Loading() bool { return !s.Phase.Settled() }

// Authenticated reports a settled snapshot holding a valid token/user pair.
func (s Snapshot) Authenticated() bool {
	return s.Phase.Settled() && s.Token != "" && s.User != nil
}
