package auth

import "git.vibecoding.academy/vca/vca/src/models"

type SessionState int

const (
	// No valid session. The visitor browses anonymously.
	SessionAnonymous SessionState = iota
	// A valid session backed by a stored profile.
	SessionAuthenticated
	// The visitor's identity checked out but the profile store could
	// not serve their profile. They get a synthesized member-level
	// profile and a banner explaining the situation.
	SessionDegraded
)

// SessionContext is the per-request result of session resolution.
// Exactly one of the three states applies; Profile is nil only for
// SessionAnonymous, and for SessionDegraded it is a transient
// FallbackProfile with ID -1.
type SessionContext struct {
	State   SessionState
	Profile *models.Profile
	// Human-readable cause, set only for SessionDegraded.
	DegradedReason string
}

func Anonymous() SessionContext {
	return SessionContext{State: SessionAnonymous}
}

func Authenticated(profile *models.Profile) SessionContext {
	return SessionContext{State: SessionAuthenticated, Profile: profile}
}

func Degraded(fallback *models.Profile, reason string) SessionContext {
	return SessionContext{State: SessionDegraded, Profile: fallback, DegradedReason: reason}
}

func (sc SessionContext) SignedIn() bool {
	return sc.State != SessionAnonymous
}

// Degraded visitors never get privileged powers regardless of what
// role their last stored profile had.
func (sc SessionContext) CanAdmin() bool {
	return sc.State == SessionAuthenticated && sc.Profile.IsAdmin()
}

func (sc SessionContext) CanFacilitate() bool {
	return sc.State == SessionAuthenticated && sc.Profile.IsPrivileged()
}
