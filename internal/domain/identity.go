package domain

// IdentityKind discriminates cart owners.
type IdentityKind string

const (
	// IdentityUser addresses the cart of an authenticated user.
	IdentityUser IdentityKind = "user"
	// IdentityAnonymous addresses the cart of a guest session.
	IdentityAnonymous IdentityKind = "anonymous"
)

// Identity is the unit of cart ownership: exactly one of an authenticated
// user or an anonymous session. The constructors are the only way to build
// a valid value, so "exactly one id" holds structurally.
type Identity struct {
	Kind IdentityKind
	ID   string
}

// UserIdentity builds the identity of an authenticated user.
func UserIdentity(userID string) Identity {
	return Identity{Kind: IdentityUser, ID: userID}
}

// AnonymousIdentity builds the identity of a guest session.
func AnonymousIdentity(sessionID string) Identity {
	return Identity{Kind: IdentityAnonymous, ID: sessionID}
}

// IsUser reports whether the identity belongs to an authenticated user.
func (i Identity) IsUser() bool {
	return i.Kind == IdentityUser
}

// Zero reports whether the identity is unset.
func (i Identity) Zero() bool {
	return i.Kind == "" || i.ID == ""
}
