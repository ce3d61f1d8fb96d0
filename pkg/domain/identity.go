package domain

// Identity is the authenticated caller, derived only from a verified token.
// It lives for a single request and is never persisted.
type Identity struct {
	UserID   UserID
	RoleID   RoleID
	Username string
	Email    string
}

// IsAdmin reports whether the caller holds the administrator role.
func (i Identity) IsAdmin() bool {
	return i.RoleID == RoleAdmin
}

// Owns reports whether the caller is the given user.
func (i Identity) Owns(userID UserID) bool {
	return i.UserID == userID
}
