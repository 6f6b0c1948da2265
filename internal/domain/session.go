package domain

// Session identifies the caller of a request. It is built once from a
// verified token and handed to handlers explicitly.
type Session struct {
	UserID        string
	Role          Role
	EmailVerified bool
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
