package domain

// SessionUser is the identity shown in the dashboard header.
type SessionUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is the persisted auth-session record. Its field names match the
// record the dashboard has always stored under the auth key.
type Session struct {
	IsLoggedIn bool         `json:"isLoggedIn"`
	User       *SessionUser `json:"user,omitempty"`
}
