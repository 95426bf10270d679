package model

import "time"

// Session is the authenticated operator's credential tuple. Either all four
// fields are present and consistent, or the session is treated as absent.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	RegNo     string    `json:"reg_no"`
	RoleID    int       `json:"role_id"`
}

// Valid reports whether the tuple is complete. Expiry against the clock is
// the guard's concern, not the tuple's.
func (s Session) Valid() bool {
	return s.Token != "" && !s.ExpiresAt.IsZero()
}

func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt.IsZero() || !now.Before(s.ExpiresAt)
}
