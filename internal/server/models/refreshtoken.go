package models

import "time"

// RefreshToken is a server-side session: created on signup or login, rotated
// on refresh, deleted on logout or once expired.
type RefreshToken struct {
	Token     string
	UserID    string
	Expires   time.Time
	CreatedAt time.Time
}
