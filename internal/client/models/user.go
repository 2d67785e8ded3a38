// Package models defines the records the CLI receives from the server.
package models

import "time"

// User is a signed-up account as the server reports it.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSummary is the trimmed user attached to listed tasks.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session holds the tokens issued at signup, login or refresh.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *User
}
