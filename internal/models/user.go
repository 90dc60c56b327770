package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicProfile is the shape returned by GET /user/{username}: display
// identity plus owned cocktails, never the email or the hash.
type PublicProfile struct {
	Username  string     `json:"username"`
	CreatedAt time.Time  `json:"created_at"`
	Cocktails []Cocktail `json:"cocktails"`
}
