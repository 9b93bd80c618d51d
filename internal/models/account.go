package models

import "time"

// Account represents a back-office user account.
// The username is stored encrypted at rest; PasswordHash is a bcrypt hash.
type Account struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	Role         Role      `json:"role"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	RegisteredAt time.Time `json:"registered_at"`
}
