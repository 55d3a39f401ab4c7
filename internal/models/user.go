package models

import "time"

// User represents an account in the system. Accounts are identified by a
// unique email and are never deleted.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"created_at"`
}
