// Package models holds the persistent server-side records.
package models

import "time"

// User is a registered account. PasswordHash is an encoded argon2id string
// (or a legacy bcrypt hash) and never leaves the server.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
