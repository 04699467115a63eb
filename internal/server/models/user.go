// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. Email is stored lowercased and is unique.
// PasswordHash never leaves the server.
type User struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
