package models

import "time"

// Admin is an account allowed to use the admin API. Stored in table admins.
type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
