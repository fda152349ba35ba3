package domain

import "time"

// Role labels. A user carries exactly one.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int
	Email        string
	Name         string
	PasswordHash string // argon2 encoded
	BirthDate    *time.Time
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
