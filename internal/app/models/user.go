package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	College      string    `json:"college" db:"college"`
	Branch       string    `json:"branch" db:"branch"`
	Year         int       `json:"year" db:"year"`
	Semester     int       `json:"semester" db:"semester"`
	Role         RoleType  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Scope returns the visibility predicate for this user.
func (u *User) Scope() Scope {
	return Scope{
		Role:     u.Role,
		Branch:   u.Branch,
		Year:     u.Year,
		Semester: u.Semester,
	}
}
