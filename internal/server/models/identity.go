// Package models contains the stored records of the parking service and the
// output projections returned to API callers. Projections never carry a
// password digest or a pending single-use token.
package models

import "time"

// Person holds the contact fields shared by every identity kind.
type Person struct {
	FirstName  string `json:"nombre"`
	LastName   string `json:"apellido"`
	NationalID string `json:"cedula"`
	Email      string `json:"email"`
	Phone      string `json:"telefono"`
}

// Administrator is a stored administrator record.
type Administrator struct {
	ID string
	Person
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Guard is a stored guard record. Active is false once an administrator has
// disabled the guard.
type Guard struct {
	ID string
	Person
	PasswordHash   string
	Shift          string
	Active         bool
	ParkingSpaceID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// User is a stored user record. Token is set only while an e-mail
// confirmation or password reset is pending.
type User struct {
	ID string
	Person
	PasswordHash   string
	Active         bool
	Token          *string
	TokenExpiresAt *time.Time
	EmailConfirmed bool
	VehiclePlate   string
	ParkingSpaceID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
