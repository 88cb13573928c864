package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthProvider identifies how a user signs in
type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	Username     string       `json:"username" db:"username" example:"alice_dev"`
	Name         string       `json:"name" db:"name" example:"Alice Doe"`
	Email        string       `json:"email" db:"email" example:"alice@example.com"`
	PasswordHash *string      `json:"-" db:"password_hash"` // nil for federated identities
	AuthProvider AuthProvider `json:"authProvider" db:"auth_provider" example:"local"`
	ProfilePhoto string       `json:"profilePhoto" db:"profile_photo"`
	Summary      string       `json:"summary" db:"summary"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`
}

// UserSummary is the public subset of a user embedded in other resources
type UserSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name" example:"Alice Doe"`
	Username     string    `json:"username" example:"alice_dev"`
	ProfilePhoto string    `json:"profilePhoto"`
}

// Public returns the public subset of u
func (u *User) Public() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Username: u.Username, ProfilePhoto: u.ProfilePhoto}
}
