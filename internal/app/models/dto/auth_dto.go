package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/collabhub/internal/app/models"
)

// SignupRequest represents a local account registration
type SignupRequest struct {
	Username string `json:"username" binding:"required,username" example:"alice_dev"`
	Name     string `json:"name" binding:"required,min=1,max=100" example:"Alice Doe"`
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest represents login credentials. Identifier is an email or a username.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required" example:"alice@example.com"`
	Password   string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// UserResponse represents the authenticated user's own profile
type UserResponse struct {
	ID           uuid.UUID           `json:"id"`
	Username     string              `json:"username"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	AuthProvider models.AuthProvider `json:"authProvider"`
	ProfilePhoto string              `json:"profilePhoto"`
	Summary      string              `json:"summary"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// NewUserResponse maps a user model to its response
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		Email:        u.Email,
		AuthProvider: u.AuthProvider,
		ProfilePhoto: u.ProfilePhoto,
		Summary:      u.Summary,
		CreatedAt:    u.CreatedAt,
	}
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}
