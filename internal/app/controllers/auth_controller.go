package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/middleware"
)

// Authenticator is the account surface the auth endpoints need
type Authenticator interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

// AuthController handles authentication related operations
type AuthController struct {
	authService Authenticator
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService Authenticator, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Signup handles local account registration
// @Summary Register a new user
// @Description Creates a local account and returns an access token for it
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Account information"
// @Success 201 {object} dto.StructuredResponse{data=dto.AuthResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Email or username already taken"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if !middleware.BindJSON(ctx, &req) {
		c.logger.Warn().Msg("Invalid signup request payload")
		return
	}

	resp, err := c.authService.Signup(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("username", req.Username).Msg("Signup failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.Created(resp, "Account created successfully"))
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user by email or username and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.StructuredResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("identifier", req.Identifier).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.OK(resp, "Login successful"))
}
