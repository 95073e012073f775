package dto

import (
	"time"

	"github.com/fintrack/fintrack/internal/service"
)

// SignupRequest represents the request body for POST /api/auth/signup.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// ToInput converts the request to service input.
func (r SignupRequest) ToInput() service.SignupInput {
	return service.SignupInput{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		FullName: r.FullName,
	}
}

// LoginRequest represents the request body for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
}

// ToLoginResponse converts a login result to its wire form.
func ToLoginResponse(res *service.LoginResult) *LoginResponse {
	return &LoginResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresAt: res.ExpiresAt.UTC(),
		Username:  res.Username,
		Email:     res.Email,
		FullName:  res.FullName,
	}
}
