package auth

import (
	"github.com/buynowhq/buynow-backend/internal/users"
)

// RegisterRequest carries a new account signup. Avatar, when present, is a
// base64 data URL.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=60"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	Avatar   *string `json:"avatar,omitempty"`
}

// LoginRequest carries a credential check.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest starts the password-reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the password-reset flow.
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// UpdatePasswordRequest changes the password of a logged-in user.
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// AuthResult is returned by every operation that establishes a session.
// Token is carried to the client in the session cookie, never in the body.
type AuthResult struct {
	User  *users.UserDTO `json:"user"`
	Token string         `json:"-"`
}
