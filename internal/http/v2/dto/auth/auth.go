// Package auth contiene DTOs para endpoints de autenticación.
package auth

import "github.com/dropDatabas3/authkit/internal/http/v2/dto/users"

// RegisterRequest alta por email + password.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Language  string `json:"language,omitempty"`
}

// LoginRequest: username es el email (compatible con el form OAuth2 password).
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// TokenResponse par access/refresh emitido por register, login, refresh y sso confirm.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"` // segundos del access token

	User *users.UserResponse `json:"user,omitempty"`
}

type MessageResponse struct {
	Msg string `json:"msg"`
}
