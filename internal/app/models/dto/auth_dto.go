package dto

import "github.com/ucsb-cs156/crudapi/internal/app/models"

// LoginRequest represents the login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@ucsb.edu"`
	Password string `json:"password" binding:"required" example:"admin"`
}

// TokenResponse is returned after a successful login
type TokenResponse struct {
	AccessToken string        `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIs..."`
	TokenType   string        `json:"tokenType" example:"Bearer"`
	ExpiresIn   int           `json:"expiresIn" example:"3600"`
	Roles       []models.Role `json:"roles"`
}

// CurrentUserResponse describes the caller identified by the bearer token
type CurrentUserResponse struct {
	ID       int64         `json:"id" example:"1"`
	Email    string        `json:"email" example:"admin@ucsb.edu"`
	Roles    []models.Role `json:"roles"`
	LoggedIn bool          `json:"loggedIn" example:"true"`
}
