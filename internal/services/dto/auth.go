package dto

import "gigmarket_backend/internal/models"

type SignupRequest struct {
	Name     string          `json:"name" validate:"required,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	UserType models.UserRole `json:"userType" validate:"required,is-user-role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string         `json:"token"`
	User  *PublicProfile `json:"user"`
}
