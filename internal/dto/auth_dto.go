package dto

import "github.com/vkopaniev/contacts-api/internal/models"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type ResendVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type UserResponse struct {
	Email        string              `json:"email"`
	Subscription models.Subscription `json:"subscription"`
	AvatarURL    string              `json:"avatar_url,omitempty"`
}

type RegisterResponse struct {
	User UserResponse `json:"user"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
