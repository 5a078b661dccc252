package dtos

import (
	"time"

	"github.com/justsurfingit/hireground/internal/models"
)

type RegisterRequest struct {
	Email    string       `json:"email" validate:"required,email"`
	Password string       `json:"password" validate:"required,min=6"`
	Role     models.Role  `json:"role" validate:"omitempty,oneof=candidate recruiter"`
	Profile  ProfileInput `json:"profile"`
}

// ProfileInput is the editable part of a profile, shared by registration and PUT /api/profile.
type ProfileInput struct {
	FirstName  string   `json:"first_name" validate:"required"`
	LastName   string   `json:"last_name" validate:"required"`
	Phone      string   `json:"phone"`
	Location   string   `json:"location"`
	Company    string   `json:"company"`
	Position   string   `json:"position"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Bio        string   `json:"bio"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type ProfileResponse struct {
	Profile models.Profile `json:"profile"`
}

type ResumeResponse struct {
	Resume *models.ResumeFile `json:"resume"`
}
