package dto

import (
	"time"

	"github.com/assignamate/assignamate-api/internal/models"
)

// RegisterRequest describes the payload for creating a new account.
type RegisterRequest struct {
	Name          string `json:"name" validate:"required,min=2"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	Role          string `json:"role" validate:"required,oneof=teacher student"`
	StudentNumber string `json:"student_number" validate:"omitempty,min=2"`
}

// LoginRequest describes the credentials payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the serialized account representation.
type UserResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	StudentNumber string    `json:"student_number,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// LoginResponse carries the signed token together with the account.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:            model.ID,
		Name:          model.Name,
		Email:         model.Email,
		Role:          model.Role,
		StudentNumber: model.StudentNumber,
		CreatedAt:     model.CreatedAt,
	}
}
