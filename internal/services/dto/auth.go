package dto

import "servifast_backend/internal/models"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Role     string `json:"role" validate:"required,is-user-role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID               string          `json:"id"`
	Email            string          `json:"email"`
	Role             models.UserRole `json:"role"`
	FullName         string          `json:"full_name"`
	Phone            string          `json:"phone,omitempty"`
	ProfileImageURL  string          `json:"profile_image_url,omitempty"`
	HasWorkerProfile bool            `json:"has_worker_profile"`
}

type UpdateProfileRequest struct {
	FullName        string `json:"full_name" validate:"omitempty,max=100"`
	Phone           string `json:"phone" validate:"omitempty,max=20"`
	ProfileImageURL string `json:"profile_image_url" validate:"omitempty,url"`
	Password        string `json:"password" validate:"omitempty,min=6"`
}

// NewUserResponse maps a user to its public representation.
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		Email:            user.Email,
		Role:             user.Role,
		FullName:         user.FullName,
		Phone:            user.Phone,
		ProfileImageURL:  user.ProfileImageURL,
		HasWorkerProfile: user.Worker != nil,
	}
}
