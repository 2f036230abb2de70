package dto

import (
	"time"

	"gorm.io/datatypes"

	"servifast_backend/internal/models"
)

type CreateWorkerRequest struct {
	FullName    string   `json:"full_name" validate:"required,max=100"`
	Phone       string   `json:"phone" validate:"omitempty,max=20"`
	Services    []string `json:"services" validate:"required,min=1,dive,max=50"`
	Description string   `json:"description" validate:"omitempty,max=1000"`
	District    string   `json:"district" validate:"omitempty,max=100"`
	YapeNumber  string   `json:"yape_number" validate:"omitempty,max=20"`
}

type UpdateWorkerRequest struct {
	FullName        string   `json:"full_name" validate:"omitempty,max=100"`
	Phone           string   `json:"phone" validate:"omitempty,max=20"`
	Services        []string `json:"services" validate:"omitempty,dive,max=50"`
	Description     string   `json:"description" validate:"omitempty,max=1000"`
	District        string   `json:"district" validate:"omitempty,max=100"`
	YapeNumber      string   `json:"yape_number" validate:"omitempty,max=20"`
	IsAvailable     *bool    `json:"is_available"`
	ProfileImageURL string   `json:"profile_image_url" validate:"omitempty,url"`
}

type SubmitVerificationRequest struct {
	PhotoURL string `json:"photo_url" validate:"required,url"`
}

type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type WorkerListQuery struct {
	District    string `form:"district" validate:"omitempty,max=100"`
	ServiceType string `form:"service_type" validate:"omitempty,max=50"`
	OnlyPlus    bool   `form:"only_plus"`
}

type WorkerResponse struct {
	ID                   string         `json:"id"`
	UserID               string         `json:"user_id"`
	FullName             string         `json:"full_name"`
	Phone                string         `json:"phone,omitempty"`
	Services             datatypes.JSON `json:"services,omitempty"`
	Description          string         `json:"description,omitempty"`
	District             string         `json:"district,omitempty"`
	IsAvailable          bool           `json:"is_available"`
	YapeNumber           string         `json:"yape_number,omitempty"`
	ProfileImageURL      string         `json:"profile_image_url,omitempty"`
	IsVerified           bool           `json:"is_verified"`
	VerificationPhotoURL string         `json:"verification_photo_url,omitempty"`
	IsPlusActive         bool           `json:"is_plus_active"`
	PlusExpiresAt        *time.Time     `json:"plus_expires_at,omitempty"`
	AverageRating        float64        `json:"average_rating"`
	RatingCount          int64          `json:"rating_count"`
}

type WorkerListResponse struct {
	Workers []WorkerResponse `json:"workers"`
	Total   int64            `json:"total"`
}

// NewWorkerResponse maps a worker profile. Plus state is reported through
// HasActivePlus so a stale flag never leaks to clients.
func NewWorkerResponse(worker *models.Worker, now time.Time) WorkerResponse {
	return WorkerResponse{
		ID:                   worker.ID,
		UserID:               worker.UserID,
		FullName:             worker.FullName,
		Phone:                worker.Phone,
		Services:             worker.Services,
		Description:          worker.Description,
		District:             worker.District,
		IsAvailable:          worker.IsAvailable,
		YapeNumber:           worker.YapeNumber,
		ProfileImageURL:      worker.ProfileImageURL,
		IsVerified:           worker.IsVerified,
		VerificationPhotoURL: worker.VerificationPhotoURL,
		IsPlusActive:         worker.HasActivePlus(now),
		PlusExpiresAt:        worker.PlusExpiresAt,
	}
}
