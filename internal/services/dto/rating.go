package dto

import "servifast_backend/internal/models"

type RateJobRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

type RatingResponse struct {
	JobID         string `json:"job_id"`
	WorkerRating  *int   `json:"worker_rating,omitempty"`
	WorkerComment string `json:"worker_comment,omitempty"`
	ClientRating  *int   `json:"client_rating,omitempty"`
	ClientComment string `json:"client_comment,omitempty"`
}

func NewRatingResponse(rating *models.Rating) RatingResponse {
	return RatingResponse{
		JobID:         rating.JobID,
		WorkerRating:  rating.WorkerRating,
		WorkerComment: rating.WorkerComment,
		ClientRating:  rating.ClientRating,
		ClientComment: rating.ClientComment,
	}
}
