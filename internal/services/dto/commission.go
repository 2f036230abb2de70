package dto

import (
	"time"

	"servifast_backend/internal/models"
)

type SubmitCommissionPaymentRequest struct {
	PaymentCode     string `json:"payment_code" validate:"required,max=100"`
	PaymentProofURL string `json:"payment_proof_url" validate:"omitempty,url"`
}

type ReviewCommissionRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes" validate:"omitempty,max=1000"`
}

type CommissionResponse struct {
	ID              string                  `json:"id"`
	WorkerID        string                  `json:"worker_id"`
	JobID           string                  `json:"job_id"`
	Amount          float64                 `json:"amount"`
	Status          models.CommissionStatus `json:"status"`
	PaymentCode     string                  `json:"payment_code,omitempty"`
	PaymentProofURL string                  `json:"payment_proof_url,omitempty"`
	SubmittedAt     *time.Time              `json:"submitted_at,omitempty"`
	ReviewedAt      *time.Time              `json:"reviewed_at,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

type CommissionListResponse struct {
	Commissions []CommissionResponse `json:"commissions"`
	Total       int64                `json:"total"`
	PendingSum  float64              `json:"pending_sum,omitempty"`
}

func NewCommissionResponse(commission *models.Commission) CommissionResponse {
	return CommissionResponse{
		ID:              commission.ID,
		WorkerID:        commission.WorkerID,
		JobID:           commission.JobID,
		Amount:          commission.Amount,
		Status:          commission.Status,
		PaymentCode:     commission.PaymentCode,
		PaymentProofURL: commission.PaymentProofURL,
		SubmittedAt:     commission.SubmittedAt,
		ReviewedAt:      commission.ReviewedAt,
		Notes:           commission.Notes,
		CreatedAt:       commission.CreatedAt,
	}
}
