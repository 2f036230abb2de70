package dto

import (
	"time"

	"servifast_backend/internal/models"
)

type CreateJobRequest struct {
	Title         string     `json:"title" validate:"required,max=150"`
	Description   string     `json:"description" validate:"omitempty,max=2000"`
	ServiceType   string     `json:"service_type" validate:"required,max=50"`
	PaymentMethod string     `json:"payment_method" validate:"required,is-payment-method"`
	BaseFee       float64    `json:"base_fee" validate:"required,gt=0"`
	Address       string     `json:"address" validate:"required,max=300"`
	Latitude      *float64   `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude     *float64   `json:"longitude" validate:"omitempty,min=-180,max=180"`
	ScheduledAt   *time.Time `json:"scheduled_at"`
}

type AddExtraRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"omitempty,max=300"`
}

type AcceptWorkerRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid"`
}

type JobListQuery struct {
	Status      string `form:"status" validate:"omitempty,is-job-status"`
	ServiceType string `form:"service_type" validate:"omitempty,max=50"`
	Search      string `form:"search" validate:"omitempty,max=100"`
}

// JobSummary is the listing row shown to browsing workers. The client's phone
// is present only when the caller holds an active Plus subscription.
type JobSummary struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description,omitempty"`
	ServiceType   string               `json:"service_type"`
	Status        models.JobStatus     `json:"status"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	BaseFee       float64              `json:"base_fee"`
	Address       string               `json:"address"`
	ClientName    string               `json:"client_name,omitempty"`
	ClientPhone   string               `json:"client_phone,omitempty"`
	ScheduledAt   *time.Time           `json:"scheduled_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

type JobListResponse struct {
	Jobs  []JobSummary `json:"jobs"`
	Total int64        `json:"total"`
}

type JobDetailResponse struct {
	Job          *models.Job          `json:"job"`
	Capabilities interface{}          `json:"capabilities,omitempty"`
	Applications []ApplicationSummary `json:"applications,omitempty"`
}

type ApplicationSummary struct {
	ID         string    `json:"id"`
	JobID      string    `json:"job_id"`
	WorkerID   string    `json:"worker_id"`
	WorkerName string    `json:"worker_name,omitempty"`
	IsAccepted bool      `json:"is_accepted"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewJobSummary maps a job for listings. includeContact controls whether the
// client's phone is exposed (Plus workers only).
func NewJobSummary(job *models.Job, includeContact bool) JobSummary {
	summary := JobSummary{
		ID:            job.ID,
		Title:         job.Title,
		Description:   job.Description,
		ServiceType:   job.ServiceType,
		Status:        job.Status,
		PaymentMethod: job.PaymentMethod,
		BaseFee:       job.BaseFee,
		Address:       job.Address,
		ScheduledAt:   job.ScheduledAt,
		CreatedAt:     job.CreatedAt,
	}
	if job.Client != nil {
		summary.ClientName = job.Client.FullName
		if includeContact {
			summary.ClientPhone = job.Client.Phone
		}
	}
	return summary
}

// NewApplicationSummary maps an application row for the job owner's view.
func NewApplicationSummary(app *models.JobApplication) ApplicationSummary {
	summary := ApplicationSummary{
		ID:         app.ID,
		JobID:      app.JobID,
		WorkerID:   app.WorkerID,
		IsAccepted: app.IsAccepted,
		CreatedAt:  app.CreatedAt,
	}
	if app.Worker != nil {
		summary.WorkerName = app.Worker.FullName
	}
	return summary
}
