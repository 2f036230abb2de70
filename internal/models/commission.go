package models

import "time"

// Commission is a payment-due record from worker to platform, reviewed by a
// manager. Creation on job completion is currently an inert extension point
// (no per-job commission under the current business model), so rows mostly
// originate from legacy data.
type Commission struct {
	BaseModel
	WorkerID string  `gorm:"type:uuid;not null;index" json:"worker_id"`
	JobID    string  `gorm:"type:uuid;not null;uniqueIndex" json:"job_id"`
	Amount   float64 `gorm:"not null" json:"amount"`

	Status          CommissionStatus `gorm:"type:varchar(30);not null;default:'pending'" json:"status"`
	PaymentCode     string           `json:"payment_code,omitempty"`
	PaymentProofURL string           `json:"payment_proof_url,omitempty"`
	SubmittedAt     *time.Time       `json:"submitted_at,omitempty"`

	ReviewedBy *string    `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	Notes      string     `gorm:"type:text" json:"notes,omitempty"`

	// Relations
	Worker   *Worker `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	Job      *Job    `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Reviewer *User   `gorm:"foreignKey:ReviewedBy" json:"-"`
}
