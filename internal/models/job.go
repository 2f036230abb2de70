package models

import "time"

type Job struct {
	BaseModel
	ClientID string  `gorm:"type:uuid;not null;index" json:"client_id"`
	WorkerID *string `gorm:"type:uuid;index" json:"worker_id,omitempty"`

	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	ServiceType string    `gorm:"not null" json:"service_type"`
	Status      JobStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	BaseFee       float64       `gorm:"not null" json:"base_fee"`
	Extras        float64       `gorm:"not null;default:0" json:"extras"`
	// TotalAmount is recomputed on every extra; always BaseFee + Extras.
	TotalAmount float64 `gorm:"not null" json:"total_amount"`

	Address   string   `gorm:"not null" json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Relations
	Client       *User            `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Worker       *Worker          `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	Applications []JobApplication `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	Messages     []Message        `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	Rating       *Rating          `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"rating,omitempty"`
}

// RecalculateTotal restores the TotalAmount invariant after a fee change.
func (j *Job) RecalculateTotal() {
	j.TotalAmount = j.BaseFee + j.Extras
}
