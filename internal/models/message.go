package models

import "time"

// Message is scoped to a job and, while the job is still pending, to one
// application (keeping parallel applicant chats apart). Messages are immutable
// once created; creation order is the only ordering guarantee.
type Message struct {
	ID            string  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	JobID         string  `gorm:"type:uuid;not null;index" json:"job_id"`
	ApplicationID *string `gorm:"type:uuid;index" json:"application_id,omitempty"`
	SenderID      string  `gorm:"type:uuid;not null" json:"sender_id"`

	Content  string `gorm:"type:text;not null" json:"content"`
	HasImage bool   `gorm:"not null;default:false" json:"has_image"`
	ImageURL string `json:"image_url,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`

	// Relations
	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
