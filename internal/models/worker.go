package models

import (
	"time"

	"gorm.io/datatypes"
)

type Worker struct {
	BaseModel
	UserID   string `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	FullName string `gorm:"not null" json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	// Services offered, stored as a JSON list: ["Plomería", "Electricidad", ...]
	Services        datatypes.JSON `gorm:"type:jsonb" json:"services,omitempty"`
	Description     string         `gorm:"type:text" json:"description,omitempty"`
	District        string         `json:"district,omitempty"`
	IsAvailable     bool           `gorm:"not null;default:false" json:"is_available"`
	YapeNumber      string         `json:"yape_number,omitempty"`
	ProfileImageURL string         `json:"profile_image_url,omitempty"`

	// Verification is granted only through manager review.
	IsVerified           bool   `gorm:"not null;default:false" json:"is_verified"`
	VerificationPhotoURL string `json:"verification_photo_url,omitempty"`

	// Plus subscription state. IsPlusActive alone is not authoritative: it may
	// lag behind PlusExpiresAt; HasActivePlus is the only correct check.
	IsPlusActive  bool       `gorm:"not null;default:false" json:"is_plus_active"`
	PlusExpiresAt *time.Time `json:"plus_expires_at,omitempty"`

	// Relations
	User          *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Jobs          []Job                `gorm:"foreignKey:WorkerID" json:"-"`
	Applications  []JobApplication     `gorm:"foreignKey:WorkerID;constraint:OnDelete:CASCADE" json:"-"`
	Subscriptions []WorkerSubscription `gorm:"foreignKey:WorkerID;constraint:OnDelete:CASCADE" json:"-"`
}

// HasActivePlus reports whether the worker's Plus subscription is effective at
// the given instant. A raised flag with a past expiry is stale and counts as
// inactive.
func (w *Worker) HasActivePlus(now time.Time) bool {
	if !w.IsPlusActive {
		return false
	}
	if w.PlusExpiresAt == nil {
		return false
	}
	return w.PlusExpiresAt.After(now)
}
