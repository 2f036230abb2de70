package models

import "time"

// WorkerSubscription is a paid Plus period bought by a worker. Periods stack:
// buying while one is active extends from the current valid_until instead of
// from now.
type WorkerSubscription struct {
	BaseModel
	WorkerID string `gorm:"type:uuid;not null;index" json:"worker_id"`

	Plan   SubscriptionPlan   `gorm:"type:varchar(20);not null" json:"plan"`
	Days   int                `gorm:"not null" json:"days"`
	Amount float64            `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status SubscriptionStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null;default:'yape'" json:"payment_method"`
	PaymentCode   string        `gorm:"type:varchar(100)" json:"payment_code,omitempty"`

	ValidFrom  time.Time `gorm:"not null" json:"valid_from"`
	ValidUntil time.Time `gorm:"not null" json:"valid_until"`

	Worker *Worker `gorm:"foreignKey:WorkerID" json:"-"`
}

// IsCurrent reports whether the period covers the given instant.
func (s *WorkerSubscription) IsCurrent(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && now.Before(s.ValidUntil)
}
