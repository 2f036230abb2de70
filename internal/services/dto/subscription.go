package dto

import (
	"time"

	"servifast_backend/internal/models"
)

type SubscribeRequest struct {
	Plan        string `json:"plan" validate:"required,is-subscription-plan"`
	PaymentCode string `json:"payment_code" validate:"omitempty,max=100"`
}

type SubscriptionResponse struct {
	Subscription SubscriptionItem   `json:"subscription"`
	PlusStatus   PlusStatusResponse `json:"plus_status"`
}

type PlusStatusResponse struct {
	IsActive   bool       `json:"is_active"`
	Plan       string     `json:"plan,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
}

type SubscriptionHistoryResponse struct {
	Subscriptions []SubscriptionItem `json:"subscriptions"`
	Total         int64              `json:"total"`
}

type SubscriptionItem struct {
	ID         string                    `json:"id"`
	Plan       models.SubscriptionPlan   `json:"plan"`
	Days       int                       `json:"days"`
	Amount     float64                   `json:"amount"`
	Status     models.SubscriptionStatus `json:"status"`
	ValidFrom  time.Time                 `json:"valid_from"`
	ValidUntil time.Time                 `json:"valid_until"`
	CreatedAt  time.Time                 `json:"created_at"`
}

func NewSubscriptionItem(sub *models.WorkerSubscription) SubscriptionItem {
	return SubscriptionItem{
		ID:         sub.ID,
		Plan:       sub.Plan,
		Days:       sub.Days,
		Amount:     sub.Amount,
		Status:     sub.Status,
		ValidFrom:  sub.ValidFrom,
		ValidUntil: sub.ValidUntil,
		CreatedAt:  sub.CreatedAt,
	}
}
