package dto

import (
	"time"

	"servifast_backend/internal/models"
)

type SendMessageRequest struct {
	Content       string  `json:"content" validate:"required,max=5000"`
	ApplicationID *string `json:"application_id" validate:"omitempty,uuid"`
	HasImage      bool    `json:"has_image"`
	ImageURL      string  `json:"image_url" validate:"omitempty,url"`
}

type ChatHistoryQuery struct {
	ApplicationID *string `form:"application_id" validate:"omitempty,uuid"`
	Limit         int     `form:"limit" validate:"omitempty,min=1,max=200"`
	Offset        int     `form:"offset" validate:"omitempty,min=0"`
}

type MessageResponse struct {
	ID            string    `json:"id"`
	JobID         string    `json:"job_id"`
	ApplicationID *string   `json:"application_id,omitempty"`
	SenderID      string    `json:"sender_id"`
	SenderName    string    `json:"sender_name,omitempty"`
	Content       string    `json:"content"`
	HasImage      bool      `json:"has_image"`
	ImageURL      string    `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type ChatHistoryResponse struct {
	Messages []MessageResponse `json:"messages"`
	Total    int64             `json:"total"`
}

func NewMessageResponse(message *models.Message) MessageResponse {
	resp := MessageResponse{
		ID:            message.ID,
		JobID:         message.JobID,
		ApplicationID: message.ApplicationID,
		SenderID:      message.SenderID,
		Content:       message.Content,
		HasImage:      message.HasImage,
		ImageURL:      message.ImageURL,
		CreatedAt:     message.CreatedAt,
	}
	if message.Sender != nil {
		resp.SenderName = message.Sender.FullName
	}
	return resp
}
