package repositories

import (
	"errors"

	"gorm.io/gorm"

	"servifast_backend/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Create(message *models.Message) error
	// FindByChat returns the messages of one chat room: the accepted-job room
	// when applicationID is nil, or one applicant's pre-acceptance room.
	FindByChat(jobID string, applicationID *string, limit, offset int) ([]models.Message, error)
	CountByChat(jobID string, applicationID *string) (int64, error)
}

type MessageRepositoryImpl struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &MessageRepositoryImpl{db: db}
}

func (r *MessageRepositoryImpl) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepositoryImpl) FindByChat(jobID string, applicationID *string, limit, offset int) ([]models.Message, error) {
	query := r.chatQuery(jobID, applicationID).Preload("Sender")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var messages []models.Message
	err := query.Order("created_at ASC").Find(&messages).Error
	return messages, err
}

func (r *MessageRepositoryImpl) CountByChat(jobID string, applicationID *string) (int64, error) {
	var count int64
	err := r.chatQuery(jobID, applicationID).Count(&count).Error
	return count, err
}

func (r *MessageRepositoryImpl) chatQuery(jobID string, applicationID *string) *gorm.DB {
	query := r.db.Model(&models.Message{}).Where("job_id = ?", jobID)
	if applicationID == nil {
		return query.Where("application_id IS NULL")
	}
	return query.Where("application_id = ?", *applicationID)
}
