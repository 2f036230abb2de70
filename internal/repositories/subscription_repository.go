package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"servifast_backend/internal/models"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type SubscriptionRepository interface {
	Create(sub *models.WorkerSubscription) error
	FindByID(id string) (*models.WorkerSubscription, error)
	// FindLatestActive returns the active period with the furthest valid_until,
	// which is the one new purchases extend from.
	FindLatestActive(workerID string, now time.Time) (*models.WorkerSubscription, error)
	FindByWorker(workerID string, limit, offset int) ([]models.WorkerSubscription, int64, error)
	UpdateStatus(id string, status models.SubscriptionStatus) error
	CancelActive(workerID string, now time.Time) (int64, error)
	ExpireLapsed(now time.Time) (int64, error)
}

type SubscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

func (r *SubscriptionRepositoryImpl) Create(sub *models.WorkerSubscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepositoryImpl) FindByID(id string) (*models.WorkerSubscription, error) {
	var sub models.WorkerSubscription
	err := r.db.First(&sub, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) FindLatestActive(workerID string, now time.Time) (*models.WorkerSubscription, error) {
	var sub models.WorkerSubscription
	err := r.db.
		Where("worker_id = ? AND status = ? AND valid_until > ?",
			workerID, models.SubscriptionStatusActive, now).
		Order("valid_until DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) FindByWorker(workerID string, limit, offset int) ([]models.WorkerSubscription, int64, error) {
	query := r.db.Model(&models.WorkerSubscription{}).Where("worker_id = ?", workerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var subs []models.WorkerSubscription
	err := query.Order("created_at DESC").Find(&subs).Error
	return subs, total, err
}

func (r *SubscriptionRepositoryImpl) UpdateStatus(id string, status models.SubscriptionStatus) error {
	result := r.db.Model(&models.WorkerSubscription{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// CancelActive marks every active period of the worker cancelled.
func (r *SubscriptionRepositoryImpl) CancelActive(workerID string, now time.Time) (int64, error) {
	result := r.db.Model(&models.WorkerSubscription{}).
		Where("worker_id = ? AND status = ?", workerID, models.SubscriptionStatusActive).
		Updates(map[string]interface{}{
			"status":     models.SubscriptionStatusCancelled,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// ExpireLapsed marks active periods whose valid_until has passed. Used by the
// background sweeper.
func (r *SubscriptionRepositoryImpl) ExpireLapsed(now time.Time) (int64, error) {
	result := r.db.Model(&models.WorkerSubscription{}).
		Where("status = ? AND valid_until <= ?", models.SubscriptionStatusActive, now).
		Updates(map[string]interface{}{
			"status":     models.SubscriptionStatusExpired,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
