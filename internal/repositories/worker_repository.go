package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"servifast_backend/internal/models"
)

var (
	ErrWorkerNotFound      = errors.New("worker not found")
	ErrWorkerAlreadyExists = errors.New("worker profile already exists")
)

// WorkerFilter narrows worker listings.
type WorkerFilter struct {
	District    string
	ServiceType string
	OnlyPlus    bool
	Limit       int
	Offset      int
}

type WorkerRepository interface {
	Create(worker *models.Worker) error
	FindByID(id string) (*models.Worker, error)
	FindByUserID(userID string) (*models.Worker, error)
	Update(worker *models.Worker) error
	FindAvailable(filter WorkerFilter) ([]models.Worker, int64, error)
	FindPendingVerification() ([]models.Worker, error)
	UpdatePlusStatus(workerID string, active bool, expiresAt *time.Time) error
	ClearExpiredPlusFlags(now time.Time) (int64, error)
}

type WorkerRepositoryImpl struct {
	db *gorm.DB
}

func NewWorkerRepository(db *gorm.DB) WorkerRepository {
	return &WorkerRepositoryImpl{db: db}
}

func (r *WorkerRepositoryImpl) Create(worker *models.Worker) error {
	err := r.db.Create(worker).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrWorkerAlreadyExists
	}
	return err
}

func (r *WorkerRepositoryImpl) FindByID(id string) (*models.Worker, error) {
	var worker models.Worker
	err := r.db.First(&worker, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}
	return &worker, nil
}

func (r *WorkerRepositoryImpl) FindByUserID(userID string) (*models.Worker, error) {
	var worker models.Worker
	err := r.db.First(&worker, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}
	return &worker, nil
}

func (r *WorkerRepositoryImpl) Update(worker *models.Worker) error {
	result := r.db.Model(worker).Updates(map[string]interface{}{
		"full_name":              worker.FullName,
		"phone":                  worker.Phone,
		"services":               worker.Services,
		"description":            worker.Description,
		"district":               worker.District,
		"is_available":           worker.IsAvailable,
		"yape_number":            worker.YapeNumber,
		"profile_image_url":      worker.ProfileImageURL,
		"verification_photo_url": worker.VerificationPhotoURL,
		"is_verified":            worker.IsVerified,
		"updated_at":             time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWorkerNotFound
	}
	return nil
}

func (r *WorkerRepositoryImpl) FindAvailable(filter WorkerFilter) ([]models.Worker, int64, error) {
	query := r.db.Model(&models.Worker{}).Where("is_available = ?", true)

	if filter.District != "" {
		query = query.Where("district = ?", filter.District)
	}
	if filter.ServiceType != "" {
		query = query.Where("services::text LIKE ?", "%"+filter.ServiceType+"%")
	}
	if filter.OnlyPlus {
		query = query.Where("is_plus_active = ? AND plus_expires_at > ?", true, time.Now())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var workers []models.Worker
	err := query.Order("is_plus_active DESC, created_at DESC").Find(&workers).Error
	return workers, total, err
}

// FindPendingVerification lists workers who uploaded a verification photo
// but have not been reviewed yet.
func (r *WorkerRepositoryImpl) FindPendingVerification() ([]models.Worker, error) {
	var workers []models.Worker
	err := r.db.
		Where("is_verified = ? AND verification_photo_url <> ''", false).
		Order("created_at ASC").
		Find(&workers).Error
	return workers, err
}

func (r *WorkerRepositoryImpl) UpdatePlusStatus(workerID string, active bool, expiresAt *time.Time) error {
	result := r.db.Model(&models.Worker{}).Where("id = ?", workerID).Updates(map[string]interface{}{
		"is_plus_active":  active,
		"plus_expires_at": expiresAt,
		"updated_at":      time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWorkerNotFound
	}
	return nil
}

// ClearExpiredPlusFlags drops the stale is_plus_active flag on workers whose
// Plus period has lapsed. Used by the background sweeper.
func (r *WorkerRepositoryImpl) ClearExpiredPlusFlags(now time.Time) (int64, error) {
	result := r.db.Model(&models.Worker{}).
		Where("is_plus_active = ? AND (plus_expires_at IS NULL OR plus_expires_at <= ?)", true, now).
		Updates(map[string]interface{}{
			"is_plus_active": false,
			"updated_at":     now,
		})
	return result.RowsAffected, result.Error
}
