package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"servifast_backend/internal/models"
)

var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("worker already applied to this job")
)

type ApplicationRepository interface {
	Create(app *models.JobApplication) error
	FindByID(id string) (*models.JobApplication, error)
	FindByJob(jobID string) ([]models.JobApplication, error)
	FindByWorker(workerID string) ([]models.JobApplication, error)
	FindByJobAndWorker(jobID, workerID string) (*models.JobApplication, error)
	MarkAccepted(id string) error
}

type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

// Create relies on the unique (job_id, worker_id) index to reject duplicate
// applications atomically.
func (r *ApplicationRepositoryImpl) Create(app *models.JobApplication) error {
	err := r.db.Create(app).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateApplication
	}
	return err
}

func (r *ApplicationRepositoryImpl) FindByID(id string) (*models.JobApplication, error) {
	var app models.JobApplication
	err := r.db.Preload("Worker").First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindByJob(jobID string) ([]models.JobApplication, error) {
	var apps []models.JobApplication
	err := r.db.Preload("Worker").
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) FindByWorker(workerID string) ([]models.JobApplication, error) {
	var apps []models.JobApplication
	err := r.db.Preload("Job").
		Where("worker_id = ?", workerID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) FindByJobAndWorker(jobID, workerID string) (*models.JobApplication, error) {
	var app models.JobApplication
	err := r.db.First(&app, "job_id = ? AND worker_id = ?", jobID, workerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) MarkAccepted(id string) error {
	result := r.db.Model(&models.JobApplication{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_accepted": true,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
