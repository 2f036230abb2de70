package repositories

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"servifast_backend/internal/models"
)

var ErrJobNotFound = errors.New("job not found")

// JobFilter narrows job listings.
type JobFilter struct {
	Status      models.JobStatus
	ServiceType string
	Search      string
	Limit       int
	Offset      int
}

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(id string) (*models.Job, error)
	FindByIDWithRelations(id string) (*models.Job, error)
	Update(job *models.Job) error
	UpdateStatus(jobID string, status models.JobStatus, fields map[string]interface{}) error
	AssignWorker(jobID, workerID string) error
	FindAvailable(filter JobFilter) ([]models.Job, int64, error)
	FindByClient(clientID string, filter JobFilter) ([]models.Job, int64, error)
	FindByWorker(workerID string, filter JobFilter) ([]models.Job, int64, error)
	FindActiveByWorker(workerID string) (*models.Job, error)
}

type JobRepositoryImpl struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) Create(job *models.Job) error {
	return r.db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(id string) (*models.Job, error) {
	var job models.Job
	err := r.db.First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindByIDWithRelations(id string) (*models.Job, error) {
	var job models.Job
	err := r.db.Preload("Client").Preload("Worker").
		Preload("Applications").Preload("Rating").
		First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) Update(job *models.Job) error {
	result := r.db.Save(job)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// UpdateStatus writes the new status plus any accompanying fields
// (timestamps, totals) in a single update.
func (r *JobRepositoryImpl) UpdateStatus(jobID string, status models.JobStatus, fields map[string]interface{}) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	for k, v := range fields {
		updates[k] = v
	}

	result := r.db.Model(&models.Job{}).Where("id = ?", jobID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) AssignWorker(jobID, workerID string) error {
	result := r.db.Model(&models.Job{}).
		Where("id = ? AND worker_id IS NULL AND status = ?", jobID, models.JobStatusPending).
		Updates(map[string]interface{}{
			"worker_id":  workerID,
			"status":     models.JobStatusAccepted,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) FindAvailable(filter JobFilter) ([]models.Job, int64, error) {
	query := r.db.Model(&models.Job{}).
		Preload("Client").
		Where("status = ? AND worker_id IS NULL", models.JobStatusPending)

	if filter.ServiceType != "" {
		query = query.Where("service_type = ?", filter.ServiceType)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(address) LIKE ? OR LOWER(service_type) LIKE ?",
			term, term, term, term,
		)
	}

	return r.paginate(query, filter, "created_at DESC")
}

// FindByClient orders the client's jobs active first, newest first within each
// group.
func (r *JobRepositoryImpl) FindByClient(clientID string, filter JobFilter) ([]models.Job, int64, error) {
	query := r.db.Model(&models.Job{}).Preload("Worker").Where("client_id = ?", clientID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	order := "CASE WHEN status IN ('pending','accepted','in_route','on_site','in_progress') THEN 1 ELSE 2 END ASC, created_at DESC"
	return r.paginate(query, filter, order)
}

// FindByWorker returns the worker's active jobs, most advanced state first.
func (r *JobRepositoryImpl) FindByWorker(workerID string, filter JobFilter) ([]models.Job, int64, error) {
	query := r.db.Model(&models.Job{}).Preload("Client").Where("worker_id = ?", workerID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	} else {
		query = query.Where("status IN ?", models.ActiveJobStatuses())
	}

	order := "CASE status WHEN 'in_progress' THEN 1 WHEN 'on_site' THEN 2 WHEN 'in_route' THEN 3 WHEN 'accepted' THEN 4 ELSE 5 END ASC, created_at DESC"
	return r.paginate(query, filter, order)
}

// FindActiveByWorker returns the worker's job in an active (non-terminal,
// non-pending) state, or ErrJobNotFound.
func (r *JobRepositoryImpl) FindActiveByWorker(workerID string) (*models.Job, error) {
	var job models.Job
	err := r.db.
		Where("worker_id = ? AND status IN ?", workerID, models.ActiveJobStatuses()).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) paginate(query *gorm.DB, filter JobFilter, order string) ([]models.Job, int64, error) {
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

	var jobs []models.Job
	err := query.Order(order).Find(&jobs).Error
	return jobs, total, err
}
