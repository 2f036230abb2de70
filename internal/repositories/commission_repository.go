package repositories

import (
	"errors"

	"gorm.io/gorm"

	"servifast_backend/internal/models"
)

var (
	ErrCommissionNotFound = errors.New("commission not found")
	ErrCommissionExists   = errors.New("commission already exists for this job")
)

type CommissionRepository interface {
	Create(commission *models.Commission) error
	FindByID(id string) (*models.Commission, error)
	FindByWorker(workerID string, limit, offset int) ([]models.Commission, int64, error)
	FindPendingByWorker(workerID string) ([]models.Commission, error)
	FindByStatus(status models.CommissionStatus, limit, offset int) ([]models.Commission, int64, error)
	Update(commission *models.Commission) error
	SumPendingByWorker(workerID string) (float64, error)
}

type CommissionRepositoryImpl struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &CommissionRepositoryImpl{db: db}
}

func (r *CommissionRepositoryImpl) Create(commission *models.Commission) error {
	err := r.db.Create(commission).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrCommissionExists
	}
	return err
}

func (r *CommissionRepositoryImpl) FindByID(id string) (*models.Commission, error) {
	var commission models.Commission
	err := r.db.Preload("Worker").Preload("Job").First(&commission, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommissionNotFound
		}
		return nil, err
	}
	return &commission, nil
}

func (r *CommissionRepositoryImpl) FindByWorker(workerID string, limit, offset int) ([]models.Commission, int64, error) {
	query := r.db.Model(&models.Commission{}).Where("worker_id = ?", workerID)
	return r.paginate(query, limit, offset)
}

func (r *CommissionRepositoryImpl) FindPendingByWorker(workerID string) ([]models.Commission, error) {
	var commissions []models.Commission
	err := r.db.Preload("Job").
		Where("worker_id = ? AND status = ?", workerID, models.CommissionStatusPending).
		Order("created_at DESC").
		Find(&commissions).Error
	return commissions, err
}

func (r *CommissionRepositoryImpl) FindByStatus(status models.CommissionStatus, limit, offset int) ([]models.Commission, int64, error) {
	query := r.db.Model(&models.Commission{}).Preload("Worker").Where("status = ?", status)
	return r.paginate(query, limit, offset)
}

func (r *CommissionRepositoryImpl) Update(commission *models.Commission) error {
	result := r.db.Save(commission)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommissionNotFound
	}
	return nil
}

func (r *CommissionRepositoryImpl) SumPendingByWorker(workerID string) (float64, error) {
	var total float64
	err := r.db.Model(&models.Commission{}).
		Where("worker_id = ? AND status IN ?", workerID,
			[]models.CommissionStatus{models.CommissionStatusPending, models.CommissionStatusPaymentSubmitted}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *CommissionRepositoryImpl) paginate(query *gorm.DB, limit, offset int) ([]models.Commission, int64, error) {
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

	var commissions []models.Commission
	err := query.Order("created_at DESC").Find(&commissions).Error
	return commissions, total, err
}
