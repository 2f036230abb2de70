package repositories

import (
	"errors"

	"gorm.io/gorm"

	"servifast_backend/internal/models"
)

var ErrRatingNotFound = errors.New("rating not found")

type RatingRepository interface {
	Create(rating *models.Rating) error
	FindByJob(jobID string) (*models.Rating, error)
	Update(rating *models.Rating) error
	// WorkerAverage aggregates the client-given scores across a worker's
	// completed jobs.
	WorkerAverage(workerID string) (avg float64, count int64, err error)
}

type RatingRepositoryImpl struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &RatingRepositoryImpl{db: db}
}

func (r *RatingRepositoryImpl) Create(rating *models.Rating) error {
	return r.db.Create(rating).Error
}

func (r *RatingRepositoryImpl) FindByJob(jobID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.First(&rating, "job_id = ?", jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *RatingRepositoryImpl) Update(rating *models.Rating) error {
	result := r.db.Save(rating)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRatingNotFound
	}
	return nil
}

func (r *RatingRepositoryImpl) WorkerAverage(workerID string) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := r.db.Model(&models.Rating{}).
		Joins("JOIN jobs ON jobs.id = ratings.job_id").
		Where("jobs.worker_id = ? AND ratings.client_rating IS NOT NULL", workerID).
		Select("COALESCE(AVG(ratings.client_rating), 0) AS avg, COUNT(*) AS count").
		Scan(&row).Error
	return row.Avg, row.Count, err
}
