package services

import (
	"servifast_backend/internal/auth"
	"servifast_backend/internal/models"
	"servifast_backend/internal/repositories"
	"servifast_backend/internal/services/dto"
	"servifast_backend/pkg/apperrors"
)

type RatingService interface {
	RateJob(jobID, userID string, req *dto.RateJobRequest) (*dto.RatingResponse, error)
	GetByJob(jobID, userID string) (*dto.RatingResponse, error)
}

type RatingServiceImpl struct {
	ratingRepo repositories.RatingRepository
	jobRepo    repositories.JobRepository
	workerRepo repositories.WorkerRepository
}

func NewRatingService(
	ratingRepo repositories.RatingRepository,
	jobRepo repositories.JobRepository,
	workerRepo repositories.WorkerRepository,
) RatingService {
	return &RatingServiceImpl{
		ratingRepo: ratingRepo,
		jobRepo:    jobRepo,
		workerRepo: workerRepo,
	}
}

// RateJob upserts the caller's side of the job's rating row. The client's
// score of the worker lands in client_rating, the worker's score of the
// client in worker_rating; rating the same side again overwrites it.
func (s *RatingServiceImpl) RateJob(jobID, userID string, req *dto.RateJobRequest) (*dto.RatingResponse, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err, "rating", "Job not found")
		}
		return nil, apperrors.InternalError(err)
	}

	workerID := ""
	if worker, err := s.workerRepo.FindByUserID(userID); err == nil {
		workerID = worker.ID
	}
	if !auth.CanRateJob(job, userID, workerID) {
		if job.Status != models.JobStatusCompleted {
			return nil, apperrors.ErrInvalidStatus("rating", "Only a completed job can be rated")
		}
		return nil, apperrors.ErrInsufficientPermissions
	}

	rating, err := s.ratingRepo.FindByJob(jobID)
	if err != nil {
		if !apperrors.Is(err, repositories.ErrRatingNotFound) {
			return nil, apperrors.InternalError(err)
		}
		rating = &models.Rating{JobID: jobID}
	}

	score := req.Rating
	if job.ClientID == userID {
		rating.ClientRating = &score
		rating.ClientComment = req.Comment
	} else {
		rating.WorkerRating = &score
		rating.WorkerComment = req.Comment
	}

	if rating.ID == "" {
		err = s.ratingRepo.Create(rating)
	} else {
		err = s.ratingRepo.Update(rating)
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewRatingResponse(rating)
	return &resp, nil
}

func (s *RatingServiceImpl) GetByJob(jobID, userID string) (*dto.RatingResponse, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err, "rating", "Job not found")
		}
		return nil, apperrors.InternalError(err)
	}

	workerID := ""
	if worker, err := s.workerRepo.FindByUserID(userID); err == nil {
		workerID = worker.ID
	}
	if !auth.CanAccessChat(job, userID, workerID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	rating, err := s.ratingRepo.FindByJob(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRatingNotFound) {
			return nil, apperrors.ErrNotFound(err, "rating", "No rating for this job yet")
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewRatingResponse(rating)
	return &resp, nil
}
