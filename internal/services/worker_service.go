package services

import (
	"encoding/json"
	"time"

	"servifast_backend/internal/models"
	"servifast_backend/internal/repositories"
	"servifast_backend/internal/services/dto"
	"servifast_backend/pkg/apperrors"
)

type WorkerService interface {
	CreateProfile(userID string, req *dto.CreateWorkerRequest) (*dto.WorkerResponse, error)
	GetOwnProfile(userID string) (*dto.WorkerResponse, error)
	GetByID(workerID string) (*dto.WorkerResponse, error)
	UpdateProfile(userID string, req *dto.UpdateWorkerRequest) (*dto.WorkerResponse, error)
	ListAvailable(query *dto.WorkerListQuery, limit, offset int) (*dto.WorkerListResponse, error)
	SubmitVerification(userID string, req *dto.SubmitVerificationRequest) (*dto.WorkerResponse, error)
	ListPendingVerification() (*dto.WorkerListResponse, error)
	Verify(workerID string) error
}

type WorkerServiceImpl struct {
	workerRepo repositories.WorkerRepository
	userRepo   repositories.UserRepository
	ratingRepo repositories.RatingRepository
}

func NewWorkerService(
	workerRepo repositories.WorkerRepository,
	userRepo repositories.UserRepository,
	ratingRepo repositories.RatingRepository,
) WorkerService {
	return &WorkerServiceImpl{
		workerRepo: workerRepo,
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
	}
}

func (s *WorkerServiceImpl) CreateProfile(userID string, req *dto.CreateWorkerRequest) (*dto.WorkerResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if user.Role != models.UserRoleWorker {
		return nil, apperrors.ErrInvalidUserRole
	}

	services, err := json.Marshal(req.Services)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	worker := &models.Worker{
		UserID:      userID,
		FullName:    req.FullName,
		Phone:       req.Phone,
		Services:    services,
		Description: req.Description,
		District:    req.District,
		YapeNumber:  req.YapeNumber,
		IsAvailable: true,
	}

	if err := s.workerRepo.Create(worker); err != nil {
		if apperrors.Is(err, repositories.ErrWorkerAlreadyExists) {
			return nil, apperrors.ErrWorkerProfileExists
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewWorkerResponse(worker, time.Now())
	return &resp, nil
}

func (s *WorkerServiceImpl) GetOwnProfile(userID string) (*dto.WorkerResponse, error) {
	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrWorkerNotFound) {
			return nil, apperrors.ErrNoWorkerProfile
		}
		return nil, apperrors.InternalError(err)
	}
	return s.withRating(worker)
}

func (s *WorkerServiceImpl) GetByID(workerID string) (*dto.WorkerResponse, error) {
	worker, err := s.workerRepo.FindByID(workerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrWorkerNotFound) {
			return nil, apperrors.ErrNotFound(err, "worker", "Worker not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return s.withRating(worker)
}

func (s *WorkerServiceImpl) UpdateProfile(userID string, req *dto.UpdateWorkerRequest) (*dto.WorkerResponse, error) {
	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrWorkerNotFound) {
			return nil, apperrors.ErrNoWorkerProfile
		}
		return nil, apperrors.InternalError(err)
	}

	if req.FullName != "" {
		worker.FullName = req.FullName
	}
	if req.Phone != "" {
		worker.Phone = req.Phone
	}
	if len(req.Services) > 0 {
		services, err := json.Marshal(req.Services)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		worker.Services = services
	}
	if req.Description != "" {
		worker.Description = req.Description
	}
	if req.District != "" {
		worker.District = req.District
	}
	if req.YapeNumber != "" {
		worker.YapeNumber = req.YapeNumber
	}
	if req.ProfileImageURL != "" {
		worker.ProfileImageURL = req.ProfileImageURL
	}
	if req.IsAvailable != nil {
		worker.IsAvailable = *req.IsAvailable
	}

	if err := s.workerRepo.Update(worker); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.withRating(worker)
}

func (s *WorkerServiceImpl) ListAvailable(query *dto.WorkerListQuery, limit, offset int) (*dto.WorkerListResponse, error) {
	filter := repositories.WorkerFilter{
		District:    query.District,
		ServiceType: query.ServiceType,
		OnlyPlus:    query.OnlyPlus,
		Limit:       limit,
		Offset:      offset,
	}

	workers, total, err := s.workerRepo.FindAvailable(filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	resp := &dto.WorkerListResponse{Total: total, Workers: make([]dto.WorkerResponse, 0, len(workers))}
	for i := range workers {
		resp.Workers = append(resp.Workers, dto.NewWorkerResponse(&workers[i], now))
	}
	return resp, nil
}

// SubmitVerification stores the worker's identity photo for manager review.
// It never touches is_verified; only Verify flips that.
func (s *WorkerServiceImpl) SubmitVerification(userID string, req *dto.SubmitVerificationRequest) (*dto.WorkerResponse, error) {
	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrWorkerNotFound) {
			return nil, apperrors.ErrNoWorkerProfile
		}
		return nil, apperrors.InternalError(err)
	}

	worker.VerificationPhotoURL = req.PhotoURL
	if err := s.workerRepo.Update(worker); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.withRating(worker)
}

func (s *WorkerServiceImpl) ListPendingVerification() (*dto.WorkerListResponse, error) {
	workers, err := s.workerRepo.FindPendingVerification()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	resp := &dto.WorkerListResponse{Total: int64(len(workers)), Workers: make([]dto.WorkerResponse, 0, len(workers))}
	for i := range workers {
		resp.Workers = append(resp.Workers, dto.NewWorkerResponse(&workers[i], now))
	}
	return resp, nil
}

func (s *WorkerServiceImpl) Verify(workerID string) error {
	worker, err := s.workerRepo.FindByID(workerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrWorkerNotFound) {
			return apperrors.ErrNotFound(err, "worker", "Worker not found")
		}
		return apperrors.InternalError(err)
	}

	worker.IsVerified = true
	if err := s.workerRepo.Update(worker); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *WorkerServiceImpl) withRating(worker *models.Worker) (*dto.WorkerResponse, error) {
	resp := dto.NewWorkerResponse(worker, time.Now())

	avg, count, err := s.ratingRepo.WorkerAverage(worker.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp.AverageRating = avg
	resp.RatingCount = count

	return &resp, nil
}
