package services

import (
	"time"

	"servifast_backend/internal/models"
	"servifast_backend/internal/repositories"
	"servifast_backend/internal/services/dto"
	"servifast_backend/pkg/apperrors"
)

// Plus plan terms. Prices are in PEN.
const (
	planDailyDays   = 1
	planDailyPrice  = 2.00
	planWeeklyDays  = 7
	planWeeklyPrice = 12.00
)

type SubscriptionService interface {
	Subscribe(userID string, req *dto.SubscribeRequest) (*dto.SubscriptionResponse, error)
	Status(userID string) (*dto.PlusStatusResponse, error)
	History(userID string, limit, offset int) (*dto.SubscriptionHistoryResponse, error)
	Cancel(userID string) error
}

type SubscriptionServiceImpl struct {
	subRepo    repositories.SubscriptionRepository
	workerRepo repositories.WorkerRepository
}

func NewSubscriptionService(
	subRepo repositories.SubscriptionRepository,
	workerRepo repositories.WorkerRepository,
) SubscriptionService {
	return &SubscriptionServiceImpl{
		subRepo:    subRepo,
		workerRepo: workerRepo,
	}
}

// Subscribe buys a Plus period. When a period is already running the new one
// starts at its expiry, so paid days are never lost.
func (s *SubscriptionServiceImpl) Subscribe(userID string, req *dto.SubscribeRequest) (*dto.SubscriptionResponse, error) {
	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrWorkerNotFound) {
			return nil, apperrors.ErrNoWorkerProfile
		}
		return nil, apperrors.InternalError(err)
	}

	days, amount, err := planTerms(models.SubscriptionPlan(req.Plan))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	validFrom := now
	if current, err := s.subRepo.FindLatestActive(worker.ID, now); err == nil {
		validFrom = current.ValidUntil
	} else if !apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, apperrors.InternalError(err)
	}
	validUntil := validFrom.Add(time.Duration(days) * 24 * time.Hour)

	sub := &models.WorkerSubscription{
		WorkerID:      worker.ID,
		Plan:          models.SubscriptionPlan(req.Plan),
		Days:          days,
		Amount:        amount,
		Status:        models.SubscriptionStatusActive,
		PaymentMethod: models.PaymentMethodYape,
		PaymentCode:   req.PaymentCode,
		ValidFrom:     validFrom,
		ValidUntil:    validUntil,
	}
	if err := s.subRepo.Create(sub); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.workerRepo.UpdatePlusStatus(worker.ID, true, &validUntil); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.SubscriptionResponse{
		Subscription: dto.NewSubscriptionItem(sub),
		PlusStatus: dto.PlusStatusResponse{
			IsActive:   true,
			Plan:       req.Plan,
			ValidUntil: &validUntil,
		},
	}, nil
}

// Status reads the worker's Plus standing and lazily downgrades a stale flag,
// so an expired subscription is reflected even before the sweeper runs.
func (s *SubscriptionServiceImpl) Status(userID string) (*dto.PlusStatusResponse, error) {
	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrWorkerNotFound) {
			return nil, apperrors.ErrNoWorkerProfile
		}
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	if worker.HasActivePlus(now) {
		resp := &dto.PlusStatusResponse{
			IsActive:   true,
			ValidUntil: worker.PlusExpiresAt,
		}
		if current, err := s.subRepo.FindLatestActive(worker.ID, now); err == nil {
			resp.Plan = string(current.Plan)
		}
		return resp, nil
	}

	if worker.IsPlusActive {
		// Stale flag: the period lapsed but nothing cleared it yet.
		if err := s.workerRepo.UpdatePlusStatus(worker.ID, false, worker.PlusExpiresAt); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	return &dto.PlusStatusResponse{IsActive: false}, nil
}

func (s *SubscriptionServiceImpl) History(userID string, limit, offset int) (*dto.SubscriptionHistoryResponse, error) {
	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrWorkerNotFound) {
			return nil, apperrors.ErrNoWorkerProfile
		}
		return nil, apperrors.InternalError(err)
	}

	subs, total, err := s.subRepo.FindByWorker(worker.ID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.SubscriptionHistoryResponse{Total: total, Subscriptions: make([]dto.SubscriptionItem, 0, len(subs))}
	for i := range subs {
		resp.Subscriptions = append(resp.Subscriptions, dto.NewSubscriptionItem(&subs[i]))
	}
	return resp, nil
}

// Cancel drops every active period. The remaining paid time is forfeited
// and the worker loses visibility priority immediately.
func (s *SubscriptionServiceImpl) Cancel(userID string) error {
	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrWorkerNotFound) {
			return apperrors.ErrNoWorkerProfile
		}
		return apperrors.InternalError(err)
	}

	cancelled, err := s.subRepo.CancelActive(worker.ID, time.Now())
	if err != nil {
		return apperrors.InternalError(err)
	}
	if cancelled == 0 {
		return apperrors.ErrInvalidStatus("subscription", "No active subscription to cancel")
	}

	if err := s.workerRepo.UpdatePlusStatus(worker.ID, false, nil); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func planTerms(plan models.SubscriptionPlan) (int, float64, error) {
	switch plan {
	case models.SubscriptionPlanDaily:
		return planDailyDays, planDailyPrice, nil
	case models.SubscriptionPlanWeekly:
		return planWeeklyDays, planWeeklyPrice, nil
	default:
		return 0, 0, apperrors.ErrInvalidPlan
	}
}
