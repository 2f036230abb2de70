package services

import (
	"time"

	"servifast_backend/internal/models"
	"servifast_backend/internal/repositories"
	"servifast_backend/internal/services/dto"
	"servifast_backend/pkg/apperrors"
)

type CommissionService interface {
	ListPending(userID string) (*dto.CommissionListResponse, error)
	History(userID string, limit, offset int) (*dto.CommissionListResponse, error)
	SubmitPayment(commissionID, userID string, req *dto.SubmitCommissionPaymentRequest) (*dto.CommissionResponse, error)
	ListForReview(limit, offset int) (*dto.CommissionListResponse, error)
	Review(commissionID, managerID string, req *dto.ReviewCommissionRequest) (*dto.CommissionResponse, error)
}

type CommissionServiceImpl struct {
	commissionRepo repositories.CommissionRepository
	workerRepo     repositories.WorkerRepository
}

func NewCommissionService(
	commissionRepo repositories.CommissionRepository,
	workerRepo repositories.WorkerRepository,
) CommissionService {
	return &CommissionServiceImpl{
		commissionRepo: commissionRepo,
		workerRepo:     workerRepo,
	}
}

func (s *CommissionServiceImpl) ListPending(userID string) (*dto.CommissionListResponse, error) {
	worker, err := s.findWorker(userID)
	if err != nil {
		return nil, err
	}

	commissions, err := s.commissionRepo.FindPendingByWorker(worker.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	pendingSum, err := s.commissionRepo.SumPendingByWorker(worker.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := s.buildList(commissions, int64(len(commissions)))
	resp.PendingSum = pendingSum
	return resp, nil
}

func (s *CommissionServiceImpl) History(userID string, limit, offset int) (*dto.CommissionListResponse, error) {
	worker, err := s.findWorker(userID)
	if err != nil {
		return nil, err
	}

	commissions, total, err := s.commissionRepo.FindByWorker(worker.ID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.buildList(commissions, total), nil
}

func (s *CommissionServiceImpl) findWorker(userID string) (*models.Worker, error) {
	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrWorkerNotFound) {
			return nil, apperrors.ErrNoWorkerProfile
		}
		return nil, apperrors.InternalError(err)
	}
	return worker, nil
}

func (s *CommissionServiceImpl) SubmitPayment(commissionID, userID string, req *dto.SubmitCommissionPaymentRequest) (*dto.CommissionResponse, error) {
	worker, err := s.findWorker(userID)
	if err != nil {
		return nil, err
	}

	commission, err := s.commissionRepo.FindByID(commissionID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCommissionNotFound) {
			return nil, apperrors.ErrNotFound(err, "commission", "Commission not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if commission.WorkerID != worker.ID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if commission.Status != models.CommissionStatusPending {
		return nil, apperrors.ErrCommissionProcessed
	}

	now := time.Now()
	commission.Status = models.CommissionStatusPaymentSubmitted
	commission.PaymentCode = req.PaymentCode
	commission.PaymentProofURL = req.PaymentProofURL
	commission.SubmittedAt = &now

	if err := s.commissionRepo.Update(commission); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewCommissionResponse(commission)
	return &resp, nil
}

func (s *CommissionServiceImpl) ListForReview(limit, offset int) (*dto.CommissionListResponse, error) {
	commissions, total, err := s.commissionRepo.FindByStatus(models.CommissionStatusPaymentSubmitted, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.buildList(commissions, total), nil
}

func (s *CommissionServiceImpl) Review(commissionID, managerID string, req *dto.ReviewCommissionRequest) (*dto.CommissionResponse, error) {
	commission, err := s.commissionRepo.FindByID(commissionID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCommissionNotFound) {
			return nil, apperrors.ErrNotFound(err, "commission", "Commission not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if commission.Status != models.CommissionStatusPaymentSubmitted {
		return nil, apperrors.ErrCommissionNotInReview
	}
	if !req.Approve && req.Notes == "" {
		return nil, apperrors.ErrReviewNotesRequired
	}

	now := time.Now()
	if req.Approve {
		commission.Status = models.CommissionStatusApproved
	} else {
		// A rejection returns the commission to PENDING with the payment
		// fields cleared, so the worker can correct and resubmit.
		commission.Status = models.CommissionStatusPending
		commission.PaymentCode = ""
		commission.PaymentProofURL = ""
		commission.SubmittedAt = nil
	}
	commission.ReviewedBy = &managerID
	commission.ReviewedAt = &now
	commission.Notes = req.Notes

	if err := s.commissionRepo.Update(commission); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewCommissionResponse(commission)
	return &resp, nil
}

func (s *CommissionServiceImpl) buildList(commissions []models.Commission, total int64) *dto.CommissionListResponse {
	resp := &dto.CommissionListResponse{Total: total, Commissions: make([]dto.CommissionResponse, 0, len(commissions))}
	for i := range commissions {
		resp.Commissions = append(resp.Commissions, dto.NewCommissionResponse(&commissions[i]))
	}
	return resp
}
