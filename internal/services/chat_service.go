package services

import (
	"servifast_backend/internal/auth"
	"servifast_backend/internal/models"
	"servifast_backend/internal/repositories"
	"servifast_backend/internal/services/dto"
	"servifast_backend/pkg/apperrors"
)

// ChatAccess is the resolved standing of a user in one chat room.
type ChatAccess struct {
	Job           *models.Job
	ApplicationID *string // nil for the accepted-job room
	IsClient      bool
}

type ChatService interface {
	// ResolveChatAccess authorizes a user for one chat room and normalizes the
	// room key: once a job has an assigned worker, participants converge on
	// the accepted room regardless of the application ID they pass.
	ResolveChatAccess(jobID, userID string, applicationID *string) (*ChatAccess, error)
	CreateMessage(jobID, senderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	ListMessages(jobID, userID string, query *dto.ChatHistoryQuery) (*dto.ChatHistoryResponse, error)
}

type ChatServiceImpl struct {
	jobRepo     repositories.JobRepository
	appRepo     repositories.ApplicationRepository
	messageRepo repositories.MessageRepository
	workerRepo  repositories.WorkerRepository
}

func NewChatService(
	jobRepo repositories.JobRepository,
	appRepo repositories.ApplicationRepository,
	messageRepo repositories.MessageRepository,
	workerRepo repositories.WorkerRepository,
) ChatService {
	return &ChatServiceImpl{
		jobRepo:     jobRepo,
		appRepo:     appRepo,
		messageRepo: messageRepo,
		workerRepo:  workerRepo,
	}
}

func (s *ChatServiceImpl) ResolveChatAccess(jobID, userID string, applicationID *string) (*ChatAccess, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err, "chat", "Job not found")
		}
		return nil, apperrors.InternalError(err)
	}

	isClient := job.ClientID == userID
	workerID := ""
	if worker, err := s.workerRepo.FindByUserID(userID); err == nil {
		workerID = worker.ID
	}

	// Assigned job: one shared room for client and accepted worker.
	if job.WorkerID != nil {
		if !auth.CanAccessChat(job, userID, workerID) {
			return nil, apperrors.ErrChatAccessDenied
		}
		return &ChatAccess{Job: job, ApplicationID: nil, IsClient: isClient}, nil
	}

	// Pending job: rooms are per application.
	if applicationID == nil {
		return nil, apperrors.ErrInvalidOperation("chat", "An application_id is required while the job is unassigned")
	}

	app, err := s.appRepo.FindByID(*applicationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNotFound(err, "chat", "Application not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if app.JobID != jobID {
		return nil, apperrors.ErrInvalidOperation("chat", "Application does not belong to this job")
	}

	if !isClient && (workerID == "" || app.WorkerID != workerID) {
		return nil, apperrors.ErrChatAccessDenied
	}

	return &ChatAccess{Job: job, ApplicationID: applicationID, IsClient: isClient}, nil
}

func (s *ChatServiceImpl) CreateMessage(jobID, senderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	access, err := s.ResolveChatAccess(jobID, senderID, req.ApplicationID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		JobID:         jobID,
		ApplicationID: access.ApplicationID,
		SenderID:      senderID,
		Content:       req.Content,
		HasImage:      req.HasImage || req.ImageURL != "",
		ImageURL:      req.ImageURL,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewMessageResponse(message)
	return &resp, nil
}

func (s *ChatServiceImpl) ListMessages(jobID, userID string, query *dto.ChatHistoryQuery) (*dto.ChatHistoryResponse, error) {
	access, err := s.ResolveChatAccess(jobID, userID, query.ApplicationID)
	if err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit == 0 {
		limit = 100
	}

	messages, err := s.messageRepo.FindByChat(jobID, access.ApplicationID, limit, query.Offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	total, err := s.messageRepo.CountByChat(jobID, access.ApplicationID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.ChatHistoryResponse{Total: total, Messages: make([]dto.MessageResponse, 0, len(messages))}
	for i := range messages {
		resp.Messages = append(resp.Messages, dto.NewMessageResponse(&messages[i]))
	}
	return resp, nil
}
