package services

import (
	"fmt"
	"time"

	"servifast_backend/internal/auth"
	"servifast_backend/internal/models"
	"servifast_backend/internal/repositories"
	"servifast_backend/internal/services/dto"
	"servifast_backend/pkg/apperrors"
)

type JobService interface {
	Create(clientID string, req *dto.CreateJobRequest) (*models.Job, error)
	GetByID(jobID, userID string, role models.UserRole) (*dto.JobDetailResponse, error)
	ListAvailable(userID string, query *dto.JobListQuery, limit, offset int) (*dto.JobListResponse, error)
	ListOwnApplications(userID string) ([]dto.ApplicationSummary, error)
	ListByClient(clientID string, query *dto.JobListQuery, limit, offset int) ([]models.Job, int64, error)
	ListByWorker(userID string, query *dto.JobListQuery, limit, offset int) ([]models.Job, int64, error)
	Apply(jobID, userID string) (*models.JobApplication, error)
	ListApplications(jobID, userID string) ([]dto.ApplicationSummary, error)
	AcceptWorker(jobID, clientID string, req *dto.AcceptWorkerRequest) (*models.Job, error)
	UpdateStatus(jobID, userID string, next models.JobStatus) (*models.Job, error)
	AddExtra(jobID, userID string, req *dto.AddExtraRequest) (*models.Job, error)
}

type JobServiceImpl struct {
	jobRepo    repositories.JobRepository
	appRepo    repositories.ApplicationRepository
	workerRepo repositories.WorkerRepository

	// commissionHook runs after a job completes. The current business model
	// charges no per-job commission, so the default hook does nothing; the
	// commission review flow exists for records created by other means.
	commissionHook func(job *models.Job) error
}

func NewJobService(
	jobRepo repositories.JobRepository,
	appRepo repositories.ApplicationRepository,
	workerRepo repositories.WorkerRepository,
) JobService {
	return &JobServiceImpl{
		jobRepo:        jobRepo,
		appRepo:        appRepo,
		workerRepo:     workerRepo,
		commissionHook: func(job *models.Job) error { return nil },
	}
}

// SetCommissionHook replaces the completion hook. Used if per-job commissions
// are ever switched back on.
func (s *JobServiceImpl) SetCommissionHook(hook func(job *models.Job) error) {
	s.commissionHook = hook
}

func (s *JobServiceImpl) Create(clientID string, req *dto.CreateJobRequest) (*models.Job, error) {
	job := &models.Job{
		ClientID:      clientID,
		Title:         req.Title,
		Description:   req.Description,
		ServiceType:   req.ServiceType,
		Status:        models.JobStatusPending,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		BaseFee:       req.BaseFee,
		Address:       req.Address,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		ScheduledAt:   req.ScheduledAt,
	}
	job.RecalculateTotal()

	if err := s.jobRepo.Create(job); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return job, nil
}

func (s *JobServiceImpl) GetByID(jobID, userID string, role models.UserRole) (*dto.JobDetailResponse, error) {
	job, err := s.jobRepo.FindByIDWithRelations(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err, "job", "Job not found")
		}
		return nil, apperrors.InternalError(err)
	}

	workerID := s.callerWorkerID(userID)
	caps := auth.CapabilitiesFor(job, userID, workerID, role)

	resp := &dto.JobDetailResponse{
		Job:          job,
		Capabilities: caps,
	}

	// The application list belongs to the job owner and managers only.
	if job.ClientID == userID || role == models.UserRoleManager {
		for i := range job.Applications {
			resp.Applications = append(resp.Applications, dto.NewApplicationSummary(&job.Applications[i]))
		}
	}

	return resp, nil
}

// ListAvailable returns pending unassigned jobs. The client's phone is
// visible only to workers with an active Plus subscription.
func (s *JobServiceImpl) ListAvailable(userID string, query *dto.JobListQuery, limit, offset int) (*dto.JobListResponse, error) {
	isPlus := false
	if worker, err := s.workerRepo.FindByUserID(userID); err == nil {
		isPlus = worker.HasActivePlus(time.Now())
	}

	filter := repositories.JobFilter{
		ServiceType: query.ServiceType,
		Search:      query.Search,
		Limit:       limit,
		Offset:      offset,
	}

	jobs, total, err := s.jobRepo.FindAvailable(filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.JobListResponse{Total: total, Jobs: make([]dto.JobSummary, 0, len(jobs))}
	for i := range jobs {
		resp.Jobs = append(resp.Jobs, dto.NewJobSummary(&jobs[i], isPlus))
	}
	return resp, nil
}

func (s *JobServiceImpl) ListOwnApplications(userID string) ([]dto.ApplicationSummary, error) {
	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrWorkerNotFound) {
			return nil, apperrors.ErrNoWorkerProfile
		}
		return nil, apperrors.InternalError(err)
	}

	apps, err := s.appRepo.FindByWorker(worker.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	summaries := make([]dto.ApplicationSummary, 0, len(apps))
	for i := range apps {
		summaries = append(summaries, dto.NewApplicationSummary(&apps[i]))
	}
	return summaries, nil
}

func (s *JobServiceImpl) ListByClient(clientID string, query *dto.JobListQuery, limit, offset int) ([]models.Job, int64, error) {
	filter := repositories.JobFilter{
		Status: models.JobStatus(query.Status),
		Limit:  limit,
		Offset: offset,
	}
	jobs, total, err := s.jobRepo.FindByClient(clientID, filter)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return jobs, total, nil
}

func (s *JobServiceImpl) ListByWorker(userID string, query *dto.JobListQuery, limit, offset int) ([]models.Job, int64, error) {
	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrWorkerNotFound) {
			return nil, 0, apperrors.ErrNoWorkerProfile
		}
		return nil, 0, apperrors.InternalError(err)
	}

	filter := repositories.JobFilter{
		Status: models.JobStatus(query.Status),
		Limit:  limit,
		Offset: offset,
	}
	jobs, total, err := s.jobRepo.FindByWorker(worker.ID, filter)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return jobs, total, nil
}

// Apply checks the preconditions in a fixed order so a worker always sees the
// most actionable failure first: job standing, then their own standing, then
// the duplicate check (left to the unique index so racing requests cannot both
// win).
func (s *JobServiceImpl) Apply(jobID, userID string) (*models.JobApplication, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err, "job", "Job not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if job.Status != models.JobStatusPending {
		return nil, apperrors.ErrJobNotAvailable
	}
	if job.WorkerID != nil {
		return nil, apperrors.ErrJobAlreadyAssigned
	}
	if job.ClientID == userID {
		return nil, apperrors.ErrInvalidOperation("job", "You cannot apply to your own job")
	}

	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrWorkerNotFound) {
			return nil, apperrors.ErrNoWorkerProfile
		}
		return nil, apperrors.InternalError(err)
	}

	if !worker.IsAvailable {
		return nil, apperrors.ErrWorkerUnavailable
	}
	if !worker.HasActivePlus(time.Now()) {
		return nil, apperrors.ErrPlusRequired
	}

	app := &models.JobApplication{
		JobID:    jobID,
		WorkerID: worker.ID,
	}
	if err := s.appRepo.Create(app); err != nil {
		if apperrors.Is(err, repositories.ErrDuplicateApplication) {
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, apperrors.InternalError(err)
	}

	// Attach the already-loaded relations so callers can notify without
	// another round trip.
	app.Job = job
	app.Worker = worker
	return app, nil
}

func (s *JobServiceImpl) ListApplications(jobID, userID string) ([]dto.ApplicationSummary, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err, "job", "Job not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if job.ClientID != userID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	apps, err := s.appRepo.FindByJob(jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	summaries := make([]dto.ApplicationSummary, 0, len(apps))
	for i := range apps {
		summaries = append(summaries, dto.NewApplicationSummary(&apps[i]))
	}
	return summaries, nil
}

func (s *JobServiceImpl) AcceptWorker(jobID, clientID string, req *dto.AcceptWorkerRequest) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err, "job", "Job not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CanAcceptWorker(job, clientID) {
		if job.ClientID != clientID {
			return nil, apperrors.ErrInsufficientPermissions
		}
		if job.WorkerID != nil {
			return nil, apperrors.ErrJobAlreadyAssigned
		}
		return nil, apperrors.ErrJobNotAvailable
	}

	app, err := s.appRepo.FindByID(req.ApplicationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNotFound(err, "job", "Application not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if app.JobID != jobID {
		return nil, apperrors.ErrInvalidOperation("job", "Application does not belong to this job")
	}

	// One active job per worker.
	if _, err := s.jobRepo.FindActiveByWorker(app.WorkerID); err == nil {
		return nil, apperrors.ErrWorkerBusy
	} else if !apperrors.Is(err, repositories.ErrJobNotFound) {
		return nil, apperrors.InternalError(err)
	}

	// The conditional update loses gracefully if another accept won the race.
	if err := s.jobRepo.AssignWorker(jobID, app.WorkerID); err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobAlreadyAssigned
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.appRepo.MarkAccepted(app.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	job, err = s.reload(jobID)
	if err != nil {
		return nil, err
	}
	if worker, werr := s.workerRepo.FindByID(app.WorkerID); werr == nil {
		job.Worker = worker
	}
	return job, nil
}

func (s *JobServiceImpl) UpdateStatus(jobID, userID string, next models.JobStatus) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err, "job", "Job not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if !job.Status.CanTransition(next) {
		return nil, apperrors.ErrInvalidStatus("job",
			fmt.Sprintf("Cannot change job status from %s to %s", job.Status, next))
	}

	workerID := s.callerWorkerID(userID)
	if next == models.JobStatusCancelled {
		if !auth.CanCancelJob(job, userID, workerID) {
			return nil, apperrors.ErrInsufficientPermissions
		}
	} else if !auth.CanAdvanceJob(job, workerID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	fields := map[string]interface{}{}
	now := time.Now()
	switch next {
	case models.JobStatusInProgress:
		fields["started_at"] = now
	case models.JobStatusCompleted:
		fields["completed_at"] = now
	}

	if err := s.jobRepo.UpdateStatus(jobID, next, fields); err != nil {
		return nil, apperrors.InternalError(err)
	}

	job, err = s.reload(jobID)
	if err != nil {
		return nil, err
	}
	if job.WorkerID != nil {
		if worker, werr := s.workerRepo.FindByID(*job.WorkerID); werr == nil {
			job.Worker = worker
		}
	}

	if next == models.JobStatusCompleted {
		if err := s.commissionHook(job); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	return job, nil
}

func (s *JobServiceImpl) AddExtra(jobID, userID string, req *dto.AddExtraRequest) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err, "job", "Job not found")
		}
		return nil, apperrors.InternalError(err)
	}

	workerID := s.callerWorkerID(userID)
	if !auth.CanAddExtra(job, workerID) {
		if !job.Status.AllowsExtras() {
			return nil, apperrors.ErrInvalidStatus("job", "Extras can only be added to an active job")
		}
		return nil, apperrors.ErrInsufficientPermissions
	}

	job.Extras += req.Amount
	job.RecalculateTotal()

	if err := s.jobRepo.UpdateStatus(jobID, job.Status, map[string]interface{}{
		"extras":       job.Extras,
		"total_amount": job.TotalAmount,
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return job, nil
}

// callerWorkerID resolves the caller's worker profile ID, empty when they have
// none.
func (s *JobServiceImpl) callerWorkerID(userID string) string {
	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		return ""
	}
	return worker.ID
}

func (s *JobServiceImpl) reload(jobID string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return job, nil
}
