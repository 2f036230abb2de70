package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servifast_backend/internal/models"
	"servifast_backend/internal/services/dto"
	"servifast_backend/pkg/apperrors"
)

type jobServiceFixture struct {
	jobRepo    *fakeJobRepo
	appRepo    *fakeApplicationRepo
	workerRepo *fakeWorkerRepo
	service    JobService
}

func newJobServiceFixture() *jobServiceFixture {
	jobRepo := newFakeJobRepo()
	appRepo := newFakeApplicationRepo()
	jobRepo.appRepo = appRepo
	workerRepo := newFakeWorkerRepo()
	return &jobServiceFixture{
		jobRepo:    jobRepo,
		appRepo:    appRepo,
		workerRepo: workerRepo,
		service:    NewJobService(jobRepo, appRepo, workerRepo),
	}
}

func (f *jobServiceFixture) addWorker(userID string, plus bool) *models.Worker {
	worker := &models.Worker{UserID: userID, FullName: "Worker " + userID, IsAvailable: true}
	if plus {
		until := time.Now().Add(24 * time.Hour)
		worker.IsPlusActive = true
		worker.PlusExpiresAt = &until
	}
	_ = f.workerRepo.Create(worker)
	return worker
}

func (f *jobServiceFixture) addJob(clientID string, status models.JobStatus, workerID *string) *models.Job {
	job := &models.Job{
		ClientID:      clientID,
		WorkerID:      workerID,
		Title:         "Fix kitchen sink",
		ServiceType:   "Plomería",
		Status:        status,
		PaymentMethod: models.PaymentMethodYape,
		BaseFee:       50,
		Address:       "Av. Arequipa 1234, Lince",
	}
	job.RecalculateTotal()
	_ = f.jobRepo.Create(job)
	return job
}

func assertAppErrorCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestCreateJobComputesTotal(t *testing.T) {
	f := newJobServiceFixture()

	job, err := f.service.Create("client-1", &dto.CreateJobRequest{
		Title:         "Paint the living room",
		ServiceType:   "Pintura",
		PaymentMethod: "cash",
		BaseFee:       120,
		Address:       "Jr. Union 456",
	})

	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, job.Status)
	assert.Equal(t, 120.0, job.TotalAmount)
	assert.Nil(t, job.WorkerID)
}

func TestApplyPreconditions(t *testing.T) {
	t.Run("job not pending", func(t *testing.T) {
		f := newJobServiceFixture()
		f.addWorker("worker-user", true)
		job := f.addJob("client-1", models.JobStatusCompleted, nil)

		_, err := f.service.Apply(job.ID, "worker-user")
		assert.ErrorIs(t, err, apperrors.ErrJobNotAvailable)
	})

	t.Run("own job", func(t *testing.T) {
		f := newJobServiceFixture()
		f.addWorker("client-1", true)
		job := f.addJob("client-1", models.JobStatusPending, nil)

		_, err := f.service.Apply(job.ID, "client-1")
		assertAppErrorCode(t, err, apperrors.CodeInvalidOperation)
	})

	t.Run("no worker profile", func(t *testing.T) {
		f := newJobServiceFixture()
		job := f.addJob("client-1", models.JobStatusPending, nil)

		_, err := f.service.Apply(job.ID, "worker-user")
		assert.ErrorIs(t, err, apperrors.ErrNoWorkerProfile)
	})

	t.Run("unavailable worker", func(t *testing.T) {
		f := newJobServiceFixture()
		worker := f.addWorker("worker-user", true)
		worker.IsAvailable = false
		job := f.addJob("client-1", models.JobStatusPending, nil)

		_, err := f.service.Apply(job.ID, "worker-user")
		assert.ErrorIs(t, err, apperrors.ErrWorkerUnavailable)
	})

	t.Run("plus required", func(t *testing.T) {
		f := newJobServiceFixture()
		f.addWorker("worker-user", false)
		job := f.addJob("client-1", models.JobStatusPending, nil)

		_, err := f.service.Apply(job.ID, "worker-user")
		assert.ErrorIs(t, err, apperrors.ErrPlusRequired)
	})

	t.Run("expired plus counts as inactive", func(t *testing.T) {
		f := newJobServiceFixture()
		worker := f.addWorker("worker-user", false)
		past := time.Now().Add(-time.Hour)
		worker.IsPlusActive = true
		worker.PlusExpiresAt = &past
		job := f.addJob("client-1", models.JobStatusPending, nil)

		_, err := f.service.Apply(job.ID, "worker-user")
		assert.ErrorIs(t, err, apperrors.ErrPlusRequired)
	})

	t.Run("duplicate application", func(t *testing.T) {
		f := newJobServiceFixture()
		f.addWorker("worker-user", true)
		job := f.addJob("client-1", models.JobStatusPending, nil)

		_, err := f.service.Apply(job.ID, "worker-user")
		require.NoError(t, err)

		_, err = f.service.Apply(job.ID, "worker-user")
		assert.ErrorIs(t, err, apperrors.ErrAlreadyApplied)
	})

	t.Run("success attaches job and worker", func(t *testing.T) {
		f := newJobServiceFixture()
		worker := f.addWorker("worker-user", true)
		job := f.addJob("client-1", models.JobStatusPending, nil)

		app, err := f.service.Apply(job.ID, "worker-user")
		require.NoError(t, err)
		assert.Equal(t, worker.ID, app.WorkerID)
		require.NotNil(t, app.Job)
		assert.Equal(t, "client-1", app.Job.ClientID)
	})
}

func TestAcceptWorker(t *testing.T) {
	t.Run("assigns and marks accepted", func(t *testing.T) {
		f := newJobServiceFixture()
		worker := f.addWorker("worker-user", true)
		job := f.addJob("client-1", models.JobStatusPending, nil)
		app, err := f.service.Apply(job.ID, "worker-user")
		require.NoError(t, err)

		accepted, err := f.service.AcceptWorker(job.ID, "client-1", &dto.AcceptWorkerRequest{ApplicationID: app.ID})
		require.NoError(t, err)
		assert.Equal(t, models.JobStatusAccepted, accepted.Status)
		require.NotNil(t, accepted.WorkerID)
		assert.Equal(t, worker.ID, *accepted.WorkerID)

		stored, _ := f.appRepo.FindByID(app.ID)
		assert.True(t, stored.IsAccepted)
	})

	t.Run("only the owner can accept", func(t *testing.T) {
		f := newJobServiceFixture()
		f.addWorker("worker-user", true)
		job := f.addJob("client-1", models.JobStatusPending, nil)
		app, _ := f.service.Apply(job.ID, "worker-user")

		_, err := f.service.AcceptWorker(job.ID, "someone-else", &dto.AcceptWorkerRequest{ApplicationID: app.ID})
		assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	})

	t.Run("application must belong to the job", func(t *testing.T) {
		f := newJobServiceFixture()
		f.addWorker("worker-user", true)
		jobA := f.addJob("client-1", models.JobStatusPending, nil)
		jobB := f.addJob("client-1", models.JobStatusPending, nil)
		app, _ := f.service.Apply(jobA.ID, "worker-user")

		_, err := f.service.AcceptWorker(jobB.ID, "client-1", &dto.AcceptWorkerRequest{ApplicationID: app.ID})
		assertAppErrorCode(t, err, apperrors.CodeInvalidOperation)
	})

	t.Run("busy worker is rejected", func(t *testing.T) {
		f := newJobServiceFixture()
		worker := f.addWorker("worker-user", true)
		f.addJob("client-2", models.JobStatusInProgress, &worker.ID)
		job := f.addJob("client-1", models.JobStatusPending, nil)
		app, _ := f.service.Apply(job.ID, "worker-user")

		_, err := f.service.AcceptWorker(job.ID, "client-1", &dto.AcceptWorkerRequest{ApplicationID: app.ID})
		assert.ErrorIs(t, err, apperrors.ErrWorkerBusy)
	})

	t.Run("second accept loses the race", func(t *testing.T) {
		f := newJobServiceFixture()
		f.addWorker("worker-a", true)
		f.addWorker("worker-b", true)
		job := f.addJob("client-1", models.JobStatusPending, nil)
		appA, _ := f.service.Apply(job.ID, "worker-a")
		appB, _ := f.service.Apply(job.ID, "worker-b")

		_, err := f.service.AcceptWorker(job.ID, "client-1", &dto.AcceptWorkerRequest{ApplicationID: appA.ID})
		require.NoError(t, err)

		_, err = f.service.AcceptWorker(job.ID, "client-1", &dto.AcceptWorkerRequest{ApplicationID: appB.ID})
		assert.ErrorIs(t, err, apperrors.ErrJobAlreadyAssigned)
	})
}

func TestUpdateStatusLifecycle(t *testing.T) {
	f := newJobServiceFixture()
	worker := f.addWorker("worker-user", true)
	job := f.addJob("client-1", models.JobStatusAccepted, &worker.ID)

	for _, next := range []models.JobStatus{
		models.JobStatusInRoute,
		models.JobStatusOnSite,
		models.JobStatusInProgress,
	} {
		updated, err := f.service.UpdateStatus(job.ID, "worker-user", next)
		require.NoError(t, err, "transition to %s", next)
		assert.Equal(t, next, updated.Status)
	}

	stored, _ := f.jobRepo.FindByID(job.ID)
	require.NotNil(t, stored.StartedAt)
	assert.Nil(t, stored.CompletedAt)

	completed, err := f.service.UpdateStatus(job.ID, "worker-user", models.JobStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
}

func TestUpdateStatusRejectsSkips(t *testing.T) {
	f := newJobServiceFixture()
	worker := f.addWorker("worker-user", true)
	job := f.addJob("client-1", models.JobStatusAccepted, &worker.ID)

	_, err := f.service.UpdateStatus(job.ID, "worker-user", models.JobStatusCompleted)
	assertAppErrorCode(t, err, apperrors.CodeInvalidStatus)
}

func TestUpdateStatusOnlyAssignedWorkerAdvances(t *testing.T) {
	f := newJobServiceFixture()
	worker := f.addWorker("worker-user", true)
	f.addWorker("other-worker", true)
	job := f.addJob("client-1", models.JobStatusAccepted, &worker.ID)

	_, err := f.service.UpdateStatus(job.ID, "other-worker", models.JobStatusInRoute)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	_, err = f.service.UpdateStatus(job.ID, "client-1", models.JobStatusInRoute)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}

func TestCancelRules(t *testing.T) {
	t.Run("client cancels mid-route", func(t *testing.T) {
		f := newJobServiceFixture()
		worker := f.addWorker("worker-user", true)
		job := f.addJob("client-1", models.JobStatusInRoute, &worker.ID)

		cancelled, err := f.service.UpdateStatus(job.ID, "client-1", models.JobStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.JobStatusCancelled, cancelled.Status)
	})

	t.Run("worker cancels only before departing", func(t *testing.T) {
		f := newJobServiceFixture()
		worker := f.addWorker("worker-user", true)
		job := f.addJob("client-1", models.JobStatusAccepted, &worker.ID)

		_, err := f.service.UpdateStatus(job.ID, "worker-user", models.JobStatusCancelled)
		require.NoError(t, err)

		job = f.addJob("client-1", models.JobStatusInRoute, &worker.ID)
		_, err = f.service.UpdateStatus(job.ID, "worker-user", models.JobStatusCancelled)
		assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	})

	t.Run("terminal jobs cannot be cancelled", func(t *testing.T) {
		f := newJobServiceFixture()
		job := f.addJob("client-1", models.JobStatusCompleted, nil)

		_, err := f.service.UpdateStatus(job.ID, "client-1", models.JobStatusCancelled)
		assertAppErrorCode(t, err, apperrors.CodeInvalidStatus)
	})
}

func TestCompletionRunsCommissionHook(t *testing.T) {
	f := newJobServiceFixture()
	worker := f.addWorker("worker-user", true)
	job := f.addJob("client-1", models.JobStatusInProgress, &worker.ID)

	var hookJob *models.Job
	f.service.(*JobServiceImpl).SetCommissionHook(func(j *models.Job) error {
		hookJob = j
		return nil
	})

	_, err := f.service.UpdateStatus(job.ID, "worker-user", models.JobStatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, hookJob)
	assert.Equal(t, job.ID, hookJob.ID)
}

func TestAddExtra(t *testing.T) {
	t.Run("accumulates into the total", func(t *testing.T) {
		f := newJobServiceFixture()
		worker := f.addWorker("worker-user", true)
		job := f.addJob("client-1", models.JobStatusInProgress, &worker.ID)

		_, err := f.service.AddExtra(job.ID, "worker-user", &dto.AddExtraRequest{Amount: 25, Description: "Replacement valve"})
		require.NoError(t, err)
		updated, err := f.service.AddExtra(job.ID, "worker-user", &dto.AddExtraRequest{Amount: 10})
		require.NoError(t, err)

		assert.Equal(t, 35.0, updated.Extras)
		assert.Equal(t, 85.0, updated.TotalAmount)
	})

	t.Run("rejected outside active statuses", func(t *testing.T) {
		f := newJobServiceFixture()
		worker := f.addWorker("worker-user", true)
		job := f.addJob("client-1", models.JobStatusCompleted, &worker.ID)

		_, err := f.service.AddExtra(job.ID, "worker-user", &dto.AddExtraRequest{Amount: 25})
		assertAppErrorCode(t, err, apperrors.CodeInvalidStatus)
	})

	t.Run("only the assigned worker", func(t *testing.T) {
		f := newJobServiceFixture()
		worker := f.addWorker("worker-user", true)
		f.addWorker("other-worker", true)
		job := f.addJob("client-1", models.JobStatusInProgress, &worker.ID)

		_, err := f.service.AddExtra(job.ID, "other-worker", &dto.AddExtraRequest{Amount: 25})
		assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	})
}

func TestListAvailableRedactsPhone(t *testing.T) {
	f := newJobServiceFixture()
	f.addWorker("plus-worker", true)
	f.addWorker("free-worker", false)

	job := f.addJob("client-1", models.JobStatusPending, nil)
	job.Client = &models.User{FullName: "Maria", Phone: "+51 999 111 222"}

	plusList, err := f.service.ListAvailable("plus-worker", &dto.JobListQuery{}, 20, 0)
	require.NoError(t, err)
	require.Len(t, plusList.Jobs, 1)
	assert.Equal(t, "+51 999 111 222", plusList.Jobs[0].ClientPhone)
	assert.NotEmpty(t, plusList.Jobs[0].Address)

	freeList, err := f.service.ListAvailable("free-worker", &dto.JobListQuery{}, 20, 0)
	require.NoError(t, err)
	require.Len(t, freeList.Jobs, 1)
	assert.Empty(t, freeList.Jobs[0].ClientPhone)
	assert.Equal(t, "Maria", freeList.Jobs[0].ClientName)
	assert.NotEmpty(t, freeList.Jobs[0].Address)
}

func TestGetByIDCapabilitiesAndApplications(t *testing.T) {
	f := newJobServiceFixture()
	f.addWorker("worker-user", true)
	job := f.addJob("client-1", models.JobStatusPending, nil)
	_, err := f.service.Apply(job.ID, "worker-user")
	require.NoError(t, err)

	ownerView, err := f.service.GetByID(job.ID, "client-1", models.UserRoleClient)
	require.NoError(t, err)
	assert.Len(t, ownerView.Applications, 1)

	workerView, err := f.service.GetByID(job.ID, "worker-user", models.UserRoleWorker)
	require.NoError(t, err)
	assert.Empty(t, workerView.Applications)
}
