package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servifast_backend/internal/models"
	"servifast_backend/internal/services/dto"
	"servifast_backend/pkg/apperrors"
)

type ratingFixture struct {
	ratingRepo *fakeRatingRepo
	jobRepo    *fakeJobRepo
	workerRepo *fakeWorkerRepo
	service    RatingService
}

func newRatingFixture() *ratingFixture {
	ratingRepo := newFakeRatingRepo()
	jobRepo := newFakeJobRepo()
	workerRepo := newFakeWorkerRepo()
	return &ratingFixture{
		ratingRepo: ratingRepo,
		jobRepo:    jobRepo,
		workerRepo: workerRepo,
		service:    NewRatingService(ratingRepo, jobRepo, workerRepo),
	}
}

func (f *ratingFixture) completedJob() *models.Job {
	worker := &models.Worker{UserID: "worker-user", FullName: "Pedro"}
	_ = f.workerRepo.Create(worker)
	job := &models.Job{
		ClientID:      "client-1",
		WorkerID:      &worker.ID,
		Title:         "Install ceiling lamp",
		ServiceType:   "Electricidad",
		Status:        models.JobStatusCompleted,
		PaymentMethod: models.PaymentMethodCash,
		BaseFee:       60,
		Address:       "Av. Brasil 300",
	}
	_ = f.jobRepo.Create(job)
	return job
}

func TestRateJobBothDirectionsShareOneRow(t *testing.T) {
	f := newRatingFixture()
	job := f.completedJob()

	// The client's score of the worker lands in client_rating.
	clientSide, err := f.service.RateJob(job.ID, "client-1", &dto.RateJobRequest{Rating: 5, Comment: "Great work"})
	require.NoError(t, err)
	require.NotNil(t, clientSide.ClientRating)
	assert.Equal(t, 5, *clientSide.ClientRating)
	assert.Nil(t, clientSide.WorkerRating)

	// The worker's score of the client lands in worker_rating.
	workerSide, err := f.service.RateJob(job.ID, "worker-user", &dto.RateJobRequest{Rating: 4})
	require.NoError(t, err)
	require.NotNil(t, workerSide.WorkerRating)
	assert.Equal(t, 4, *workerSide.WorkerRating)

	// Same row carries both directions.
	require.NotNil(t, workerSide.ClientRating)
	assert.Equal(t, 5, *workerSide.ClientRating)
	assert.Len(t, f.ratingRepo.ratings, 1)
}

func TestRateJobSameSideOverwrites(t *testing.T) {
	f := newRatingFixture()
	job := f.completedJob()

	_, err := f.service.RateJob(job.ID, "client-1", &dto.RateJobRequest{Rating: 5})
	require.NoError(t, err)

	updated, err := f.service.RateJob(job.ID, "client-1", &dto.RateJobRequest{Rating: 2, Comment: "Lamp fell off a week later"})
	require.NoError(t, err)
	require.NotNil(t, updated.ClientRating)
	assert.Equal(t, 2, *updated.ClientRating)
	assert.Equal(t, "Lamp fell off a week later", updated.ClientComment)
	assert.Len(t, f.ratingRepo.ratings, 1)
}

func TestRateJobRequiresCompletion(t *testing.T) {
	f := newRatingFixture()
	job := f.completedJob()
	job.Status = models.JobStatusInProgress

	_, err := f.service.RateJob(job.ID, "client-1", &dto.RateJobRequest{Rating: 5})
	assertAppErrorCode(t, err, apperrors.CodeInvalidStatus)
}

func TestRateJobOutsiderDenied(t *testing.T) {
	f := newRatingFixture()
	job := f.completedJob()

	_, err := f.service.RateJob(job.ID, "stranger", &dto.RateJobRequest{Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}

func TestGetRatingVisibility(t *testing.T) {
	f := newRatingFixture()
	job := f.completedJob()

	_, err := f.service.GetByJob(job.ID, "client-1")
	assertAppErrorCode(t, err, apperrors.CodeNotFound)

	_, err = f.service.RateJob(job.ID, "client-1", &dto.RateJobRequest{Rating: 5})
	require.NoError(t, err)

	rating, err := f.service.GetByJob(job.ID, "worker-user")
	require.NoError(t, err)
	require.NotNil(t, rating.ClientRating)

	_, err = f.service.GetByJob(job.ID, "stranger")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}
