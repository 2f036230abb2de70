package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"servifast_backend/internal/models"
)

func pendingJob(clientID string) *models.Job {
	return &models.Job{ClientID: clientID, Status: models.JobStatusPending}
}

func assignedJob(clientID, workerID string, status models.JobStatus) *models.Job {
	return &models.Job{ClientID: clientID, WorkerID: &workerID, Status: status}
}

func TestCanApplyToJob(t *testing.T) {
	job := pendingJob("client-1")

	assert.True(t, CanApplyToJob(job, "user-2", models.UserRoleWorker))
	assert.False(t, CanApplyToJob(job, "user-2", models.UserRoleClient), "role gate")
	assert.False(t, CanApplyToJob(job, "client-1", models.UserRoleWorker), "own job")
	assert.False(t, CanApplyToJob(assignedJob("client-1", "worker-1", models.JobStatusAccepted), "user-2", models.UserRoleWorker))
}

func TestCanAcceptWorker(t *testing.T) {
	job := pendingJob("client-1")

	assert.True(t, CanAcceptWorker(job, "client-1"))
	assert.False(t, CanAcceptWorker(job, "user-2"))
	assert.False(t, CanAcceptWorker(assignedJob("client-1", "worker-1", models.JobStatusAccepted), "client-1"))
}

func TestCanAdvanceJob(t *testing.T) {
	for _, status := range models.ActiveJobStatuses() {
		job := assignedJob("client-1", "worker-1", status)
		assert.True(t, CanAdvanceJob(job, "worker-1"), "status %s", status)
		assert.False(t, CanAdvanceJob(job, "worker-2"), "status %s, wrong worker", status)
		assert.False(t, CanAdvanceJob(job, ""), "status %s, no profile", status)
	}
	assert.False(t, CanAdvanceJob(assignedJob("client-1", "worker-1", models.JobStatusCompleted), "worker-1"))
	assert.False(t, CanAdvanceJob(pendingJob("client-1"), "worker-1"))
}

func TestCanCancelJob(t *testing.T) {
	// The client may cancel at any non-terminal stage.
	assert.True(t, CanCancelJob(pendingJob("client-1"), "client-1", ""))
	assert.True(t, CanCancelJob(assignedJob("client-1", "worker-1", models.JobStatusInProgress), "client-1", ""))
	assert.False(t, CanCancelJob(assignedJob("client-1", "worker-1", models.JobStatusCompleted), "client-1", ""))

	// The worker only before departing.
	assert.True(t, CanCancelJob(assignedJob("client-1", "worker-1", models.JobStatusAccepted), "user-2", "worker-1"))
	assert.False(t, CanCancelJob(assignedJob("client-1", "worker-1", models.JobStatusInRoute), "user-2", "worker-1"))

	// Bystanders never.
	assert.False(t, CanCancelJob(pendingJob("client-1"), "user-3", "worker-2"))
}

func TestCanAddExtra(t *testing.T) {
	assert.True(t, CanAddExtra(assignedJob("client-1", "worker-1", models.JobStatusInProgress), "worker-1"))
	assert.False(t, CanAddExtra(assignedJob("client-1", "worker-1", models.JobStatusCompleted), "worker-1"))
	assert.False(t, CanAddExtra(assignedJob("client-1", "worker-1", models.JobStatusInProgress), "worker-2"))
}

func TestCapabilitiesFor(t *testing.T) {
	t.Run("client on completed job", func(t *testing.T) {
		job := assignedJob("client-1", "worker-1", models.JobStatusCompleted)
		caps := CapabilitiesFor(job, "client-1", "", models.UserRoleClient)
		assert.True(t, caps.IsClient)
		assert.False(t, caps.IsAssigned)
		assert.True(t, caps.CanChat)
		assert.True(t, caps.CanRate)
		assert.False(t, caps.CanCancel)
		assert.False(t, caps.CanAdvance)
	})

	t.Run("assigned worker in progress", func(t *testing.T) {
		job := assignedJob("client-1", "worker-1", models.JobStatusInProgress)
		caps := CapabilitiesFor(job, "user-2", "worker-1", models.UserRoleWorker)
		assert.True(t, caps.IsAssigned)
		assert.True(t, caps.CanAdvance)
		assert.True(t, caps.CanComplete)
		assert.True(t, caps.CanAddExtra)
		assert.True(t, caps.CanChat)
		assert.False(t, caps.CanCancel)
		assert.False(t, caps.CanRate)
	})

	t.Run("stranger", func(t *testing.T) {
		job := assignedJob("client-1", "worker-1", models.JobStatusInProgress)
		caps := CapabilitiesFor(job, "user-9", "worker-9", models.UserRoleWorker)
		assert.Equal(t, JobCapabilities{}, caps)
	})
}
