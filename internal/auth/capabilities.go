package auth

import "servifast_backend/internal/models"

// Capability predicates express job action rules in one place so handlers,
// services, and clients (via the capabilities endpoint) agree on them.
//
// userID is the caller's user ID; workerID is the caller's worker profile ID,
// empty when the caller has no worker profile. Job.WorkerID references the
// worker profile, not the user.

// JobCapabilities is the set of actions a user may take on a job right now.
type JobCapabilities struct {
	CanApply    bool `json:"can_apply"`
	CanAccept   bool `json:"can_accept"`
	CanAdvance  bool `json:"can_advance"`
	CanComplete bool `json:"can_complete"`
	CanCancel   bool `json:"can_cancel"`
	CanAddExtra bool `json:"can_add_extra"`
	CanChat     bool `json:"can_chat"`
	CanRate     bool `json:"can_rate"`
	IsClient    bool `json:"is_client"`
	IsAssigned  bool `json:"is_assigned"`
}

func isAssignedWorker(job *models.Job, workerID string) bool {
	return workerID != "" && job.WorkerID != nil && *job.WorkerID == workerID
}

// CanApplyToJob reports whether a worker may apply to the job.
func CanApplyToJob(job *models.Job, userID string, role models.UserRole) bool {
	return role == models.UserRoleWorker &&
		job.Status == models.JobStatusPending &&
		job.WorkerID == nil &&
		job.ClientID != userID
}

// CanAcceptWorker reports whether the user may accept an application on the job.
func CanAcceptWorker(job *models.Job, userID string) bool {
	return job.ClientID == userID &&
		job.Status == models.JobStatusPending &&
		job.WorkerID == nil
}

// CanAdvanceJob reports whether the caller may move the job to the next
// status. Only the assigned worker drives the forward progression.
func CanAdvanceJob(job *models.Job, workerID string) bool {
	if !isAssignedWorker(job, workerID) {
		return false
	}
	switch job.Status {
	case models.JobStatusAccepted, models.JobStatusInRoute, models.JobStatusOnSite, models.JobStatusInProgress:
		return true
	}
	return false
}

// CanCancelJob reports whether the caller may cancel the job. The client can
// cancel any non-terminal job; the assigned worker only before departing
// (once in route the client must cancel).
func CanCancelJob(job *models.Job, userID, workerID string) bool {
	if job.Status.IsTerminal() {
		return false
	}
	if job.ClientID == userID {
		return true
	}
	if isAssignedWorker(job, workerID) {
		return job.Status == models.JobStatusAccepted
	}
	return false
}

// CanAddExtra reports whether the caller may add an extra charge to the job.
func CanAddExtra(job *models.Job, workerID string) bool {
	return isAssignedWorker(job, workerID) && job.Status.AllowsExtras()
}

// CanAccessChat reports whether the caller belongs to any of the job's chats.
func CanAccessChat(job *models.Job, userID, workerID string) bool {
	if job.ClientID == userID {
		return true
	}
	return isAssignedWorker(job, workerID)
}

// CanRateJob reports whether the caller may leave a rating on the job.
func CanRateJob(job *models.Job, userID, workerID string) bool {
	if job.Status != models.JobStatusCompleted {
		return false
	}
	return CanAccessChat(job, userID, workerID)
}

// CapabilitiesFor computes the full capability set for a caller on a job.
func CapabilitiesFor(job *models.Job, userID, workerID string, role models.UserRole) JobCapabilities {
	assigned := isAssignedWorker(job, workerID)
	return JobCapabilities{
		CanApply:    CanApplyToJob(job, userID, role),
		CanAccept:   CanAcceptWorker(job, userID),
		CanAdvance:  CanAdvanceJob(job, workerID),
		CanComplete: assigned && job.Status == models.JobStatusInProgress,
		CanCancel:   CanCancelJob(job, userID, workerID),
		CanAddExtra: CanAddExtra(job, workerID),
		CanChat:     CanAccessChat(job, userID, workerID),
		CanRate:     CanRateJob(job, userID, workerID),
		IsClient:    job.ClientID == userID,
		IsAssigned:  assigned,
	}
}
