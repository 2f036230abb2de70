package models

type UserRole string
type JobStatus string
type PaymentMethod string
type CommissionStatus string
type SubscriptionPlan string
type SubscriptionStatus string

const (
	UserRoleClient  UserRole = "client"
	UserRoleWorker  UserRole = "worker"
	UserRoleManager UserRole = "manager"

	JobStatusPending    JobStatus = "pending"
	JobStatusAccepted   JobStatus = "accepted"
	JobStatusInRoute    JobStatus = "in_route"
	JobStatusOnSite     JobStatus = "on_site"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"

	PaymentMethodYape PaymentMethod = "yape"
	PaymentMethodCash PaymentMethod = "cash"

	CommissionStatusPending          CommissionStatus = "pending"
	CommissionStatusPaymentSubmitted CommissionStatus = "payment_submitted"
	CommissionStatusApproved         CommissionStatus = "approved"
	CommissionStatusRejected         CommissionStatus = "rejected"

	SubscriptionPlanDaily  SubscriptionPlan = "daily"
	SubscriptionPlanWeekly SubscriptionPlan = "weekly"

	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// jobTransitions describes the allowed successor states of each job status.
// Terminal states map to an empty list.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPending:    {JobStatusAccepted, JobStatusCancelled},
	JobStatusAccepted:   {JobStatusInRoute, JobStatusCancelled},
	JobStatusInRoute:    {JobStatusOnSite, JobStatusCancelled},
	JobStatusOnSite:     {JobStatusInProgress, JobStatusCancelled},
	JobStatusInProgress: {JobStatusCompleted, JobStatusCancelled},
	JobStatusCompleted:  {},
	JobStatusCancelled:  {},
}

// CanTransition reports whether a job may move from its current status to next.
func (s JobStatus) CanTransition(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s JobStatus) IsTerminal() bool {
	return len(jobTransitions[s]) == 0
}

// ActiveJobStatuses are the states in which a worker is considered occupied by
// a job. Used for the single-active-job-per-worker rule and extras gating.
func ActiveJobStatuses() []JobStatus {
	return []JobStatus{
		JobStatusAccepted,
		JobStatusInRoute,
		JobStatusOnSite,
		JobStatusInProgress,
	}
}

// AllowsExtras reports whether extras may still be added in this status.
func (s JobStatus) AllowsExtras() bool {
	for _, active := range ActiveJobStatuses() {
		if s == active {
			return true
		}
	}
	return false
}
