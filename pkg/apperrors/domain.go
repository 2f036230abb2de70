package apperrors

import (
	"net/http"
)

// Factories and predefined values for domain errors shared across services.

// ErrNotFound converts a repository miss (e.g. gorm.ErrRecordNotFound) into a 404.
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrConflict converts a constraint violation or race loss into a 409.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidStatus reports an operation attempted in an incompatible entity state.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// ErrInvalidOperation reports a logically invalid request (400).
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 6 characters required.",
	http.StatusBadRequest,
)

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- jobs ---

var ErrJobNotAvailable = New(
	CodeInvalidStatus,
	"job",
	"This job is no longer available",
	http.StatusConflict,
)

var ErrJobAlreadyAssigned = New(
	CodeConflict,
	"job",
	"This job already has a worker assigned",
	http.StatusConflict,
)

var ErrAlreadyApplied = New(
	CodeConflict,
	"job",
	"You have already applied to this job",
	http.StatusConflict,
)

var ErrWorkerBusy = New(
	CodeConflict,
	"job",
	"This worker already has an active job",
	http.StatusConflict,
)

// --- workers ---

var ErrNoWorkerProfile = New(
	CodeNotFound,
	"worker",
	"You do not have a worker profile",
	http.StatusNotFound,
)

var ErrWorkerProfileExists = New(
	CodeAlreadyExists,
	"worker",
	"This user already has a worker profile",
	http.StatusConflict,
)

var ErrWorkerUnavailable = New(
	CodeInvalidOperation,
	"worker",
	"Worker is not available for new jobs",
	http.StatusConflict,
)

// --- subscriptions ---

var ErrPlusRequired = New(
	CodeForbidden,
	"subscription",
	"An active Plus subscription is required to apply to jobs",
	http.StatusForbidden,
)

var ErrInvalidPlan = New(
	CodeValidationFailed,
	"subscription",
	"Invalid subscription plan",
	http.StatusBadRequest,
)

// --- chat ---

var ErrChatAccessDenied = New(
	CodeForbidden,
	"chat",
	"You do not have access to this chat",
	http.StatusForbidden,
)

// --- commissions ---

var ErrCommissionProcessed = New(
	CodeInvalidStatus,
	"commission",
	"This commission has already been processed",
	http.StatusConflict,
)

var ErrCommissionNotInReview = New(
	CodeInvalidStatus,
	"commission",
	"This commission is not awaiting review",
	http.StatusConflict,
)

var ErrReviewNotesRequired = New(
	CodeValidationFailed,
	"commission",
	"A reason is required to reject a payment",
	http.StatusBadRequest,
)
