package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"servifast_backend/internal/models"
)

// registerCustomRules registers the enum validation tags used by DTOs.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-job-status", validateJobStatus)
	mustRegister("is-payment-method", validatePaymentMethod)
	mustRegister("is-subscription-plan", validateSubscriptionPlan)
}

// Empty values pass every enum rule; 'required' is a separate concern.

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.UserRole(value) {
	case models.UserRoleClient, models.UserRoleWorker, models.UserRoleManager:
		return true
	default:
		return false
	}
}

func validateJobStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.JobStatus(value) {
	case models.JobStatusPending, models.JobStatusAccepted, models.JobStatusInRoute,
		models.JobStatusOnSite, models.JobStatusInProgress, models.JobStatusCompleted,
		models.JobStatusCancelled:
		return true
	default:
		return false
	}
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.PaymentMethod(value) {
	case models.PaymentMethodYape, models.PaymentMethodCash:
		return true
	default:
		return false
	}
}

func validateSubscriptionPlan(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.SubscriptionPlan(value) {
	case models.SubscriptionPlanDaily, models.SubscriptionPlanWeekly:
		return true
	default:
		return false
	}
}
