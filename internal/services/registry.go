package services

// ServiceContainer holds every service of the application.
type ServiceContainer struct {
	AuthService         AuthService
	JobService          JobService
	WorkerService       WorkerService
	ChatService         ChatService
	SubscriptionService SubscriptionService
	RatingService       RatingService
	CommissionService   CommissionService
}
