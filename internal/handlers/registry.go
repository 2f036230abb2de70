package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	JobHandler          *JobHandler
	WorkerHandler       *WorkerHandler
	SubscriptionHandler *SubscriptionHandler
	CommissionHandler   *CommissionHandler
	ChatHandler         *ChatHandler
	HealthHandler       *HealthHandler
}
