package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"servifast_backend/internal/auth"
	"servifast_backend/internal/config"
	"servifast_backend/internal/handlers"
	"servifast_backend/internal/logger"
	"servifast_backend/internal/middleware"
	"servifast_backend/internal/models"
	"servifast_backend/internal/repositories"
	"servifast_backend/internal/routes"
	"servifast_backend/internal/services"
	"servifast_backend/internal/validator"
	"servifast_backend/internal/workers"
	"servifast_backend/ws"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		// TranslateError turns driver-specific unique violations into
		// gorm.ErrDuplicatedKey, which the repositories rely on.
		TranslateError: true,
	})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstManager(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first manager user", "error", err)
	}

	// Background sweep of lapsed Plus subscriptions.
	sweeper := workers.NewSubscriptionSweeper(
		repositories.NewSubscriptionRepository(gormDB),
		repositories.NewWorkerRepository(gormDB),
		10*time.Minute,
	)
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go sweeper.Run(sweeperCtx)

	ginRouter := SetupRouter(gormDB, sqlDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(gormDB *gorm.DB, sqlDB *sql.DB) *gin.Engine {
	serviceContainer := initializeServices(gormDB)

	relay := ws.NewRelay(ws.NewRegistry())
	wsHandler := ws.NewHandler(relay, serviceContainer.ChatService)

	appHandlers := initializeHandlers(serviceContainer, relay)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter
}

func initializeServices(gormDB *gorm.DB) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository(gormDB)
	workerRepo := repositories.NewWorkerRepository(gormDB)
	jobRepo := repositories.NewJobRepository(gormDB)
	applicationRepo := repositories.NewApplicationRepository(gormDB)
	messageRepo := repositories.NewMessageRepository(gormDB)
	subscriptionRepo := repositories.NewSubscriptionRepository(gormDB)
	commissionRepo := repositories.NewCommissionRepository(gormDB)
	ratingRepo := repositories.NewRatingRepository(gormDB)

	return &services.ServiceContainer{
		AuthService:         services.NewAuthService(userRepo),
		JobService:          services.NewJobService(jobRepo, applicationRepo, workerRepo),
		WorkerService:       services.NewWorkerService(workerRepo, userRepo, ratingRepo),
		ChatService:         services.NewChatService(jobRepo, applicationRepo, messageRepo, workerRepo),
		SubscriptionService: services.NewSubscriptionService(subscriptionRepo, workerRepo),
		RatingService:       services.NewRatingService(ratingRepo, jobRepo, workerRepo),
		CommissionService:   services.NewCommissionService(commissionRepo, workerRepo),
	}
}

func initializeHandlers(container *services.ServiceContainer, relay *ws.Relay) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.AuthService),
		JobHandler:          handlers.NewJobHandler(baseHandler, container.JobService, container.RatingService, relay),
		WorkerHandler:       handlers.NewWorkerHandler(baseHandler, container.WorkerService),
		SubscriptionHandler: handlers.NewSubscriptionHandler(baseHandler, container.SubscriptionService),
		CommissionHandler:   handlers.NewCommissionHandler(baseHandler, container.CommissionService),
		ChatHandler:         handlers.NewChatHandler(baseHandler, container.ChatService, relay),
		HealthHandler:       handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func migrate(db *gorm.DB) error {
	// BaseModel defaults IDs to uuid_generate_v4().
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to enable uuid-ossp: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Worker{},
		&models.Job{},
		&models.JobApplication{},
		&models.Message{},
		&models.WorkerSubscription{},
		&models.Commission{},
		&models.Rating{},
	)
}

func seedFirstManager(db *gorm.DB, cfg *config.Config) error {
	managerEmail := cfg.FirstManagerEmail
	managerPassword := cfg.FirstManagerPassword

	if managerEmail == "" || managerPassword == "" {
		logger.Warn("First manager credentials not configured. Skipping manager seeding.")
		return nil
	}

	var manager models.User
	result := db.Where("email = ?", managerEmail).First(&manager)
	if result.Error == nil {
		logger.Info("Manager user already exists. Skipping creation.", "email", managerEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for manager user: %w", result.Error)
	}

	logger.Warn("No manager user found. Creating first manager...", "email", managerEmail)

	hashedPassword, err := auth.HashPassword(managerPassword)
	if err != nil {
		return fmt.Errorf("failed to hash manager password: %w", err)
	}

	newManager := &models.User{
		Email:        managerEmail,
		PasswordHash: hashedPassword,
		Role:         models.UserRoleManager,
		FullName:     "Platform Manager",
	}
	if err := db.Create(newManager).Error; err != nil {
		return fmt.Errorf("failed to create manager user: %w", err)
	}

	logger.Info("Created first manager user", "email", managerEmail)
	return nil
}
