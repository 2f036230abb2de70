package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"servifast_backend/internal/middleware"
	"servifast_backend/internal/models"
	"servifast_backend/internal/services"
	"servifast_backend/internal/services/dto"
	"servifast_backend/pkg/apperrors"
	"servifast_backend/ws"
)

type JobHandler struct {
	*BaseHandler
	jobService    services.JobService
	ratingService services.RatingService
	relay         *ws.Relay
}

func NewJobHandler(
	base *BaseHandler,
	jobService services.JobService,
	ratingService services.RatingService,
	relay *ws.Relay,
) *JobHandler {
	return &JobHandler{
		BaseHandler:   base,
		jobService:    jobService,
		ratingService: ratingService,
		relay:         relay,
	}
}

func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	jobs.Use(middleware.AuthMiddleware())
	{
		jobs.POST("", middleware.RequireRoles(models.UserRoleClient), h.Create)
		jobs.GET("/available", middleware.RequireRoles(models.UserRoleWorker), h.ListAvailable)
		jobs.GET("/my-jobs", h.ListMine)
		jobs.GET("/my-applications", middleware.RequireRoles(models.UserRoleWorker), h.ListMyApplications)
		jobs.GET("/:jobID", h.GetByID)
		jobs.GET("/:jobID/applications", h.ListApplications)
		jobs.POST("/:jobID/apply", middleware.RequireRoles(models.UserRoleWorker), h.Apply)
		jobs.POST("/:jobID/accept-worker/:applicationID", middleware.RequireRoles(models.UserRoleClient), h.AcceptWorker)

		jobs.POST("/:jobID/start-route", middleware.RequireRoles(models.UserRoleWorker), h.statusUpdater(models.JobStatusInRoute))
		jobs.POST("/:jobID/confirm-arrival", middleware.RequireRoles(models.UserRoleWorker), h.statusUpdater(models.JobStatusOnSite))
		jobs.POST("/:jobID/start-service", middleware.RequireRoles(models.UserRoleWorker), h.statusUpdater(models.JobStatusInProgress))
		jobs.POST("/:jobID/complete", middleware.RequireRoles(models.UserRoleWorker), h.statusUpdater(models.JobStatusCompleted))
		jobs.POST("/:jobID/cancel", h.statusUpdater(models.JobStatusCancelled))

		jobs.POST("/:jobID/add-extra", middleware.RequireRoles(models.UserRoleWorker), h.AddExtra)

		jobs.POST("/:jobID/rate", middleware.RequireRoles(models.UserRoleWorker), h.Rate)
		jobs.POST("/:jobID/rate-worker", middleware.RequireRoles(models.UserRoleClient), h.Rate)
		jobs.GET("/:jobID/rating", h.GetRating)
	}
}

func (h *JobHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.Create(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) GetByID(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	detail, err := h.jobService.GetByID(c.Param("jobID"), userID, middleware.GetUserRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *JobHandler) ListAvailable(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.JobListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	limit, offset := ParsePagination(c)
	response, err := h.jobService.ListAvailable(userID, &query, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListMine dispatches on the caller's role: clients get their posted jobs,
// workers their assigned active jobs.
func (h *JobHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.JobListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	limit, offset := ParsePagination(c)

	var (
		jobs  []models.Job
		total int64
		err   error
	)
	if middleware.GetUserRole(c) == models.UserRoleWorker {
		jobs, total, err = h.jobService.ListByWorker(userID, &query, limit, offset)
	} else {
		jobs, total, err = h.jobService.ListByClient(userID, &query, limit, offset)
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "total": total})
}

func (h *JobHandler) ListMyApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	apps, err := h.jobService.ListOwnApplications(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

func (h *JobHandler) ListApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	apps, err := h.jobService.ListApplications(c.Param("jobID"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

func (h *JobHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	app, err := h.jobService.Apply(c.Param("jobID"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if app.Job != nil {
		h.relay.NotifyUser(app.Job.ClientID, ws.Event{
			Type: ws.EventNewApplication,
			Data: gin.H{
				"job_id":      app.JobID,
				"job_title":   app.Job.Title,
				"application": dto.NewApplicationSummary(app),
			},
		})
	}

	c.JSON(http.StatusCreated, dto.NewApplicationSummary(app))
}

func (h *JobHandler) AcceptWorker(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	req := dto.AcceptWorkerRequest{ApplicationID: c.Param("applicationID")}
	if err := h.validator.Validate(&req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid application id"))
		return
	}

	job, err := h.jobService.AcceptWorker(c.Param("jobID"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if job.Worker != nil {
		h.relay.NotifyUser(job.Worker.UserID, ws.Event{
			Type: ws.EventWorkerAccepted,
			Data: gin.H{"job_id": job.ID, "job_title": job.Title},
		})
	}

	c.JSON(http.StatusOK, job)
}

// statusUpdater builds the handler for a fixed lifecycle transition. The
// counterparty hears about the change on their dashboard socket.
func (h *JobHandler) statusUpdater(next models.JobStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := h.GetAndAuthorizeUserID(c)
		if !ok {
			return
		}

		job, err := h.jobService.UpdateStatus(c.Param("jobID"), userID, next)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}

		h.notifyStatusChange(job, userID)
		c.JSON(http.StatusOK, job)
	}
}

func (h *JobHandler) notifyStatusChange(job *models.Job, actorID string) {
	event := ws.Event{
		Type: ws.EventJobStatus,
		Data: ws.JobStatusPayload{JobID: job.ID, Status: job.Status},
	}

	if job.ClientID != actorID {
		h.relay.NotifyUser(job.ClientID, event)
	}
	if job.Worker != nil && job.Worker.UserID != actorID {
		h.relay.NotifyUser(job.Worker.UserID, event)
	}
}

func (h *JobHandler) AddExtra(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AddExtraRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.AddExtra(c.Param("jobID"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// Rate serves both directions: the service works out from the caller's
// standing whether the worker or the client side of the row is written.
func (h *JobHandler) Rate(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	rating, err := h.ratingService.RateJob(c.Param("jobID"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

func (h *JobHandler) GetRating(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	rating, err := h.ratingService.GetByJob(c.Param("jobID"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}
