package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"servifast_backend/internal/middleware"
	"servifast_backend/internal/models"
	"servifast_backend/internal/services"
	"servifast_backend/internal/services/dto"
)

type WorkerHandler struct {
	*BaseHandler
	workerService services.WorkerService
}

func NewWorkerHandler(base *BaseHandler, workerService services.WorkerService) *WorkerHandler {
	return &WorkerHandler{
		BaseHandler:   base,
		workerService: workerService,
	}
}

func (h *WorkerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	workers := rg.Group("/workers")
	workers.Use(middleware.AuthMiddleware())
	{
		workers.POST("/register", middleware.RequireRoles(models.UserRoleWorker), h.Register)
		workers.GET("/me", middleware.RequireRoles(models.UserRoleWorker), h.GetMine)
		workers.PUT("/me", middleware.RequireRoles(models.UserRoleWorker), h.UpdateMine)
		workers.POST("/me/verify", middleware.RequireRoles(models.UserRoleWorker), h.SubmitVerification)
		workers.PUT("/me/location", middleware.RequireRoles(models.UserRoleWorker), h.UpdateLocation)
		workers.GET("/search/list", h.Search)
		workers.GET("/:workerID", h.GetByID)
	}

	manager := rg.Group("/manager/workers")
	manager.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleManager))
	{
		manager.GET("/pending-verification", h.ListPendingVerification)
		manager.POST("/:workerID/verify", h.Verify)
	}
}

func (h *WorkerHandler) Register(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateWorkerRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	worker, err := h.workerService.CreateProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, worker)
}

func (h *WorkerHandler) GetMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	worker, err := h.workerService.GetOwnProfile(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, worker)
}

func (h *WorkerHandler) UpdateMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateWorkerRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	worker, err := h.workerService.UpdateProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, worker)
}

func (h *WorkerHandler) SubmitVerification(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitVerificationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	worker, err := h.workerService.SubmitVerification(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, worker)
}

// UpdateLocation accepts the position ping and drops it. Nothing consumes
// live locations yet, but mobile clients already send them.
func (h *WorkerHandler) UpdateLocation(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var req dto.UpdateLocationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *WorkerHandler) Search(c *gin.Context) {
	var query dto.WorkerListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	limit, offset := ParsePagination(c)
	response, err := h.workerService.ListAvailable(&query, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *WorkerHandler) GetByID(c *gin.Context) {
	worker, err := h.workerService.GetByID(c.Param("workerID"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, worker)
}

func (h *WorkerHandler) ListPendingVerification(c *gin.Context) {
	response, err := h.workerService.ListPendingVerification()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *WorkerHandler) Verify(c *gin.Context) {
	if err := h.workerService.Verify(c.Param("workerID")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "verified"})
}
