package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"servifast_backend/internal/middleware"
	"servifast_backend/internal/models"
	"servifast_backend/internal/services"
	"servifast_backend/internal/services/dto"
)

type CommissionHandler struct {
	*BaseHandler
	commissionService services.CommissionService
}

func NewCommissionHandler(base *BaseHandler, commissionService services.CommissionService) *CommissionHandler {
	return &CommissionHandler{
		BaseHandler:       base,
		commissionService: commissionService,
	}
}

func (h *CommissionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	commissions := rg.Group("/commissions")
	commissions.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleWorker))
	{
		commissions.GET("/pending", h.ListPending)
		commissions.GET("/history", h.History)
		commissions.POST("/:commissionID/submit-payment", h.SubmitPayment)
	}

	manager := rg.Group("/manager/commissions")
	manager.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleManager))
	{
		manager.GET("/pending-review", h.ListForReview)
		manager.POST("/:commissionID/approve", h.Approve)
		manager.POST("/:commissionID/reject", h.Reject)
	}
}

func (h *CommissionHandler) ListPending(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.commissionService.ListPending(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *CommissionHandler) History(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit, offset := ParsePagination(c)
	response, err := h.commissionService.History(userID, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *CommissionHandler) SubmitPayment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitCommissionPaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	commission, err := h.commissionService.SubmitPayment(c.Param("commissionID"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, commission)
}

func (h *CommissionHandler) ListForReview(c *gin.Context) {
	limit, offset := ParsePagination(c)
	response, err := h.commissionService.ListForReview(limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *CommissionHandler) Approve(c *gin.Context) {
	h.review(c, true)
}

func (h *CommissionHandler) Reject(c *gin.Context) {
	h.review(c, false)
}

func (h *CommissionHandler) review(c *gin.Context, approve bool) {
	managerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ReviewCommissionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	req.Approve = approve

	commission, err := h.commissionService.Review(c.Param("commissionID"), managerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, commission)
}
