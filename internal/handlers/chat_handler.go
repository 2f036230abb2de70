package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"servifast_backend/internal/middleware"
	"servifast_backend/internal/services"
	"servifast_backend/internal/services/dto"
	"servifast_backend/ws"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
	relay       *ws.Relay
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService, relay *ws.Relay) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
		relay:       relay,
	}
}

func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	chat := rg.Group("/chat")
	chat.Use(middleware.AuthMiddleware())
	{
		chat.GET("/:jobID/messages", h.History)
		chat.POST("/:jobID/send", h.Send)
	}
}

func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.ChatHistoryQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	history, err := h.chatService.ListMessages(c.Param("jobID"), userID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// Send persists the message over HTTP and mirrors it to the live room, so
// socket and REST participants see the same stream.
func (h *ChatHandler) Send(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	jobID := c.Param("jobID")
	access, err := h.chatService.ResolveChatAccess(jobID, userID, req.ApplicationID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	req.ApplicationID = access.ApplicationID

	message, err := h.chatService.CreateMessage(jobID, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	key := ws.RoomKey{JobID: jobID}
	if access.ApplicationID != nil {
		key.ApplicationID = *access.ApplicationID
	}
	h.relay.BroadcastToRoom(key, ws.Event{Type: ws.EventMessage, Data: message})

	if userID != access.Job.ClientID {
		h.relay.NotifyUser(access.Job.ClientID, ws.Event{
			Type: ws.EventNewMessage,
			Data: gin.H{"job_id": jobID, "preview": message.Content},
		})
	}

	c.JSON(http.StatusCreated, message)
}
