package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"servifast_backend/internal/auth"
	"servifast_backend/internal/logger"
	"servifast_backend/internal/models"
	"servifast_backend/internal/services"
	"servifast_backend/internal/services/dto"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// incomingChatFrame is what chat clients send. A literal "ping" text frame is
// also accepted and answered with a pong event.
type incomingChatFrame struct {
	Content  string `json:"content"`
	HasImage bool   `json:"has_image"`
	ImageURL string `json:"image_url"`
}

// Handler upgrades HTTP requests into chat and dashboard sockets.
type Handler struct {
	relay       *Relay
	chatService services.ChatService
}

func NewHandler(relay *Relay, chatService services.ChatService) *Handler {
	return &Handler{
		relay:       relay,
		chatService: chatService,
	}
}

// socketToken pulls the token from the upgrade request. Browsers cannot set
// an Authorization header on a WebSocket handshake, so a token query parameter
// is accepted too.
func socketToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}

// closePolicy rejects an already-upgraded socket. Auth and access failures
// happen after the upgrade so the client receives a proper close frame
// instead of a failed handshake.
func closePolicy(conn *websocket.Conn, reason string) {
	message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait))
	conn.Close()
}

// ChatSocket serves GET /api/chat/ws/:jobID. Access and the effective room
// are resolved before the client joins; rejected sockets close with 1008.
func (h *Handler) ChatSocket(c *gin.Context) {
	jobID := c.Param("jobID")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "websocket upgrade failed", err, "job_id", jobID)
		return
	}

	token := socketToken(c)
	if token == "" {
		closePolicy(conn, "Missing token")
		return
	}
	claims, err := auth.ParseToken(token)
	if err != nil {
		closePolicy(conn, "Invalid token")
		return
	}

	var applicationID *string
	if v := c.Query("application_id"); v != "" {
		applicationID = &v
	}

	access, err := h.chatService.ResolveChatAccess(jobID, claims.UserID, applicationID)
	if err != nil {
		closePolicy(conn, "Chat access denied")
		return
	}

	key := RoomKey{JobID: jobID}
	if access.ApplicationID != nil {
		key.ApplicationID = *access.ApplicationID
	}

	client := newClient(conn, claims.UserID)
	client.onMessage = func(data []byte) {
		h.handleChatFrame(client, key, access, data)
	}
	client.onClose = func() {
		h.relay.Registry().LeaveRoom(key, client)
	}

	h.relay.Registry().JoinRoom(key, client)
	client.TrySend(Event{Type: EventConnected, Message: "Connected to chat"})
	logger.Info("chat client connected", "user_id", claims.UserID, "job_id", jobID)
	client.run()
}

// DashboardSocket serves GET /api/notifications/ws/dashboard. A reconnect evicts the
// user's previous dashboard connection.
func (h *Handler) DashboardSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "websocket upgrade failed", err)
		return
	}

	token := socketToken(c)
	if token == "" {
		closePolicy(conn, "Missing token")
		return
	}
	claims, err := auth.ParseToken(token)
	if err != nil {
		closePolicy(conn, "Invalid token")
		return
	}

	client := newClient(conn, claims.UserID)
	client.onMessage = func(data []byte) {
		if strings.TrimSpace(string(data)) == "ping" {
			client.TrySend(Event{Type: EventPong})
		}
	}
	client.onClose = func() {
		h.relay.Registry().RemoveDashboard(claims.UserID, client)
	}

	if evicted := h.relay.Registry().SetDashboard(claims.UserID, client); evicted != nil {
		evicted.Close()
	}
	client.TrySend(Event{
		Type:    EventConnected,
		Message: "Connected to dashboard",
		Data:    gin.H{"user_id": claims.UserID},
	})
	logger.Info("dashboard client connected", "user_id", claims.UserID)
	client.run()
}

func (h *Handler) handleChatFrame(client *Client, key RoomKey, access *services.ChatAccess, data []byte) {
	if strings.TrimSpace(string(data)) == "ping" {
		client.TrySend(Event{Type: EventPong})
		return
	}

	var frame incomingChatFrame
	if err := json.Unmarshal(data, &frame); err != nil || frame.Content == "" {
		client.TrySend(Event{Type: EventError, Message: "Invalid message payload"})
		return
	}

	req := &dto.SendMessageRequest{
		Content:       frame.Content,
		ApplicationID: access.ApplicationID,
		HasImage:      frame.HasImage,
		ImageURL:      frame.ImageURL,
	}
	message, err := h.chatService.CreateMessage(key.JobID, client.UserID, req)
	if err != nil {
		logger.Warn("chat message rejected", "user_id", client.UserID, "job_id", key.JobID, "error", err)
		client.TrySend(Event{Type: EventError, Message: "Message could not be delivered"})
		return
	}

	h.relay.BroadcastToRoom(key, Event{Type: EventMessage, Data: message})

	// The job owner also hears about worker messages on their dashboard, in
	// case they are not in the chat right now.
	if client.UserID != access.Job.ClientID {
		h.relay.NotifyUser(access.Job.ClientID, Event{
			Type: EventNewMessage,
			Data: gin.H{"job_id": key.JobID, "preview": preview(frame.Content)},
		})
	}
}

// preview truncates on a rune boundary so multibyte content is never split
// mid-sequence.
func preview(content string) string {
	const max = 80
	if utf8.RuneCountInString(content) <= max {
		return content
	}
	return string([]rune(content)[:max]) + "..."
}

// JobStatusPayload is the dashboard notification for a lifecycle change.
type JobStatusPayload struct {
	JobID  string           `json:"job_id"`
	Status models.JobStatus `json:"status"`
}
