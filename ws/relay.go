package ws

import (
	"servifast_backend/internal/logger"
)

// Event is the envelope of every server-to-client frame.
type Event struct {
	Type    string `json:"type"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Event types pushed by the server. Room broadcasts carry the full message
// under "message"; "new_message" is the dashboard summary of the same event.
const (
	EventConnected      = "connected"
	EventPong           = "pong"
	EventMessage        = "message"
	EventNewMessage     = "new_message"
	EventNewApplication = "new_application"
	EventJobStatus      = "job_status"
	EventWorkerAccepted = "worker_accepted"
	EventError          = "error"
)

// Relay fans events out to live connections. Delivery is best effort: a slow
// or dead client is dropped rather than allowed to stall the sender.
type Relay struct {
	registry *Registry
}

func NewRelay(registry *Registry) *Relay {
	return &Relay{registry: registry}
}

func (r *Relay) Registry() *Registry {
	return r.registry
}

// BroadcastToRoom delivers the event to every client in the room. Clients
// whose send buffer is full are pruned after the loop.
func (r *Relay) BroadcastToRoom(key RoomKey, event Event) {
	var stalled []*Client
	for _, client := range r.registry.RoomClients(key) {
		if !client.TrySend(event) {
			stalled = append(stalled, client)
		}
	}

	for _, client := range stalled {
		logger.Warn("dropping stalled chat client", "user_id", client.UserID, "job_id", key.JobID)
		r.registry.LeaveRoom(key, client)
		client.Close()
	}
}

// NotifyUser pushes the event to the user's dashboard socket, if connected.
// Absent or stalled connections are not an error; the notification is simply
// lost.
func (r *Relay) NotifyUser(userID string, event Event) {
	client := r.registry.Dashboard(userID)
	if client == nil {
		return
	}
	if !client.TrySend(event) {
		logger.Warn("dropping stalled dashboard client", "user_id", userID)
		r.registry.RemoveDashboard(userID, client)
		client.Close()
	}
}
