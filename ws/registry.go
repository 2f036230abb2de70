package ws

import "sync"

// RoomKey identifies one chat room. An empty ApplicationID is the shared room
// of an assigned job; otherwise the room belongs to one applicant's
// pre-acceptance conversation.
type RoomKey struct {
	JobID         string
	ApplicationID string
}

// Registry tracks live WebSocket connections: chat rooms hold any number of
// clients, dashboards hold at most one connection per user.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[RoomKey]map[*Client]struct{}
	dashboards map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:      make(map[RoomKey]map[*Client]struct{}),
		dashboards: make(map[string]*Client),
	}
}

func (r *Registry) JoinRoom(key RoomKey, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[key]
	if !ok {
		room = make(map[*Client]struct{})
		r.rooms[key] = room
	}
	room[client] = struct{}{}
}

// LeaveRoom removes the client and drops the room once it empties, so the
// registry never accumulates keys for finished conversations.
func (r *Registry) LeaveRoom(key RoomKey, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[key]
	if !ok {
		return
	}
	delete(room, client)
	if len(room) == 0 {
		delete(r.rooms, key)
	}
}

// RoomClients returns a snapshot of the room's members.
func (r *Registry) RoomClients(key RoomKey) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room := r.rooms[key]
	clients := make([]*Client, 0, len(room))
	for client := range room {
		clients = append(clients, client)
	}
	return clients
}

// SetDashboard registers the user's dashboard connection and returns the
// previous one, if any. The caller closes the evicted connection; a user has
// exactly one live dashboard socket.
func (r *Registry) SetDashboard(userID string, client *Client) (evicted *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted = r.dashboards[userID]
	r.dashboards[userID] = client
	return evicted
}

// RemoveDashboard unregisters the connection only if it is still the current
// one, so an evicted socket's teardown cannot remove its replacement.
func (r *Registry) RemoveDashboard(userID string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dashboards[userID] == client {
		delete(r.dashboards, userID)
	}
}

func (r *Registry) Dashboard(userID string) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dashboards[userID]
}

func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *Registry) DashboardCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.dashboards)
}
