package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainOne(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case event := <-client.send:
		return event
	default:
		t.Fatal("expected a queued event")
		return Event{}
	}
}

func fillSendBuffer(client *Client) {
	for i := 0; i < sendBufferSize; i++ {
		client.send <- Event{Type: EventPong}
	}
}

func TestBroadcastToRoom(t *testing.T) {
	srv := wsTestServer(t)
	relay := NewRelay(NewRegistry())
	key := RoomKey{JobID: "job-1"}

	a := dialTestClient(t, srv, "user-a")
	b := dialTestClient(t, srv, "user-b")
	other := dialTestClient(t, srv, "user-c")

	relay.Registry().JoinRoom(key, a)
	relay.Registry().JoinRoom(key, b)
	relay.Registry().JoinRoom(RoomKey{JobID: "job-2"}, other)

	relay.BroadcastToRoom(key, Event{Type: EventMessage, Data: "hola"})

	for _, client := range []*Client{a, b} {
		event := drainOne(t, client)
		assert.Equal(t, EventMessage, event.Type)
		assert.Equal(t, "hola", event.Data)
	}
	assert.Empty(t, other.send, "other rooms must not receive the event")
}

func TestBroadcastPrunesStalledClients(t *testing.T) {
	srv := wsTestServer(t)
	relay := NewRelay(NewRegistry())
	key := RoomKey{JobID: "job-1"}

	healthy := dialTestClient(t, srv, "user-a")
	stalled := dialTestClient(t, srv, "user-b")
	fillSendBuffer(stalled)

	relay.Registry().JoinRoom(key, healthy)
	relay.Registry().JoinRoom(key, stalled)

	relay.BroadcastToRoom(key, Event{Type: EventJobStatus})

	clients := relay.Registry().RoomClients(key)
	require.Len(t, clients, 1)
	assert.Same(t, healthy, clients[0])

	// The stalled client was closed and rejects further sends.
	assert.False(t, stalled.TrySend(Event{Type: EventPong}))
}

func TestNotifyUser(t *testing.T) {
	srv := wsTestServer(t)
	relay := NewRelay(NewRegistry())

	client := dialTestClient(t, srv, "user-a")
	relay.Registry().SetDashboard("user-a", client)

	relay.NotifyUser("user-a", Event{Type: EventNewApplication})
	event := drainOne(t, client)
	assert.Equal(t, EventNewApplication, event.Type)

	// No dashboard connected is not an error.
	relay.NotifyUser("user-nobody", Event{Type: EventNewApplication})
}

func TestNotifyUserDropsStalledDashboard(t *testing.T) {
	srv := wsTestServer(t)
	relay := NewRelay(NewRegistry())

	client := dialTestClient(t, srv, "user-a")
	fillSendBuffer(client)
	relay.Registry().SetDashboard("user-a", client)

	relay.NotifyUser("user-a", Event{Type: EventJobStatus})

	assert.Nil(t, relay.Registry().Dashboard("user-a"))
	assert.False(t, client.TrySend(Event{Type: EventPong}))
}
