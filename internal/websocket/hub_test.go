package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/voxus/internal/coordinator"
)

func newTestClient(h *Hub, id, name string, buffer int) *Client {
	c := NewClient(h, nil, coordinator.User{ID: id, Username: name})
	c.Send = make(chan []byte, buffer)
	h.registerClient(c)
	return c
}

func drain(c *Client) []Message {
	var out []Message
	for {
		select {
		case data, ok := <-c.Send:
			if !ok {
				return out
			}
			var m Message
			if err := json.Unmarshal(data, &m); err == nil {
				out = append(out, m)
			}
		default:
			return out
		}
	}
}

func TestHub_PublishToRecipients(t *testing.T) {
	h := NewHub()
	alice1 := newTestClient(h, "u1", "alice", 8)
	alice2 := newTestClient(h, "u1", "alice", 8)
	bob := newTestClient(h, "u2", "bob", 8)

	h.Publish(coordinator.Event{
		Type:       coordinator.EventUpdateUsers,
		Room:       "General",
		Recipients: []string{"u1"},
		Payload:    coordinator.UsersPayload{Room: "General", Users: []coordinator.User{{ID: "u1", Username: "alice"}}},
	})

	for _, c := range []*Client{alice1, alice2} {
		msgs := drain(c)
		require.Len(t, msgs, 1)
		assert.Equal(t, MessageType("update_users"), msgs[0].Type)
		assert.Equal(t, "General", msgs[0].Room)

		var payload coordinator.UsersPayload
		require.NoError(t, json.Unmarshal(msgs[0].Data, &payload))
		assert.Equal(t, "alice", payload.Users[0].Username)
	}
	assert.Empty(t, drain(bob))
}

func TestHub_Broadcast(t *testing.T) {
	h := NewHub()
	alice := newTestClient(h, "u1", "alice", 8)
	bob := newTestClient(h, "u2", "bob", 8)

	h.Publish(coordinator.Event{Type: coordinator.EventRoomCreated, Broadcast: true, Payload: coordinator.RoomCreatedPayload{Room: "X"}})

	assert.Len(t, drain(alice), 1)
	assert.Len(t, drain(bob), 1)
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	slow := newTestClient(h, "u1", "alice", 1)

	for i := 0; i < 5; i++ {
		h.Publish(coordinator.Event{Type: coordinator.EventStatus, Recipients: []string{"u1"}})
	}
	assert.Len(t, drain(slow), 1)
}

func TestHub_UnregisterCallsOnClose(t *testing.T) {
	h := NewHub()
	var closed []string
	h.OnClose(func(c *Client) { closed = append(closed, c.User.ID) })

	alice := newTestClient(h, "u1", "alice", 8)
	h.unregisterClient(alice)
	h.unregisterClient(alice)

	assert.Equal(t, []string{"u1"}, closed)
	assert.Zero(t, h.ConnectionCount())

	_, ok := <-alice.Send
	assert.False(t, ok, "send channel is closed")

	// после снятия клиента события до него не доходят и не паникуют
	h.Publish(coordinator.Event{Type: coordinator.EventStatus, Recipients: []string{"u1"}})
	assert.ErrorIs(t, alice.SendMessage(TypeError, "", nil), ErrClientGone)
}

func TestClient_SendMessageQueueFull(t *testing.T) {
	h := NewHub()
	alice := newTestClient(h, "u1", "alice", 1)

	require.NoError(t, alice.SendMessage(TypeError, "", nil))
	assert.ErrorIs(t, alice.SendMessage(TypeError, "", nil), ErrClientQueueFull)
}

func TestHub_StopRejectsRegistration(t *testing.T) {
	h := NewHub()
	go h.Run()
	h.Stop()

	err := h.Register(NewClient(h, nil, coordinator.User{ID: "u1"}))
	assert.ErrorIs(t, err, ErrHubStopped)
}
