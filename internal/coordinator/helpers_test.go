package coordinator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Publish(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *recorder) of(t EventType) []Event {
	var out []Event
	for _, ev := range r.all() {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// received - события типа t, которые получил бы userID
func (r *recorder) received(userID string, t EventType) []Event {
	var out []Event
	for _, ev := range r.of(t) {
		if ev.Broadcast {
			out = append(out, ev)
			continue
		}
		for _, id := range ev.Recipients {
			if id == userID {
				out = append(out, ev)
				break
			}
		}
	}
	return out
}

func newTestCoordinator(t *testing.T, opts Options) (*Coordinator, *recorder) {
	t.Helper()
	rec := &recorder{}
	return New(rec, opts), rec
}

func connect(t *testing.T, c *Coordinator, id, name string) User {
	t.Helper()
	u := User{ID: id, Username: name}
	require.NoError(t, c.Connect(context.Background(), u))
	return u
}

func mustCreate(t *testing.T, c *Coordinator, creator User, name string) Room {
	t.Helper()
	room, err := c.CreateRoom(context.Background(), creator, RoomSpec{Name: name, Category: "General"})
	require.NoError(t, err)
	return room
}

func rosterNames(t *testing.T, c *Coordinator, room string) []string {
	t.Helper()
	users, err := c.Roster(context.Background(), room)
	require.NoError(t, err)
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	return names
}

func lastUsers(t *testing.T, evs []Event) []User {
	t.Helper()
	require.NotEmpty(t, evs)
	return evs[len(evs)-1].Payload.(UsersPayload).Users
}

const quiet = 60 * time.Millisecond
