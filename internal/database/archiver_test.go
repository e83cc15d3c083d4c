package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/voxus/internal/coordinator"
	"github.com/thereayou/voxus/internal/models"
)

type fakeStore struct {
	mu    sync.Mutex
	ops   []string
	fail  bool
	saved []*models.Message
}

func (f *fakeStore) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, op)
	if f.fail {
		return errors.New("db down")
	}
	return nil
}

func (f *fakeStore) SaveRoom(r *models.Room) error { return f.record("room:" + r.Name) }

func (f *fakeStore) SaveMessage(m *models.Message) error {
	f.mu.Lock()
	f.saved = append(f.saved, m)
	f.mu.Unlock()
	return f.record("message:" + m.Content)
}

func (f *fakeStore) UpdateMessage(m *models.Message) error { return f.record("update:" + m.Content) }

func (f *fakeStore) SaveReaction(r *models.Reaction) error { return f.record("reaction:" + r.Emoji) }

func (f *fakeStore) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

func TestArchiver_WritesInOrder(t *testing.T) {
	store := &fakeStore{}
	a := NewArchiver(store, 16)
	ctx, cancel := context.WithCancel(context.Background())
	go a.Run(ctx)

	id := uuid.New()
	a.RoomCreated(coordinator.Room{Name: "General"})
	a.MessageAppended(coordinator.Message{ID: id, Room: "General", Seq: 1, Body: "hi"})
	a.MessageChanged(coordinator.Message{ID: id, Room: "General", Seq: 1, Body: "hello"})
	a.ReactionAdded(coordinator.Reaction{MessageID: id, Emoji: "👍"})

	require.Eventually(t, func() bool { return len(store.recorded()) == 4 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"room:General", "message:hi", "update:hello", "reaction:👍"}, store.recorded())

	cancel()
	<-a.Done()
	a.RoomCreated(coordinator.Room{Name: "Late"})
	assert.Len(t, store.recorded(), 4, "writes after shutdown are dropped")
}

func TestArchiver_FullBufferDoesNotBlock(t *testing.T) {
	store := &fakeStore{}
	a := NewArchiver(store, 2)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			a.RoomCreated(coordinator.Room{Name: "r"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full buffer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a.Run(ctx)
	assert.Len(t, store.recorded(), 2, "buffered writes are flushed on shutdown")
}

func TestArchiver_StoreErrorsAreLogged(t *testing.T) {
	store := &fakeStore{fail: true}
	a := NewArchiver(store, 4)
	a.MessageAppended(coordinator.Message{ID: uuid.New(), Body: "x"})
	a.MessageAppended(coordinator.Message{ID: uuid.New(), Body: "y"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a.Run(ctx)
	assert.Equal(t, []string{"message:x", "message:y"}, store.recorded())
}

func TestMessageConversion(t *testing.T) {
	edited := time.Now()
	id := uuid.New()
	msg := coordinator.Message{
		ID:         id,
		Seq:        7,
		Room:       "Study-Group",
		AuthorID:   "ua",
		AuthorName: "A",
		Type:       coordinator.MessageImage,
		FileRef:    "/files/abc",
		Mime:       "image/png",
		CreatedAt:  edited.Add(-time.Minute),
		EditedAt:   &edited,
	}

	m := messageToModel(msg)
	assert.Equal(t, "Study-Group", m.RoomName)
	assert.Equal(t, "image", m.Type)

	m.Reactions = []models.Reaction{*reactionToModel(coordinator.Reaction{MessageID: id, Emoji: "🎉", ByUser: "ub", Username: "B"})}
	back := messageFromModel(*m)
	require.Len(t, back.Reactions, 1)
	assert.Equal(t, "Study-Group", back.Reactions[0].Room)
	assert.Equal(t, "ub", back.Reactions[0].ByUser)

	back.Reactions = nil
	assert.Equal(t, msg, back)
}

func TestRoomConversion_UnknownCategory(t *testing.T) {
	r := roomFromModel(models.Room{Name: "X", Category: "Cooking"})
	assert.Equal(t, coordinator.CategoryOther, r.Category)
	assert.Equal(t, "Other", roomToModel(r).Category)
}
