package coordinator

import (
	"context"
	"sort"
	"time"
)

type typingEntry struct {
	user    User
	gen     uint64
	expires time.Time
	timer   *time.Timer
}

// SetTyping включает или снимает индикатор набора. Серия true от одного
// пользователя продлевает единственный таймер и даёт одно событие typing=true.
func (c *Coordinator) SetTyping(_ context.Context, userID, roomName string, typing bool) error {
	u, err := c.user(userID)
	if err != nil {
		return err
	}
	r, ok := c.rooms.get(roomName)
	if !ok {
		return ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isMember(userID) {
		return ErrNotMember
	}
	if typing {
		c.startTypingLocked(r, u)
	} else {
		c.stopTypingLocked(r, u)
	}
	return nil
}

// Typing возвращает тех, кто сейчас печатает в комнате
func (c *Coordinator) Typing(_ context.Context, roomName string) ([]User, error) {
	r, ok := c.rooms.get(roomName)
	if !ok {
		return nil, ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]User, 0, len(r.typers))
	for _, e := range r.typers {
		users = append(users, e.user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (c *Coordinator) startTypingLocked(r *room, u User) {
	r.gen++
	gen := r.gen

	e, ok := r.typers[u.ID]
	if ok {
		e.timer.Stop()
	} else {
		e = &typingEntry{user: u}
		r.typers[u.ID] = e
	}
	e.gen = gen
	e.expires = time.Now().Add(c.opts.QuietPeriod)
	e.timer = time.AfterFunc(c.opts.QuietPeriod, func() { c.expireTyping(r, u.ID, gen) })

	if !ok {
		c.publishTyping(r, u, true)
	}
}

func (c *Coordinator) stopTypingLocked(r *room, u User) {
	e, ok := r.typers[u.ID]
	if !ok {
		return
	}
	e.timer.Stop()
	delete(r.typers, u.ID)
	c.publishTyping(r, e.user, false)
}

// expireTyping срабатывает по таймеру; устаревшие поколения игнорируются
func (c *Coordinator) expireTyping(r *room, userID string, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.typers[userID]
	if !ok || e.gen != gen {
		return
	}
	delete(r.typers, userID)
	c.publishTyping(r, e.user, false)
}

func (c *Coordinator) publishTyping(r *room, u User, typing bool) {
	c.publishRoom(r, EventTypingStatus, TypingPayload{
		Room:     r.info.Name,
		ByUser:   u.ID,
		Username: u.Username,
		Typing:   typing,
	})
}
