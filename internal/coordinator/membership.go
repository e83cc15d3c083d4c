package coordinator

import (
	"context"
	"fmt"
)

// Connect регистрирует соединение пользователя. Первое соединение
// рассылает user_status online.
func (c *Coordinator) Connect(_ context.Context, u User) error {
	unlock := c.presence.lockUser(u.ID)
	defer unlock()

	first, err := c.presence.connect(u)
	if err != nil {
		return err
	}
	if first {
		c.publishUserStatus(u, "online")
	}
	return nil
}

// Disconnect снимает соединение. После последнего соединения пользователь
// неявно покидает комнату, его индикатор набора сбрасывается.
func (c *Coordinator) Disconnect(_ context.Context, userID string) {
	unlock := c.presence.lockUser(userID)
	defer unlock()

	s, last := c.presence.disconnect(userID)
	if !last {
		return
	}
	if s.room != "" {
		if r, ok := c.rooms.get(s.room); ok {
			r.mu.Lock()
			c.removeLocked(r, s.user, fmt.Sprintf("%s has left the chat", s.user.Username))
			r.mu.Unlock()
		}
	}
	c.publishUserStatus(s.user, "offline")
}

// Join переводит пользователя в комнату. Повторный вход в текущую комнату
// ничего не меняет, но заново рассылает состав и историю.
func (c *Coordinator) Join(_ context.Context, userID, roomName string) error {
	unlock := c.presence.lockUser(userID)
	defer unlock()

	u, cur, ok := c.presence.current(userID)
	if !ok {
		return ErrNotConnected
	}
	target, ok := c.rooms.get(roomName)
	if !ok {
		return ErrRoomNotFound
	}

	if cur == roomName {
		target.mu.Lock()
		defer target.mu.Unlock()
		c.publishRoster(target)
		c.sendHistory(target, u)
		return nil
	}
	c.move(u, cur, target)
	return nil
}

// SwitchRoom - атомарный переход from -> to. Ни один наблюдатель не увидит
// пользователя сразу в двух комнатах или ни в одной.
func (c *Coordinator) SwitchRoom(ctx context.Context, userID, from, to string) error {
	unlock := c.presence.lockUser(userID)

	u, cur, ok := c.presence.current(userID)
	if !ok {
		unlock()
		return ErrNotConnected
	}
	if cur != from {
		unlock()
		return ErrNotMember
	}
	target, ok := c.rooms.get(to)
	if !ok {
		unlock()
		return ErrRoomNotFound
	}
	if from == to {
		unlock()
		return c.Join(ctx, userID, to)
	}
	defer unlock()
	c.move(u, cur, target)
	return nil
}

// move вызывается под блокировкой пользователя
func (c *Coordinator) move(u User, from string, target *room) {
	var old *room
	if from != "" {
		old, _ = c.rooms.get(from)
	}

	unlock := lockRooms(old, target)
	defer unlock()

	if old != nil {
		c.removeLocked(old, u, fmt.Sprintf("%s has left %s", u.Username, old.info.Name))
	}
	target.addMember(u)
	c.presence.setRoom(u.ID, target.info.Name)

	c.publishRoom(target, EventStatus, statusNow(fmt.Sprintf("%s has joined %s", u.Username, target.info.Name)))
	c.publishRoster(target)
	c.sendHistory(target, u)
}

// Leave выводит пользователя из комнаты. ErrNotMember не фатальна:
// отключение может обогнать явный выход.
func (c *Coordinator) Leave(_ context.Context, userID, roomName string) error {
	unlock := c.presence.lockUser(userID)
	defer unlock()

	u, cur, ok := c.presence.current(userID)
	if !ok {
		return ErrNotConnected
	}
	r, ok := c.rooms.get(roomName)
	if !ok {
		return ErrRoomNotFound
	}
	if cur != roomName {
		return ErrNotMember
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	c.removeLocked(r, u, fmt.Sprintf("%s has left %s", u.Username, r.info.Name))
	c.presence.setRoom(u.ID, "")
	return nil
}

// removeLocked вызывается под r.mu
func (c *Coordinator) removeLocked(r *room, u User, announce string) {
	if !r.removeMember(u.ID) {
		return
	}
	c.stopTypingLocked(r, u)
	c.publishRoom(r, EventStatus, statusNow(announce))
	c.publishRoster(r)
}

func (c *Coordinator) publishUserStatus(u User, status string) {
	c.pub.Publish(Event{
		Type:      EventUserStatus,
		Broadcast: true,
		Payload:   UserStatusPayload{UserID: u.ID, Username: u.Username, Status: status},
	})
}
