package coordinator

import (
	"context"
	"time"
)

// Invite доставляет приглашение только адресату, состав комнат не меняется.
// Приглашения не хранятся: у них нет срока действия и защиты от повтора.
func (c *Coordinator) Invite(_ context.Context, fromID, toUsername, roomName string) error {
	from, err := c.user(fromID)
	if err != nil {
		return err
	}
	if _, ok := c.rooms.get(roomName); !ok {
		return ErrRoomNotFound
	}
	to, ok := c.presence.lookup(toUsername)
	if !ok {
		return ErrTargetOffline
	}

	c.pub.Publish(Event{
		Type:       EventInvited,
		Room:       roomName,
		Recipients: []string{to.ID},
		Payload: InvitedPayload{
			From:     from.Username,
			FromID:   from.ID,
			Room:     roomName,
			IssuedAt: time.Now(),
		},
	})
	return nil
}

// RespondInvite: согласие - атомарный переход в комнату, отказ ничего не меняет
func (c *Coordinator) RespondInvite(ctx context.Context, userID, roomName string, accept bool) error {
	if _, err := c.user(userID); err != nil {
		return err
	}
	if !accept {
		return nil
	}
	return c.Join(ctx, userID, roomName)
}
