package coordinator

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

func (c *Coordinator) checkBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) > c.opts.MaxMessageLength {
		return "", ErrMessageTooLong
	}
	return emojize(body), nil
}

func (c *Coordinator) checkDraft(d Draft) (Draft, error) {
	if d.Type == "" {
		d.Type = MessageText
	}
	if !d.Type.valid() {
		return d, ErrInvalidMessageType
	}
	body, err := c.checkBody(d.Body)
	if err != nil {
		return d, err
	}
	d.Body = body

	switch d.Type {
	case MessageText:
		if d.Body == "" {
			return d, ErrEmptyMessage
		}
		d.FileRef, d.Mime = "", ""
	default:
		d.FileRef = strings.TrimSpace(d.FileRef)
		if d.FileRef == "" {
			return d, ErrEmptyMessage
		}
	}
	return d, nil
}

// Send добавляет сообщение в журнал комнаты. Отправитель должен находиться в ней.
func (c *Coordinator) Send(_ context.Context, userID, roomName string, d Draft) (Message, error) {
	d, err := c.checkDraft(d)
	if err != nil {
		return Message{}, err
	}
	u, err := c.user(userID)
	if err != nil {
		return Message{}, err
	}
	r, ok := c.rooms.get(roomName)
	if !ok {
		return Message{}, ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isMember(userID) {
		return Message{}, ErrNotMember
	}

	m := &Message{
		ID:         uuid.New(),
		Room:       r.info.Name,
		AuthorID:   u.ID,
		AuthorName: u.Username,
		Type:       d.Type,
		Body:       d.Body,
		FileRef:    d.FileRef,
		Mime:       d.Mime,
		CreatedAt:  time.Now(),
	}
	r.log.append(m)
	c.index.Store(m.ID, r)

	out := m.clone()
	c.archive.MessageAppended(out)
	c.stopTypingLocked(r, u)
	c.publishRoom(r, EventMessage, out)
	return out, nil
}

// Edit заменяет текст сообщения. Разрешено только автору и только до удаления.
func (c *Coordinator) Edit(_ context.Context, userID string, messageID uuid.UUID, body string) (Message, error) {
	body, err := c.checkBody(body)
	if err != nil {
		return Message{}, err
	}
	r, ok := c.lookupMessage(messageID)
	if !ok {
		return Message{}, ErrMessageNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.log.get(messageID)
	if m == nil {
		return Message{}, ErrMessageNotFound
	}
	if m.AuthorID != userID {
		return Message{}, ErrNotAuthor
	}
	if m.Deleted {
		return Message{}, ErrAlreadyDeleted
	}
	if body == "" && m.Type == MessageText {
		return Message{}, ErrEmptyMessage
	}

	now := time.Now()
	m.Body = body
	m.EditedAt = &now

	out := m.clone()
	c.archive.MessageChanged(out)
	c.publishRoom(r, EventMessageEdited, out)
	return out, nil
}

// Delete - мягкое удаление: сообщение становится tombstone, событие
// message_deleted рассылается ровно один раз.
func (c *Coordinator) Delete(_ context.Context, userID string, messageID uuid.UUID, roomName string) error {
	r, ok := c.lookupMessage(messageID)
	if !ok {
		return ErrMessageNotFound
	}
	if roomName != "" && roomName != r.info.Name {
		return ErrMessageNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.log.get(messageID)
	if m == nil {
		return ErrMessageNotFound
	}
	if m.AuthorID != userID {
		return ErrNotAuthor
	}
	if m.Deleted {
		return ErrAlreadyDeleted
	}

	m.Deleted = true
	m.Body, m.FileRef, m.Mime = "", "", ""

	c.archive.MessageChanged(m.clone())
	c.publishRoom(r, EventMessageDeleted, MessageDeletedPayload{MessageID: m.ID, Room: m.Room, Seq: m.Seq})
	return nil
}

// React добавляет реакцию. Повторы не схлопываются.
func (c *Coordinator) React(_ context.Context, userID string, messageID uuid.UUID, emoji string) (Reaction, error) {
	e, err := normalizeEmoji(emoji)
	if err != nil {
		return Reaction{}, err
	}
	u, err := c.user(userID)
	if err != nil {
		return Reaction{}, err
	}
	r, ok := c.lookupMessage(messageID)
	if !ok {
		return Reaction{}, ErrMessageNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.log.get(messageID)
	if m == nil || m.Deleted {
		return Reaction{}, ErrMessageNotFound
	}
	if !r.isMember(userID) {
		return Reaction{}, ErrNotMember
	}

	rc := Reaction{
		MessageID: m.ID,
		Room:      m.Room,
		Emoji:     e,
		ByUser:    u.ID,
		Username:  u.Username,
		CreatedAt: time.Now(),
	}
	m.Reactions = append(m.Reactions, rc)

	c.archive.ReactionAdded(rc)
	c.publishRoom(r, EventReactionUpdate, rc)
	return rc, nil
}
