package coordinator

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

type RoomSpec struct {
	Name        string
	Description string
	Category    string
	IsPrivate   bool
}

// CreateRoom регистрирует комнату и сообщает о ней всем сессиям.
// Создатель в комнату не входит.
func (c *Coordinator) CreateRoom(_ context.Context, creator User, spec RoomSpec) (Room, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" || utf8.RuneCountInString(name) > c.opts.MaxRoomNameLength {
		return Room{}, ErrInvalidRoomName
	}

	info := Room{
		Name:        name,
		Description: strings.TrimSpace(spec.Description),
		Category:    ParseCategory(spec.Category),
		CreatedBy:   creator.Username,
		IsPrivate:   spec.IsPrivate,
		CreatedAt:   time.Now(),
	}
	if _, err := c.rooms.create(info); err != nil {
		return Room{}, err
	}

	c.archive.RoomCreated(info)
	c.pub.Publish(Event{
		Type:      EventRoomCreated,
		Room:      info.Name,
		Broadcast: true,
		Payload: RoomCreatedPayload{
			Room:        info.Name,
			Description: info.Description,
			Category:    info.Category,
			CreatedBy:   info.CreatedBy,
			IsPrivate:   info.IsPrivate,
		},
	})
	return info, nil
}

// EnsureRoom создаёт комнату, если её ещё нет. Используется для комнаты по умолчанию.
func (c *Coordinator) EnsureRoom(info Room) {
	if info.CreatedAt.IsZero() {
		info.CreatedAt = time.Now()
	}
	info.Category = ParseCategory(string(info.Category))
	if _, err := c.rooms.create(info); err == nil {
		c.archive.RoomCreated(info)
	}
}

// ListRooms возвращает комнаты в порядке создания
func (c *Coordinator) ListRooms(_ context.Context) []Room {
	list := c.rooms.list()
	out := make([]Room, len(list))
	for i, r := range list {
		out[i] = r.info
	}
	return out
}

// Directory - снимок каталога с числом участников. Блокирует все комнаты
// сразу, поэтому переход между комнатами не виден в снимке наполовину.
func (c *Coordinator) Directory(_ context.Context) []RoomSummary {
	list := c.rooms.list()
	unlock := lockRooms(list...)
	defer unlock()

	out := make([]RoomSummary, len(list))
	for i, r := range list {
		out[i] = RoomSummary{Room: r.info, UsersCount: len(r.members)}
	}
	return out
}
