// Package coordinator - ядро чата: каталог комнат, присутствие, журнал
// сообщений, индикатор набора текста и приглашения.
//
// Каждая комната - отдельная точка сериализации. Операции над двумя комнатами
// (переход, отключение) держат обе блокировки сразу. Порядок захвата:
// пользователь -> комнаты (по имени) -> Publisher.
package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Archive получает изменения для фоновой записи. Методы вызываются под
// блокировкой комнаты и не должны ждать ввода-вывода.
type Archive interface {
	RoomCreated(room Room)
	MessageAppended(msg Message)
	MessageChanged(msg Message)
	ReactionAdded(r Reaction)
}

type Options struct {
	QuietPeriod       time.Duration
	HistoryLimit      int
	MaxMessageLength  int
	MaxRoomNameLength int
	Archive           Archive
}

func (o *Options) setDefaults() {
	if o.QuietPeriod <= 0 {
		o.QuietPeriod = time.Second
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = 50
	}
	if o.MaxMessageLength <= 0 {
		o.MaxMessageLength = 2000
	}
	if o.MaxRoomNameLength <= 0 {
		o.MaxRoomNameLength = 50
	}
	if o.Archive == nil {
		o.Archive = nopArchive{}
	}
}

type Coordinator struct {
	opts     Options
	pub      Publisher
	archive  Archive
	rooms    *Registry
	presence *Presence

	// id сообщения -> *room
	index sync.Map
}

func New(pub Publisher, opts Options) *Coordinator {
	opts.setDefaults()
	if pub == nil {
		pub = nopPublisher{}
	}
	return &Coordinator{
		opts:     opts,
		pub:      pub,
		archive:  opts.Archive,
		rooms:    newRegistry(),
		presence: newPresence(),
	}
}

// Restore загружает сохранённые комнаты и сообщения без рассылки событий.
// Сообщения неизвестных комнат пропускаются.
func (c *Coordinator) Restore(rooms []Room, messages []Message) {
	for _, info := range rooms {
		c.rooms.create(info)
	}
	for i := range messages {
		m := messages[i]
		r, ok := c.rooms.get(m.Room)
		if !ok {
			continue
		}
		r.mu.Lock()
		if r.log.restore(&m) {
			c.index.Store(m.ID, r)
		}
		r.mu.Unlock()
	}
}

func (c *Coordinator) lookupMessage(id uuid.UUID) (*room, bool) {
	v, ok := c.index.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*room), true
}

// user возвращает подключённого пользователя
func (c *Coordinator) user(userID string) (User, error) {
	u, _, ok := c.presence.current(userID)
	if !ok {
		return User{}, ErrNotConnected
	}
	return u, nil
}

func (c *Coordinator) publishRoom(r *room, t EventType, payload any) {
	c.pub.Publish(Event{Type: t, Room: r.info.Name, Recipients: r.recipients(), Payload: payload})
}

func (c *Coordinator) publishRoster(r *room) {
	c.publishRoom(r, EventUpdateUsers, UsersPayload{Room: r.info.Name, Users: r.roster()})
}

func (c *Coordinator) sendHistory(r *room, u User) {
	c.pub.Publish(Event{
		Type:       EventHistory,
		Room:       r.info.Name,
		Recipients: []string{u.ID},
		Payload:    HistoryPayload{Room: r.info.Name, Messages: r.log.page(c.opts.HistoryLimit, 0)},
	})
}

// Roster возвращает полный состав комнаты в порядке входа
func (c *Coordinator) Roster(_ context.Context, roomName string) ([]User, error) {
	r, ok := c.rooms.get(roomName)
	if !ok {
		return nil, ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roster(), nil
}

// History возвращает страницу истории комнаты
func (c *Coordinator) History(_ context.Context, roomName string, limit int, before uint64) ([]Message, error) {
	r, ok := c.rooms.get(roomName)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if limit <= 0 {
		limit = c.opts.HistoryLimit
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.page(limit, before), nil
}

// CurrentRoom возвращает комнату пользователя; ok=false, если он офлайн
func (c *Coordinator) CurrentRoom(userID string) (string, bool) {
	_, roomName, ok := c.presence.current(userID)
	return roomName, ok
}

// Online возвращает подключённых пользователей, отсортированных по имени
func (c *Coordinator) Online() []User {
	return c.presence.online()
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}

type nopArchive struct{}

func (nopArchive) RoomCreated(Room)       {}
func (nopArchive) MessageAppended(Message) {}
func (nopArchive) MessageChanged(Message)  {}
func (nopArchive) ReactionAdded(Reaction)  {}
