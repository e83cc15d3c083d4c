package coordinator

import (
	"sort"
	"sync"
)

// room - единица сериализации: все изменения состава, журнала сообщений
// и набора печатающих проходят под room.mu.
type room struct {
	mu      sync.Mutex
	info    Room
	members []User
	log     *messageLog
	typers  map[string]*typingEntry
	gen     uint64
}

func newRoom(info Room) *room {
	return &room{
		info:   info,
		log:    newMessageLog(),
		typers: make(map[string]*typingEntry),
	}
}

func (r *room) indexOf(userID string) int {
	for i, m := range r.members {
		if m.ID == userID {
			return i
		}
	}
	return -1
}

func (r *room) isMember(userID string) bool {
	return r.indexOf(userID) >= 0
}

func (r *room) addMember(u User) {
	if r.isMember(u.ID) {
		return
	}
	r.members = append(r.members, u)
}

func (r *room) removeMember(userID string) bool {
	i := r.indexOf(userID)
	if i < 0 {
		return false
	}
	r.members = append(r.members[:i], r.members[i+1:]...)
	return true
}

// roster - полный список участников в порядке входа
func (r *room) roster() []User {
	return append([]User{}, r.members...)
}

func (r *room) recipients() []string {
	ids := make([]string, len(r.members))
	for i, m := range r.members {
		ids[i] = m.ID
	}
	return ids
}

// Registry - каталог комнат в порядке создания
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*room
	order []*room
}

func newRegistry() *Registry {
	return &Registry{rooms: make(map[string]*room)}
}

func (g *Registry) create(info Room) (*room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.rooms[info.Name]; ok {
		return nil, ErrDuplicateName
	}
	r := newRoom(info)
	g.rooms[info.Name] = r
	g.order = append(g.order, r)
	return r, nil
}

func (g *Registry) get(name string) (*room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[name]
	return r, ok
}

func (g *Registry) list() []*room {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]*room(nil), g.order...)
}

// lockRooms захватывает блокировки комнат в порядке имён, nil пропускаются.
// Все операции над несколькими комнатами обязаны идти через неё.
func lockRooms(rooms ...*room) func() {
	set := make([]*room, 0, len(rooms))
	seen := make(map[*room]bool, len(rooms))
	for _, r := range rooms {
		if r != nil && !seen[r] {
			seen[r] = true
			set = append(set, r)
		}
	}
	sort.Slice(set, func(i, j int) bool { return set[i].info.Name < set[j].info.Name })

	for _, r := range set {
		r.mu.Lock()
	}
	return func() {
		for i := len(set) - 1; i >= 0; i-- {
			set[i].mu.Unlock()
		}
	}
}
