package coordinator

import (
	"sort"
	"sync"
)

type session struct {
	user  User
	conns int
	room  string
}

// Presence хранит онлайн-пользователей и текущую комнату каждого.
// Один пользователь может держать несколько соединений, они делят одну комнату.
type Presence struct {
	mu       sync.Mutex
	sessions map[string]*session
	byName   map[string]string
	locks    keyedMutex
}

func newPresence() *Presence {
	return &Presence{
		sessions: make(map[string]*session),
		byName:   make(map[string]string),
		locks:    keyedMutex{m: make(map[string]*keyedEntry)},
	}
}

// lockUser сериализует изменения членства одного пользователя
func (p *Presence) lockUser(userID string) func() {
	return p.locks.Lock(userID)
}

// connect добавляет соединение. Пока сессия жива, имя пользователя не меняется:
// новое соединение того же id с другим именем отклоняется.
func (p *Presence) connect(u User) (first bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if owner, ok := p.byName[u.Username]; ok && owner != u.ID {
		return false, ErrUsernameTaken
	}
	s, ok := p.sessions[u.ID]
	if ok && s.user.Username != u.Username {
		return false, ErrUsernameTaken
	}
	if !ok {
		s = &session{user: u}
		p.sessions[u.ID] = s
		p.byName[u.Username] = u.ID
	}
	s.conns++
	return !ok, nil
}

// disconnect снимает одно соединение; last=true, если оно было последним
func (p *Presence) disconnect(userID string) (s session, last bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur, ok := p.sessions[userID]
	if !ok {
		return session{}, false
	}
	cur.conns--
	if cur.conns > 0 {
		return *cur, false
	}
	delete(p.sessions, userID)
	if p.byName[cur.user.Username] == userID {
		delete(p.byName, cur.user.Username)
	}
	return *cur, true
}

func (p *Presence) current(userID string) (User, string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.sessions[userID]
	if !ok {
		return User{}, "", false
	}
	return s.user, s.room, true
}

func (p *Presence) setRoom(userID, room string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.sessions[userID]; ok {
		s.room = room
	}
}

func (p *Presence) lookup(username string) (User, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, ok := p.byName[username]
	if !ok {
		return User{}, false
	}
	return p.sessions[id].user, true
}

func (p *Presence) online() []User {
	p.mu.Lock()
	defer p.mu.Unlock()

	users := make([]User, 0, len(p.sessions))
	for _, s := range p.sessions {
		users = append(users, s.user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

// keyedMutex - мьютекс на ключ; записи удаляются, когда их никто не держит
type keyedMutex struct {
	mu sync.Mutex
	m  map[string]*keyedEntry
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.m[key]
	if !ok {
		e = &keyedEntry{}
		k.m[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.m, key)
		}
		k.mu.Unlock()
	}
}
