package coordinator

import (
	"sort"

	"github.com/google/uuid"
)

// messageLog - упорядоченная по seq история комнаты. Удалённые сообщения
// остаются в журнале как tombstone, сообщения из журнала не вытесняются,
// поэтому id и порядок стабильны.
type messageLog struct {
	items []*Message
	byID  map[uuid.UUID]*Message
	next  uint64
}

func newMessageLog() *messageLog {
	return &messageLog{
		byID: make(map[uuid.UUID]*Message),
		next: 1,
	}
}

// append присваивает сообщению следующий seq
func (l *messageLog) append(m *Message) {
	m.Seq = l.next
	l.next++
	l.items = append(l.items, m)
	l.byID[m.ID] = m
}

// restore вставляет сообщение с уже известным seq. Возвращает false для дубля.
func (l *messageLog) restore(m *Message) bool {
	if _, ok := l.byID[m.ID]; ok {
		return false
	}
	i := sort.Search(len(l.items), func(i int) bool { return l.items[i].Seq >= m.Seq })
	l.items = append(l.items, nil)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = m
	l.byID[m.ID] = m
	if m.Seq >= l.next {
		l.next = m.Seq + 1
	}
	return true
}

func (l *messageLog) get(id uuid.UUID) *Message {
	return l.byID[id]
}

// page возвращает до limit последних сообщений с seq < before (before=0 - без границы)
func (l *messageLog) page(limit int, before uint64) []Message {
	end := len(l.items)
	if before > 0 {
		end = sort.Search(len(l.items), func(i int) bool { return l.items[i].Seq >= before })
	}
	start := 0
	if limit > 0 && end-limit > 0 {
		start = end - limit
	}

	out := make([]Message, 0, end-start)
	for _, m := range l.items[start:end] {
		out = append(out, m.clone())
	}
	return out
}
