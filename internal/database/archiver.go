package database

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/thereayou/voxus/internal/coordinator"
	"github.com/thereayou/voxus/internal/models"
)

// Store - операции записи, которые нужны архиватору
type Store interface {
	SaveRoom(room *models.Room) error
	SaveMessage(message *models.Message) error
	UpdateMessage(message *models.Message) error
	SaveReaction(reaction *models.Reaction) error
}

type job struct {
	op  string
	run func(Store) error
}

// Archiver реализует coordinator.Archive: изменения встают в буфер и пишутся
// одной горутиной в порядке поступления. Переполненный буфер теряет запись,
// координатор при этом не ждёт базу.
type Archiver struct {
	store  Store
	jobs   chan job
	done   chan struct{}
	closed atomic.Bool
}

var _ coordinator.Archive = (*Archiver)(nil)

func NewArchiver(store Store, buffer int) *Archiver {
	if buffer <= 0 {
		buffer = 1024
	}
	return &Archiver{
		store: store,
		jobs:  make(chan job, buffer),
		done:  make(chan struct{}),
	}
}

func (a *Archiver) RoomCreated(room coordinator.Room) {
	m := roomToModel(room)
	a.enqueue(job{op: "save room", run: func(s Store) error { return s.SaveRoom(m) }})
}

func (a *Archiver) MessageAppended(msg coordinator.Message) {
	m := messageToModel(msg)
	a.enqueue(job{op: "save message", run: func(s Store) error { return s.SaveMessage(m) }})
}

func (a *Archiver) MessageChanged(msg coordinator.Message) {
	m := messageToModel(msg)
	a.enqueue(job{op: "update message", run: func(s Store) error { return s.UpdateMessage(m) }})
}

func (a *Archiver) ReactionAdded(r coordinator.Reaction) {
	m := reactionToModel(r)
	a.enqueue(job{op: "save reaction", run: func(s Store) error { return s.SaveReaction(m) }})
}

func (a *Archiver) enqueue(j job) {
	if a.closed.Load() {
		slog.Warn("archive closed, dropping write", "op", j.op)
		return
	}
	select {
	case a.jobs <- j:
	default:
		slog.Warn("archive buffer full, dropping write", "op", j.op)
	}
}

// Run пишет изменения до отмены ctx, затем дописывает то, что осталось в буфере
func (a *Archiver) Run(ctx context.Context) {
	defer close(a.done)
	for {
		select {
		case j := <-a.jobs:
			a.exec(j)
		case <-ctx.Done():
			a.closed.Store(true)
			for {
				select {
				case j := <-a.jobs:
					a.exec(j)
				default:
					return
				}
			}
		}
	}
}

// Done закрывается, когда Run завершился
func (a *Archiver) Done() <-chan struct{} {
	return a.done
}

func (a *Archiver) exec(j job) {
	if err := j.run(a.store); err != nil {
		slog.Error("archive write failed", "op", j.op, "err", err)
	}
}
