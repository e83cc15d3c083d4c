package database

import (
	"fmt"

	"github.com/thereayou/voxus/internal/coordinator"
)

// LoadSnapshot читает комнаты и полный журнал каждой из них, включая удалённые сообщения
func (d *Database) LoadSnapshot() ([]coordinator.Room, []coordinator.Message, error) {
	stored, err := d.ListRooms()
	if err != nil {
		return nil, nil, fmt.Errorf("list rooms: %w", err)
	}

	rooms := make([]coordinator.Room, 0, len(stored))
	var messages []coordinator.Message
	for _, r := range stored {
		rooms = append(rooms, roomFromModel(r))

		msgs, err := d.GetRoomMessages(r.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("load messages of %q: %w", r.Name, err)
		}
		for _, m := range msgs {
			messages = append(messages, messageFromModel(m))
		}
	}
	return rooms, messages, nil
}
