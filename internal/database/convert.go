package database

import (
	"github.com/thereayou/voxus/internal/coordinator"
	"github.com/thereayou/voxus/internal/models"
)

func roomToModel(r coordinator.Room) *models.Room {
	return &models.Room{
		Name:        r.Name,
		Description: r.Description,
		Category:    string(r.Category),
		CreatedBy:   r.CreatedBy,
		IsPrivate:   r.IsPrivate,
		CreatedAt:   r.CreatedAt,
	}
}

func roomFromModel(m models.Room) coordinator.Room {
	return coordinator.Room{
		Name:        m.Name,
		Description: m.Description,
		Category:    coordinator.ParseCategory(m.Category),
		CreatedBy:   m.CreatedBy,
		IsPrivate:   m.IsPrivate,
		CreatedAt:   m.CreatedAt,
	}
}

func messageToModel(m coordinator.Message) *models.Message {
	return &models.Message{
		ID:         m.ID,
		RoomName:   m.Room,
		Seq:        m.Seq,
		AuthorID:   m.AuthorID,
		AuthorName: m.AuthorName,
		Type:       string(m.Type),
		Content:    m.Body,
		FileRef:    m.FileRef,
		Mime:       m.Mime,
		Deleted:    m.Deleted,
		CreatedAt:  m.CreatedAt,
		EditedAt:   m.EditedAt,
	}
}

func messageFromModel(m models.Message) coordinator.Message {
	msg := coordinator.Message{
		ID:         m.ID,
		Seq:        m.Seq,
		Room:       m.RoomName,
		AuthorID:   m.AuthorID,
		AuthorName: m.AuthorName,
		Type:       coordinator.MessageType(m.Type),
		Body:       m.Content,
		FileRef:    m.FileRef,
		Mime:       m.Mime,
		CreatedAt:  m.CreatedAt,
		EditedAt:   m.EditedAt,
		Deleted:    m.Deleted,
	}
	for _, r := range m.Reactions {
		msg.Reactions = append(msg.Reactions, coordinator.Reaction{
			MessageID: r.MessageID,
			Room:      m.RoomName,
			Emoji:     r.Emoji,
			ByUser:    r.UserID,
			Username:  r.Username,
			CreatedAt: r.CreatedAt,
		})
	}
	return msg
}

func reactionToModel(r coordinator.Reaction) *models.Reaction {
	return &models.Reaction{
		MessageID: r.MessageID,
		Emoji:     r.Emoji,
		UserID:    r.ByUser,
		Username:  r.Username,
		CreatedAt: r.CreatedAt,
	}
}
