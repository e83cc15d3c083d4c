package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/thereayou/voxus/internal/coordinator"
	"github.com/thereayou/voxus/internal/handlers/dto"
	"github.com/thereayou/voxus/internal/websocket"
)

const commandTimeout = 5 * time.Second

// CommandHandler исполняет команды WebSocket через координатор
type CommandHandler struct {
	coord    *coordinator.Coordinator
	validate *validator.Validate
}

func NewCommandHandler(coord *coordinator.Coordinator) *CommandHandler {
	return &CommandHandler{
		coord:    coord,
		validate: validator.New(),
	}
}

func (h *CommandHandler) HandleMessage(client *websocket.Client, msg *websocket.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch msg.Type {
	case websocket.TypePing:
		return client.SendMessage(websocket.TypePong, "", nil)

	case websocket.TypeJoin:
		var p dto.RoomPayload
		if err := h.decode(msg, &p, &p.Room); err != nil {
			return err
		}
		return h.coord.Join(ctx, client.User.ID, p.Room)

	case websocket.TypeLeave:
		var p dto.RoomPayload
		if err := h.decode(msg, &p, &p.Room); err != nil {
			return err
		}
		// выход из комнаты, где пользователя уже нет, не ошибка
		if err := h.coord.Leave(ctx, client.User.ID, p.Room); err != nil && !errors.Is(err, coordinator.ErrNotMember) {
			return err
		}
		return nil

	case websocket.TypeMessage:
		var p dto.MessagePayload
		if err := h.decode(msg, &p, &p.Room); err != nil {
			return err
		}
		_, err := h.coord.Send(ctx, client.User.ID, p.Room, coordinator.Draft{
			Type:    coordinator.MessageType(p.Type),
			Body:    p.Content,
			FileRef: p.FileRef,
			Mime:    p.Mime,
		})
		return err

	case websocket.TypeEditMessage:
		var p dto.EditPayload
		if err := h.decode(msg, &p, nil); err != nil {
			return err
		}
		_, err := h.coord.Edit(ctx, client.User.ID, p.MessageID, p.Content)
		return err

	case websocket.TypeDeleteMessage:
		var p dto.DeletePayload
		if err := h.decode(msg, &p, &p.Room); err != nil {
			return err
		}
		return h.coord.Delete(ctx, client.User.ID, p.MessageID, p.Room)

	case websocket.TypeReact:
		var p dto.ReactPayload
		if err := h.decode(msg, &p, nil); err != nil {
			return err
		}
		_, err := h.coord.React(ctx, client.User.ID, p.MessageID, p.Emoji)
		return err

	case websocket.TypeTyping:
		var p dto.TypingPayload
		if err := h.decode(msg, &p, &p.Room); err != nil {
			return err
		}
		return h.coord.SetTyping(ctx, client.User.ID, p.Room, p.Typing)

	case websocket.TypeCreateRoom:
		var p dto.CreateRoomPayload
		if err := h.decode(msg, &p, nil); err != nil {
			return err
		}
		_, err := h.coord.CreateRoom(ctx, client.User, coordinator.RoomSpec{
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			IsPrivate:   p.IsPrivate,
		})
		return err

	case websocket.TypeInvite:
		var p dto.InvitePayload
		if err := h.decode(msg, &p, &p.Room); err != nil {
			return err
		}
		return h.coord.Invite(ctx, client.User.ID, p.ToUser, p.Room)

	case websocket.TypeInviteResponse:
		var p dto.InviteResponsePayload
		if err := h.decode(msg, &p, &p.Room); err != nil {
			return err
		}
		return h.coord.RespondInvite(ctx, client.User.ID, p.Room, p.Accept)

	default:
		return fmt.Errorf("%w: %s", websocket.ErrUnknownCommand, msg.Type)
	}
}

// decode разбирает data команды и проверяет теги validate.
// room, если не nil, заполняется из конверта при пустом значении в data.
func (h *CommandHandler) decode(msg *websocket.Message, payload any, room *string) error {
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, payload); err != nil {
			return fmt.Errorf("%w: %v", websocket.ErrInvalidMessage, err)
		}
	}
	if room != nil && *room == "" {
		*room = msg.Room
	}
	if err := h.validate.Struct(payload); err != nil {
		return fmt.Errorf("%w: %v", websocket.ErrInvalidMessage, err)
	}
	return nil
}
