package coordinator

import "errors"

var (
	ErrDuplicateName   = errors.New("room name already taken")
	ErrRoomNotFound    = errors.New("room not found")
	ErrNotMember       = errors.New("user not in room")
	ErrNotAuthor       = errors.New("only the author can change this message")
	ErrAlreadyDeleted  = errors.New("message already deleted")
	ErrMessageNotFound = errors.New("message not found")
	ErrTargetOffline   = errors.New("invite target is offline")

	ErrInvalidRoomName    = errors.New("invalid room name")
	ErrEmptyMessage       = errors.New("message is empty")
	ErrMessageTooLong     = errors.New("message is too long")
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrInvalidEmoji       = errors.New("invalid emoji")

	ErrNotConnected  = errors.New("user is not connected")
	ErrUsernameTaken = errors.New("username is used by another session")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrDuplicateName, "duplicate_name"},
	{ErrRoomNotFound, "room_not_found"},
	{ErrNotMember, "not_member"},
	{ErrNotAuthor, "not_author"},
	{ErrAlreadyDeleted, "already_deleted"},
	{ErrMessageNotFound, "not_found"},
	{ErrTargetOffline, "target_offline"},
	{ErrInvalidRoomName, "invalid_room_name"},
	{ErrEmptyMessage, "empty_message"},
	{ErrMessageTooLong, "message_too_long"},
	{ErrInvalidMessageType, "invalid_message_type"},
	{ErrInvalidEmoji, "invalid_emoji"},
	{ErrNotConnected, "not_connected"},
	{ErrUsernameTaken, "username_taken"},
}

// Code возвращает стабильный код ошибки для клиента
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal"
}
