package websocket

import "errors"

var (
	ErrClientQueueFull = errors.New("client message queue is full")
	ErrClientGone      = errors.New("client is not registered")
	ErrInvalidMessage  = errors.New("invalid message format")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrHubStopped      = errors.New("hub is stopped")
)
