package autogroup

import "errors"

// Configuration errors
var (
	ErrMissingAPIID   = errors.New("autogroup: API ID is required")
	ErrMissingAPIHash = errors.New("autogroup: API hash is required")
	ErrMissingStore   = errors.New("autogroup: association store is required")
	ErrMissingBot     = errors.New("autogroup: bridge bot is required")
)

// Runtime errors
var (
	ErrNotAuthorized  = errors.New("autogroup: user session is not authorized, run login first")
	ErrClientClosed   = errors.New("autogroup: client is closed")
	ErrAlreadyRunning = errors.New("autogroup: client is already running")
	ErrChatNotCreated = errors.New("autogroup: created chat not found in updates")
	ErrBotNotResolved = errors.New("autogroup: bridge bot could not be resolved")
	ErrInvalidChatKey = errors.New("autogroup: invalid chat key")
	ErrNoPicture      = errors.New("autogroup: chat has no picture")
	ErrUnknownChat    = errors.New("autogroup: unknown chat")
)
