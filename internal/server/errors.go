package server

import "errors"

// Feed errors
var (
	ErrFeedClosed        = errors.New("feed is closed")
	ErrMaxClientsReached = errors.New("maximum clients reached")
	ErrInvalidMessage    = errors.New("invalid message")
	ErrInvalidConfig     = errors.New("invalid feed configuration")
	ErrListenerFailed    = errors.New("failed to create listener")
)
