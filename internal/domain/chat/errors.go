package chat

import "errors"

var (
	// ErrAssistantUnavailable wraps every gateway failure: network errors,
	// upstream errors and malformed or empty responses.
	ErrAssistantUnavailable = errors.New("assistant unavailable")
	// ErrEmptyMessage indicates a blank user message.
	ErrEmptyMessage = errors.New("empty message")
)
