package session

import "errors"

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrAssistantDisabled    = errors.New("assistant not configured")
)
