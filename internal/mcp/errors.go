package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/chunking/internal/domain/activity"
	"github.com/rpggio/chunking/internal/domain/chat"
	"github.com/rpggio/chunking/internal/domain/project"
	"github.com/rpggio/chunking/internal/domain/session"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "project name is required", RecoveryHint: "Provide a non-blank name"}
	case errors.Is(err, project.ErrUnknownList):
		return &APIError{Code: "UNKNOWN_LIST", Message: "unknown project list", RecoveryHint: "Use current or finished"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid indexes"}
	case errors.Is(err, project.ErrTaskNotFound):
		return &APIError{Code: "TASK_NOT_FOUND", Message: "task not found", RecoveryHint: "Task index is 0 (Research), 1 (Planning) or 2 (Execution)"}
	case errors.Is(err, session.ErrConversationNotFound):
		return &APIError{Code: "CONVERSATION_NOT_FOUND", Message: "conversation not found", RecoveryHint: "Call start_conversation first"}
	case errors.Is(err, session.ErrAssistantDisabled):
		return &APIError{Code: "ASSISTANT_DISABLED", Message: "assistant not configured", RecoveryHint: "Set OPENAI_API_KEY or CHUNKING_RELAY_URL"}
	case errors.Is(err, chat.ErrEmptyMessage):
		return &APIError{Code: "EMPTY_MESSAGE", Message: "message text is required"}
	case errors.Is(err, chat.ErrAssistantUnavailable):
		return &APIError{Code: "ASSISTANT_UNAVAILABLE", Message: "unable to reach the assistant", RecoveryHint: "Retry later"}
	case errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid activity query"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
