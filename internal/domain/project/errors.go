package project

import "errors"

var (
	// ErrInvalidInput indicates invalid project input, such as a blank name.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrProjectNotFound indicates the project index is outside its list.
	ErrProjectNotFound = errors.New("project not found")
	// ErrTaskNotFound indicates the task index is outside the project's checklist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrUnknownList indicates a list kind other than current or finished.
	ErrUnknownList = errors.New("unknown project list")
)
