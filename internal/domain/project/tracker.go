package project

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name  string
	Goals string
	// Tasks holds the initial done flags for Research, Planning and Execution.
	Tasks [3]bool
}

// Tracker is the in-memory registry of current and finished projects.
// A project lives in exactly one of the two lists.
//
// Tracker is not safe for concurrent use; callers serialise intents.
type Tracker struct {
	current  []Project
	finished []Project

	formOpen bool
	goals    *Project

	logger *slog.Logger
}

// NewTracker creates an empty tracker.
func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tracker{logger: logger}
}

// OpenForm shows the creation form.
func (t *Tracker) OpenForm() { t.formOpen = true }

// CloseForm hides the creation form.
func (t *Tracker) CloseForm() { t.formOpen = false }

// FormOpen reports whether the creation form is shown.
func (t *Tracker) FormOpen() bool { return t.formOpen }

// CreateProject appends a new project to the current list and closes the
// creation form. A blank name fails with ErrInvalidInput and changes nothing.
func (t *Tracker) CreateProject(req CreateRequest) (Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Project{}, ErrInvalidInput
	}

	proj := Project{
		Name:  name,
		Goals: req.Goals,
		Tasks: make([]Task, len(TaskLabels)),
	}
	for i, label := range TaskLabels {
		proj.Tasks[i] = Task{Name: label, Done: req.Tasks[i]}
	}

	t.current = append(t.current, proj)
	t.formOpen = false

	return proj.clone(), nil
}

// ToggleTask flips one task and applies the promotion rule: a current
// project with every task done moves to finished, and a finished project
// with any task undone moves back to current.
//
// If the destination already holds a project with the same name, the move
// is not appended but the source entry is still removed. The result has
// Dropped set in that case.
func (t *Tracker) ToggleTask(kind ListKind, projectIndex, taskIndex int) (ToggleResult, error) {
	src, dst, err := t.lists(kind)
	if err != nil {
		return ToggleResult{}, err
	}
	if projectIndex < 0 || projectIndex >= len(*src) {
		return ToggleResult{}, fmt.Errorf("%w: %s[%d]", ErrProjectNotFound, kind, projectIndex)
	}
	proj := &(*src)[projectIndex]
	if taskIndex < 0 || taskIndex >= len(proj.Tasks) {
		return ToggleResult{}, fmt.Errorf("%w: %s task %d", ErrTaskNotFound, proj.Name, taskIndex)
	}

	proj.Tasks[taskIndex].Done = !proj.Tasks[taskIndex].Done

	result := ToggleResult{
		Project:    proj.clone(),
		From:       kind,
		List:       kind,
		Transition: TransitionNone,
	}

	var move bool
	switch kind {
	case ListCurrent:
		move = proj.AllDone()
		result.Transition = TransitionPromoted
	case ListFinished:
		move = !proj.AllDone()
		result.Transition = TransitionDemoted
	}
	if !move {
		result.Transition = TransitionNone
		return result, nil
	}

	moved := proj.clone()
	*src = slices.Delete(*src, projectIndex, projectIndex+1)
	result.List = other(kind)

	if containsName(*dst, moved.Name) {
		result.Dropped = true
		t.logger.Warn("project dropped by duplicate-name guard",
			"project", moved.Name, "from", kind, "to", result.List)
		return result, nil
	}
	*dst = append(*dst, moved)

	return result, nil
}

// Current returns a copy of the current list.
func (t *Tracker) Current() []Project { return cloneAll(t.current) }

// Finished returns a copy of the finished list.
func (t *Tracker) Finished() []Project { return cloneAll(t.finished) }

// ViewGoals selects a project whose goals are shown until CloseGoals.
func (t *Tracker) ViewGoals(kind ListKind, projectIndex int) (Project, error) {
	src, _, err := t.lists(kind)
	if err != nil {
		return Project{}, err
	}
	if projectIndex < 0 || projectIndex >= len(*src) {
		return Project{}, fmt.Errorf("%w: %s[%d]", ErrProjectNotFound, kind, projectIndex)
	}
	proj := (*src)[projectIndex].clone()
	t.goals = &proj
	return proj.clone(), nil
}

// CloseGoals clears the goals selection.
func (t *Tracker) CloseGoals() { t.goals = nil }

// Goals returns the project selected by ViewGoals, if any.
func (t *Tracker) Goals() (Project, bool) {
	if t.goals == nil {
		return Project{}, false
	}
	return t.goals.clone(), true
}

func (t *Tracker) lists(kind ListKind) (src, dst *[]Project, err error) {
	switch kind {
	case ListCurrent:
		return &t.current, &t.finished, nil
	case ListFinished:
		return &t.finished, &t.current, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownList, kind)
	}
}

func other(kind ListKind) ListKind {
	if kind == ListCurrent {
		return ListFinished
	}
	return ListCurrent
}

func containsName(projects []Project, name string) bool {
	return slices.ContainsFunc(projects, func(p Project) bool { return p.Name == name })
}

func cloneAll(projects []Project) []Project {
	out := make([]Project, len(projects))
	for i, p := range projects {
		out[i] = p.clone()
	}
	return out
}
