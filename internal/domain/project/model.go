package project

import "fmt"

// ListKind names one of the two disjoint project collections.
type ListKind string

const (
	ListCurrent  ListKind = "current"
	ListFinished ListKind = "finished"
)

// ParseListKind validates a list name.
func ParseListKind(s string) (ListKind, error) {
	switch ListKind(s) {
	case ListCurrent, ListFinished:
		return ListKind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownList, s)
	}
}

// TaskLabels are the checklist entries every project is created with.
var TaskLabels = [3]string{"Research", "Planning", "Execution"}

// Task is one checklist entry. It has no identity outside its project.
type Task struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
}

// Project is a named goal broken into checklist tasks.
type Project struct {
	Name  string `json:"name"`
	Goals string `json:"goals,omitempty"`
	Tasks []Task `json:"tasks"`
}

// AllDone reports whether every task is checked.
func (p Project) AllDone() bool {
	for _, task := range p.Tasks {
		if !task.Done {
			return false
		}
	}
	return true
}

func (p Project) clone() Project {
	out := p
	out.Tasks = append([]Task(nil), p.Tasks...)
	return out
}

// Transition describes how a toggle moved a project between lists.
type Transition string

const (
	TransitionNone     Transition = "none"
	TransitionPromoted Transition = "promoted"
	TransitionDemoted  Transition = "demoted"
)

// ToggleResult reports the outcome of ToggleTask.
type ToggleResult struct {
	// Project is the toggled project after the flip.
	Project Project `json:"project"`
	// From is the list the project was toggled in.
	From ListKind `json:"from"`
	// List is where the project lives now. Equal to From unless it moved.
	List       ListKind   `json:"list"`
	Transition Transition `json:"transition"`
	// Dropped is set when the destination already held a project with the
	// same name. The source entry is removed anyway and the project is gone
	// from both lists.
	Dropped bool `json:"dropped,omitempty"`
}

// GoalsText returns the goals shown for a project.
func GoalsText(p Project) string {
	if p.Goals == "" {
		return "No goals set."
	}
	return p.Goals
}
