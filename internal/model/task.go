package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Priority bounds. 1 is the most urgent.
const (
	MinPriority = 1
	MaxPriority = 5
)

// ErrInvalidDraft is returned when a Draft fails validation.
var ErrInvalidDraft = errors.New("invalid task")

// TaskID is the opaque identifier assigned by the remote service.
// The wire form may be a JSON number or a JSON string.
type TaskID string

func (id TaskID) String() string { return string(id) }

func (id TaskID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id *TaskID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	*id = TaskID(n.String())
	return nil
}

// Task is the domain model for a tracked to-do entry, mirroring the server.
type Task struct {
	ID        TaskID     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Priority  int        `json:"priority" yaml:"priority"`
	Deadline  Date       `json:"deadline" yaml:"deadline"`
	Completed bool       `json:"completed" yaml:"completed"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

func (t *Task) UnmarshalJSON(b []byte) error {
	type wire Task
	var raw struct {
		wire
		CreatedAt string `json:"created_at"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*t = Task(raw.wire)
	t.CreatedAt = nil
	if raw.CreatedAt != "" {
		ts, err := ParseTimestamp(raw.CreatedAt)
		if err != nil {
			return err
		}
		t.CreatedAt = &ts
	}
	return nil
}

// Draft is what the client submits to create a task; the server assigns the id.
type Draft struct {
	Title    string `json:"title"`
	Priority int    `json:"priority"`
	Deadline Date   `json:"deadline"`
}

// Validate checks the constraints of an add request.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidDraft)
	}
	if d.Priority < MinPriority || d.Priority > MaxPriority {
		return fmt.Errorf("%w: priority %d not in [%d,%d]", ErrInvalidDraft, d.Priority, MinPriority, MaxPriority)
	}
	if d.Deadline.IsZero() {
		return fmt.Errorf("%w: missing deadline", ErrInvalidDraft)
	}
	if !d.Deadline.Valid() {
		return fmt.Errorf("%w: deadline %q is not a date", ErrInvalidDraft, d.Deadline.String())
	}
	return nil
}

// Normalized returns the draft with surrounding whitespace trimmed from the title.
func (d Draft) Normalized() Draft {
	d.Title = strings.TrimSpace(d.Title)
	return d
}
