// Package urgency derives the overdue and urgent views of a task list.
// Everything here is a pure function of the tasks and an explicit "now".
package urgency

import (
	"math"
	"strings"
	"time"

	"github.com/Makepad-fr/tada/internal/model"
)

// Window is the urgency horizon in days.
const Window = 1.0

// Result holds both derived views. The sets may overlap.
type Result struct {
	Overdue []model.Task
	Urgent  []model.Task
}

// Empty reports whether neither view has entries.
func (r Result) Empty() bool { return len(r.Overdue) == 0 && len(r.Urgent) == 0 }

// Classify filters tasks into the overdue and urgent views, preserving input order.
func Classify(tasks []model.Task, now time.Time) Result {
	var r Result
	for _, t := range tasks {
		if IsOverdue(t, now) {
			r.Overdue = append(r.Overdue, t)
		}
		if IsUrgent(t, now) {
			r.Urgent = append(r.Urgent, t)
		}
	}
	return r
}

// DaysUntil is the fractional number of days from now to the start of the deadline,
// negative once it has passed. A deadline that is not a date is infinitely far.
func DaysUntil(deadline model.Date, now time.Time) float64 {
	if !deadline.Valid() {
		return math.Inf(1)
	}
	return deadline.In(now.Location()).Sub(now).Hours() / 24
}

// IsOverdue: incomplete and the deadline is strictly before now.
func IsOverdue(t model.Task, now time.Time) bool {
	return !t.Completed && t.Deadline.Valid() && t.Deadline.In(now.Location()).Before(now)
}

// IsUrgent: incomplete and either due within the window or top priority.
func IsUrgent(t model.Task, now time.Time) bool {
	if t.Completed {
		return false
	}
	return DaysUntil(t.Deadline, now) <= Window || t.Priority == model.MinPriority
}

// Titles joins task titles for one-line alerts.
func Titles(tasks []model.Task) string {
	names := make([]string, 0, len(tasks))
	for _, t := range tasks {
		names = append(names, t.Title)
	}
	return strings.Join(names, ", ")
}
