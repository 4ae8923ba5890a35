package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/urgency"
)

// TaskLine renders one task with its checkbox, priority, deadline and badges.
func TaskLine(t model.Task, now time.Time) string {
	th := current
	box := th.Muted.Render(th.BoxUnchecked)
	title := t.Title
	if t.Completed {
		box = th.Success.Render(th.BoxChecked)
		title = th.Done.Render(t.Title)
	}
	due := "due " + t.Deadline.String()
	if t.Deadline.IsZero() {
		due = "no deadline"
	}
	meta := th.Muted.Render(fmt.Sprintf("(P%d, %s)", t.Priority, due))

	var badges []string
	if urgency.IsOverdue(t, now) {
		badges = append(badges, th.Overdue.Render("overdue"))
	}
	if urgency.IsUrgent(t, now) {
		badges = append(badges, th.Urgent.Render("urgent"))
	}

	line := fmt.Sprintf("%s %s %s", box, title, meta)
	if len(badges) > 0 {
		line += " " + strings.Join(badges, " ")
	}
	return line
}

// Alerts renders the overdue/urgent banners; empty when nothing needs attention.
func Alerts(r urgency.Result) []string {
	th := current
	var lines []string
	if len(r.Overdue) > 0 {
		lines = append(lines, th.Overdue.Render("Overdue tasks:")+" "+urgency.Titles(r.Overdue))
	}
	if len(r.Urgent) > 0 {
		lines = append(lines, th.Urgent.Render("Urgent tasks:")+" "+urgency.Titles(r.Urgent))
	}
	return lines
}

// Stats counts done and pending tasks for headers.
func Stats(tasks []model.Task) (done, pending int) {
	for _, t := range tasks {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// CompletionBar shows the completed share of tasks in the theme's bar glyphs.
func CompletionBar(tasks []model.Task, width int) string {
	th := current
	width = max(width, 5)
	done, _ := Stats(tasks)
	filled, pct := 0, 0
	if n := len(tasks); n > 0 {
		filled = done * width / n
		pct = done * 100 / n
	}
	bar := strings.Repeat(th.BarFilled, filled) + strings.Repeat(th.BarEmpty, width-filled)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}
