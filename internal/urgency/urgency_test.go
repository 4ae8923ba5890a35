package urgency

import (
	"testing"
	"time"

	"github.com/Makepad-fr/tada/internal/model"
)

var now = time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)

func task(id string, priority int, deadline model.Date, completed bool) model.Task {
	return model.Task{ID: model.TaskID(id), Title: "task " + id, Priority: priority, Deadline: deadline, Completed: completed}
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID.String())
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTopPriorityFarDeadlineIsUrgentNotOverdue(t *testing.T) {
	today := model.DateOf(now)
	r := Classify([]model.Task{task("1", 1, today.AddDays(30), false)}, now)
	if !equal(ids(r.Urgent), []string{"1"}) {
		t.Errorf("urgent = %v", ids(r.Urgent))
	}
	if len(r.Overdue) != 0 {
		t.Errorf("overdue = %v", ids(r.Overdue))
	}
}

func TestYesterdayIsOverdueAndUrgent(t *testing.T) {
	yesterday := model.DateOf(now).AddDays(-1)
	r := Classify([]model.Task{task("2", 5, yesterday, false)}, now)
	if !equal(ids(r.Overdue), []string{"2"}) {
		t.Errorf("overdue = %v", ids(r.Overdue))
	}
	if !equal(ids(r.Urgent), []string{"2"}) {
		t.Errorf("urgent = %v", ids(r.Urgent))
	}
}

func TestDeadlineExactlyNow(t *testing.T) {
	midnight := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	tk := task("3", 5, model.DateOf(midnight), false)
	if IsOverdue(tk, midnight) {
		t.Error("deadline == now must not be overdue")
	}
	if !IsUrgent(tk, midnight) {
		t.Error("deadline == now must be urgent")
	}
}

func TestRules(t *testing.T) {
	today := model.DateOf(now)
	cases := []struct {
		name            string
		task            model.Task
		overdue, urgent bool
	}{
		{"low priority in three days", task("a", 4, today.AddDays(3), false), false, false},
		{"low priority tomorrow", task("b", 4, today.AddDays(1), false), false, true},
		{"low priority in two days", task("c", 4, today.AddDays(2), false), false, false},
		{"top priority completed", task("d", 1, today.AddDays(-5), true), false, false},
		{"due today already started", task("e", 3, today, false), true, true},
		{"priority two next month", task("f", 2, today.AddDays(31), false), false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOverdue(tc.task, now); got != tc.overdue {
				t.Errorf("overdue = %v, want %v", got, tc.overdue)
			}
			if got := IsUrgent(tc.task, now); got != tc.urgent {
				t.Errorf("urgent = %v, want %v", got, tc.urgent)
			}
		})
	}
}

func TestIncompleteTasksMatchRules(t *testing.T) {
	today := model.DateOf(now)
	var tasks []model.Task
	for off := -3; off <= 4; off++ {
		for p := model.MinPriority; p <= model.MaxPriority; p++ {
			tasks = append(tasks, task("x", p, today.AddDays(off), false))
		}
	}
	r := Classify(tasks, now)
	var wantOverdue, wantUrgent int
	for _, tk := range tasks {
		if tk.Deadline.In(time.UTC).Before(now) {
			wantOverdue++
		}
		if DaysUntil(tk.Deadline, now) <= 1 || tk.Priority == 1 {
			wantUrgent++
		}
	}
	if len(r.Overdue) != wantOverdue || len(r.Urgent) != wantUrgent {
		t.Errorf("got %d overdue / %d urgent, want %d / %d", len(r.Overdue), len(r.Urgent), wantOverdue, wantUrgent)
	}
}

func TestClassifyPreservesOrder(t *testing.T) {
	today := model.DateOf(now)
	tasks := []model.Task{
		task("z", 1, today.AddDays(10), false),
		task("a", 5, today.AddDays(-2), false),
		task("m", 1, today.AddDays(-1), false),
	}
	r := Classify(tasks, now)
	if !equal(ids(r.Urgent), []string{"z", "a", "m"}) {
		t.Errorf("urgent order = %v", ids(r.Urgent))
	}
	if !equal(ids(r.Overdue), []string{"a", "m"}) {
		t.Errorf("overdue order = %v", ids(r.Overdue))
	}
	if Titles(r.Overdue) != "task a, task m" {
		t.Errorf("titles = %q", Titles(r.Overdue))
	}
}

func TestDaysUntilUsesNowLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	n := time.Date(2025, time.March, 10, 12, 0, 0, 0, loc)
	got := DaysUntil(model.DateOf(n).AddDays(1), n)
	if got != 0.5 {
		t.Errorf("DaysUntil = %v, want 0.5", got)
	}
}

func TestMissingOrOddDeadline(t *testing.T) {
	var odd model.Date
	if err := odd.UnmarshalJSON([]byte(`"next week"`)); err != nil {
		t.Fatal(err)
	}
	for name, d := range map[string]model.Date{"zero": {}, "odd": odd} {
		t.Run(name, func(t *testing.T) {
			low := task("low", 3, d, false)
			if IsOverdue(low, now) || IsUrgent(low, now) {
				t.Errorf("low priority: overdue=%v urgent=%v", IsOverdue(low, now), IsUrgent(low, now))
			}
			top := task("top", 1, d, false)
			if IsOverdue(top, now) {
				t.Error("top priority reported overdue")
			}
			if !IsUrgent(top, now) {
				t.Error("top priority not urgent")
			}
		})
	}
}
