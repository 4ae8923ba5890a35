package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/assistant"
	"github.com/Makepad-fr/tada/internal/model"
)

// Every remote call runs inside a tea.Cmd and reports back with one of these.
type tasksLoadedMsg struct{ err error }

type taskAddedMsg struct {
	task model.Task
	err  error
}

type taskCompletedMsg struct {
	id  model.TaskID
	err error
}

type completedRemovedMsg struct{ err error }

type askDoneMsg struct {
	ticket assistant.Ticket
	answer string
	err    error
}

type planDoneMsg struct {
	ticket assistant.Ticket
	plan   string
	err    error
}

type historyLoadedMsg struct{ err error }

type clockMsg time.Time

func (m Model) refreshTasks() tea.Cmd {
	return func() tea.Msg {
		return tasksLoadedMsg{err: m.deps.Tasks.Refresh(context.Background())}
	}
}

func (m Model) addTask(d model.Draft) tea.Cmd {
	return func() tea.Msg {
		t, err := m.deps.Tasks.Add(context.Background(), d)
		return taskAddedMsg{task: t, err: err}
	}
}

func (m Model) completeTask(id model.TaskID) tea.Cmd {
	return func() tea.Msg {
		return taskCompletedMsg{id: id, err: m.deps.Tasks.Complete(context.Background(), id)}
	}
}

func (m Model) removeCompleted() tea.Cmd {
	return func() tea.Msg {
		return completedRemovedMsg{err: m.deps.Tasks.RemoveCompleted(context.Background())}
	}
}

func (m Model) ask(t assistant.Ticket, question string) tea.Cmd {
	agent := m.deps.Session.Agent()
	return func() tea.Msg {
		answer, err := agent.AskAgent(context.Background(), question)
		return askDoneMsg{ticket: t, answer: answer, err: err}
	}
}

func (m Model) suggestSchedule(t assistant.Ticket) tea.Cmd {
	agent := m.deps.Session.Agent()
	return func() tea.Msg {
		plan, err := agent.SuggestSchedule(context.Background())
		return planDoneMsg{ticket: t, plan: plan, err: err}
	}
}

func (m Model) refreshHistory() tea.Cmd {
	return func() tea.Msg {
		return historyLoadedMsg{err: m.deps.Session.History.Refresh(context.Background())}
	}
}

// tick re-renders once a minute so overdue/urgent follow the wall clock.
func tick() tea.Cmd {
	return tea.Every(time.Minute, func(t time.Time) tea.Msg { return clockMsg(t) })
}
