// Package tui is the interactive task board: the list of tasks with
// urgency alerts, inline add, and the two assistant panes.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/assistant"
	"github.com/Makepad-fr/tada/internal/history"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/tasks"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Deps are the collaborators the board drives.
type Deps struct {
	Tasks   *tasks.Controller
	Session *assistant.Session
	Now     func() time.Time
	Log     *log.Logger
}

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeAsk
)

// form field order for inline add
const (
	fieldTitle = iota
	fieldPriority
	fieldDeadline
	fieldCount
)

// Model is the bubbletea model for the board.
type Model struct {
	deps Deps
	log  *log.Logger
	keys keymap

	list    list.Model
	spin    spinner.Model
	history viewport.Model

	mode    mode
	fields  [fieldCount]textinput.Model
	focus   int
	askIn   textinput.Model
	formErr string

	showHistory bool
	loading     bool
	status      string
	width       int
	height      int
}

// New builds the board. Call Init (or Run) to load the first snapshot.
func New(deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	logger := logging.Or(deps.Log).WithPrefix("tui")
	th := ui.Current()

	l := list.New(nil, taskDelegate{now: deps.Now}, 0, 0)
	l.Title = th.Title.Render("Tasks")
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = th.Title
	l.Styles.HelpStyle = th.Muted
	l.Styles.PaginationStyle = th.Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")

	keys := defaultKeymap()
	l.AdditionalShortHelpKeys = keys.extra
	l.AdditionalFullHelpKeys = keys.extra
	// q is ours so pending calls are not cut short by the list's own quit.
	l.KeyMap.Quit.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = th.Accent

	m := Model{
		deps:    deps,
		log:     logger,
		keys:    keys,
		list:    l,
		spin:    sp,
		history: viewport.New(0, 0),
		loading: true,
	}

	placeholders := [fieldCount]string{"Title...", "Priority 1-5", "Deadline YYYY-MM-DD"}
	limits := [fieldCount]int{200, 1, len(model.DateLayout)}
	for i := range m.fields {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		m.fields[i] = ti
	}
	m.askIn = textinput.New()
	m.askIn.Prompt = "? "
	m.askIn.Placeholder = "Ask the assistant..."
	m.askIn.CharLimit = 500
	return m
}

// Run starts the board in the alternate screen and blocks until it quits.
func Run(deps Deps) error {
	_, err := tea.NewProgram(New(deps), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshTasks(), m.spin.Tick, tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case clockMsg:
		// urgency is derived at render time; a redraw is all that is needed
		return m, tick()

	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.fail("refresh", msg.err)
		}
		return m, m.syncList()

	case taskAddedMsg:
		if msg.err != nil {
			m.fail("add", msg.err)
			return m, nil
		}
		m.status = "Added: " + msg.task.Title
		return m, m.syncList()

	case taskCompletedMsg:
		if msg.err != nil {
			m.fail("complete", msg.err)
		} else {
			m.status = "Completed"
		}
		return m, m.syncList()

	case completedRemovedMsg:
		if msg.err != nil {
			m.fail("remove completed", msg.err)
		} else {
			m.status = "Removed completed tasks"
		}
		return m, m.syncList()

	case askDoneMsg:
		trigger := m.deps.Session.ResolveAsk(msg.ticket, msg.answer, msg.err)
		if trigger == history.TriggerAnswered {
			return m, m.refreshHistory()
		}
		return m, nil

	case planDoneMsg:
		if m.deps.Session.Schedule.Resolve(msg.ticket, msg.plan, msg.err) && msg.err != nil {
			m.log.Warn("schedule failed", "err", msg.err)
		}
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.log.Warn("history refresh failed", "err", msg.err)
		}
		m.history.SetContent(m.renderHistory())
		m.history.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeAsk:
			return m.updateAsk(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// while filtering, every key belongs to the list
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.formErr = ""
		m.focus = fieldTitle
		for i := range m.fields {
			m.fields[i].SetValue("")
			m.fields[i].Blur()
		}
		return m, m.fields[fieldTitle].Focus()

	case key.Matches(msg, m.keys.Ask):
		m.mode = modeAsk
		m.askIn.SetValue("")
		return m, m.askIn.Focus()

	case key.Matches(msg, m.keys.Complete):
		it, ok := m.list.SelectedItem().(taskItem)
		if !ok || it.task.Completed {
			return m, nil
		}
		return m, m.completeTask(it.task.ID)

	case key.Matches(msg, m.keys.Clean):
		return m, m.removeCompleted()

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.refreshTasks()

	case key.Matches(msg, m.keys.Plan):
		t, err := m.deps.Session.Schedule.BeginSuggest()
		if err != nil {
			// disabled while a suggestion is pending
			return m, nil
		}
		return m, m.suggestSchedule(t)

	case key.Matches(msg, m.keys.History):
		m.showHistory = !m.showHistory
		m.layout()
		return m, nil
	}

	if m.showHistory {
		switch msg.String() {
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.history, cmd = m.history.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.formErr = ""
		m.fields[m.focus].Blur()
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		step := 1
		if msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp {
			step = fieldCount - 1
		}
		m.fields[m.focus].Blur()
		m.focus = (m.focus + step) % fieldCount
		return m, m.fields[m.focus].Focus()
	case tea.KeyEnter:
		draft, err := m.draft()
		if err != nil {
			m.formErr = err.Error()
			return m, nil
		}
		m.mode = modeBrowse
		m.formErr = ""
		m.fields[m.focus].Blur()
		return m, m.addTask(draft)
	}
	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateAsk(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.askIn.Blur()
		return m, nil
	case tea.KeyEnter:
		q := m.askIn.Value()
		t, err := m.deps.Session.Query.BeginAsk(q)
		if err != nil {
			m.formErr = err.Error()
			return m, nil
		}
		m.mode = modeBrowse
		m.formErr = ""
		m.askIn.Blur()
		return m, m.ask(t, strings.TrimSpace(q))
	}
	var cmd tea.Cmd
	m.askIn, cmd = m.askIn.Update(msg)
	return m, cmd
}

// draft reads the add form. An empty priority means the lowest urgency.
func (m Model) draft() (model.Draft, error) {
	d := model.Draft{
		Title:    m.fields[fieldTitle].Value(),
		Priority: model.MaxPriority,
	}
	if p := strings.TrimSpace(m.fields[fieldPriority].Value()); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return model.Draft{}, fmt.Errorf("priority %q is not a number", p)
		}
		d.Priority = n
	}
	raw := strings.TrimSpace(m.fields[fieldDeadline].Value())
	if raw == "" {
		return model.Draft{}, errors.New("deadline is required")
	}
	dl, err := model.ParseDate(raw)
	if err != nil {
		return model.Draft{}, err
	}
	d.Deadline = dl
	d = d.Normalized()
	return d, d.Validate()
}

func (m *Model) fail(op string, err error) {
	m.log.Warn(op+" failed", "err", err)
	m.status = ui.Current().Error.Render(op + " failed: " + err.Error())
}

// syncList rebuilds list items from the local store.
func (m *Model) syncList() tea.Cmd {
	snap := m.deps.Tasks.Store().Snapshot()
	done, pending := ui.Stats(snap)
	th := ui.Current()
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		th.Title.Render("Tasks"),
		th.Success.Render(th.SymOK), done,
		th.Pending.Render("•"), pending,
		th.Accent.Render("Total"), len(snap),
	)
	return m.list.SetItems(toItems(snap))
}

func (m *Model) layout() {
	if m.width == 0 {
		return
	}
	side := 0
	if m.width >= 100 {
		side = m.width / 2
	}
	listW := m.width - side
	if listW < 20 {
		listW = m.width
	}
	// alerts, input bar and status take the bottom rows
	listH := m.height - 6
	if listH < 5 {
		listH = 5
	}
	m.list.SetSize(listW, listH)
	paneW := side
	if paneW == 0 {
		paneW = m.width
	}
	m.history.Width = paneW - 4
	m.history.Height = listH / 2
}

func (m Model) View() string {
	now := m.deps.Now()
	th := ui.Current()
	var b strings.Builder

	ov := m.deps.Tasks.Overview(now)
	for _, line := range ui.Alerts(ov.Urgency) {
		b.WriteString(line + "\n")
	}

	left := m.list.View()
	if m.loading {
		left = m.spin.View() + " " + th.Muted.Render(assistant.Placeholder) + "\n" + left
	}
	right := m.assistantView()
	if m.width >= 100 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(left + "\n" + right)
	}
	b.WriteString("\n")

	switch m.mode {
	case modeAdd:
		labels := [fieldCount]string{"Title", "Priority", "Deadline"}
		for i := range m.fields {
			b.WriteString(th.Muted.Render(fmt.Sprintf("%-9s", labels[i])) + m.fields[i].View() + "\n")
		}
		b.WriteString(th.Muted.Render("tab next • enter save • esc cancel") + "\n")
	case modeAsk:
		b.WriteString(m.askIn.View() + "\n")
		b.WriteString(th.Muted.Render("enter send • esc cancel") + "\n")
	}
	if m.formErr != "" {
		b.WriteString(th.Error.Render(m.formErr) + "\n")
	}
	if m.status != "" {
		b.WriteString(th.Muted.Render(m.status))
	}
	return b.String()
}

func (m Model) assistantView() string {
	th := ui.Current()
	var b strings.Builder

	qv := m.deps.Session.Query.View()
	b.WriteString(th.Accent.Render("AI Response:") + "\n")
	b.WriteString(m.channelText(qv) + "\n\n")

	sv := m.deps.Session.Schedule.View()
	label := "Your Weekly Plan:"
	if m.deps.Session.Schedule.Disabled() {
		label += " " + th.Muted.Render("(working)")
	}
	b.WriteString(th.Accent.Render(label) + "\n")
	b.WriteString(m.channelText(sv))

	if m.showHistory {
		b.WriteString("\n\n" + th.Accent.Render("History:") + "\n")
		b.WriteString(m.history.View())
	}
	return ui.PanelString(b.String())
}

func (m Model) channelText(v assistant.View) string {
	th := ui.Current()
	switch v.State {
	case assistant.Idle:
		return th.Muted.Render("-")
	case assistant.Pending:
		return m.spin.View() + " " + v.Text
	case assistant.Failed:
		return th.Error.Render(v.Text)
	}
	return v.Text
}

func (m Model) renderHistory() string {
	th := ui.Current()
	entries := m.deps.Session.History.Entries()
	if len(entries) == 0 {
		return th.Muted.Render("No conversations yet.")
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(th.Accent.Render("You: ") + e.Question + "\n")
		b.WriteString(th.Success.Render("AI: ") + e.Response + "\n")
		if !e.Timestamp.IsZero() {
			b.WriteString(th.Muted.Render(e.Timestamp.Format("2006-01-02 15:04")) + "\n")
		}
	}
	return b.String()
}
