// Package assistant drives the two independent request/response channels to the
// planning assistant: free-form questions and weekly schedule suggestions.
package assistant

import (
	"errors"
	"strings"
	"sync"
)

// Texts shown while a channel is pending or after it failed.
const (
	Placeholder     = "Loading..."
	QueryFailedText = "Error communicating with agent."
	PlanFailedText  = "Error retrieving schedule."
)

var (
	// ErrEmptyQuestion rejects a blank question before any remote call.
	ErrEmptyQuestion = errors.New("question must not be empty")
	// ErrBusy rejects a schedule request while one is already pending.
	ErrBusy = errors.New("a schedule suggestion is already pending")
	// ErrSuperseded marks a response that arrived after a newer request was issued.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// State of a channel.
type State int

const (
	Idle State = iota
	Pending
	Answered // query channel success
	Ready    // schedule channel success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Answered:
		return "answered"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Ticket identifies one issued request. Only the latest ticket of a channel
// may resolve it.
type Ticket uint64

// View is a consistent read of a channel.
type View struct {
	State State
	Text  string
}

type channel struct {
	mu    sync.Mutex
	state State
	text  string
	gen   uint64
}

func (c *channel) view() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{State: c.state, Text: c.text}
}

// begin moves to Pending and issues a new ticket. Caller holds mu.
func (c *channel) begin() Ticket {
	c.gen++
	c.state = Pending
	c.text = Placeholder
	return Ticket(c.gen)
}

// resolve applies a response if t is still current. Caller holds mu.
func (c *channel) resolve(t Ticket, success State, text string, err error, failText string) bool {
	if uint64(t) != c.gen || c.state != Pending {
		return false
	}
	if err != nil {
		c.state, c.text = Failed, failText
		return true
	}
	c.state, c.text = success, text
	return true
}

// Query is the free-form question channel: Idle → Pending → Answered | Failed.
// A new question may be asked while one is pending; the older response is
// then dropped when it arrives.
type Query struct {
	ch       channel
	question string
}

// BeginAsk validates q and moves the channel to Pending.
func (q *Query) BeginAsk(question string) (Ticket, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return 0, ErrEmptyQuestion
	}
	q.ch.mu.Lock()
	defer q.ch.mu.Unlock()
	q.question = question
	return q.ch.begin(), nil
}

// Resolve records the outcome of ticket t and reports whether it was applied.
func (q *Query) Resolve(t Ticket, response string, err error) bool {
	q.ch.mu.Lock()
	defer q.ch.mu.Unlock()
	return q.ch.resolve(t, Answered, response, err, QueryFailedText)
}

func (q *Query) View() View { return q.ch.view() }

// Question returns the most recently asked question.
func (q *Query) Question() string {
	q.ch.mu.Lock()
	defer q.ch.mu.Unlock()
	return q.question
}

// Schedule is the weekly plan channel: Idle → Pending → Ready | Failed.
// It is disabled while pending; a second request is rejected, never queued.
type Schedule struct {
	ch channel
}

// BeginSuggest moves to Pending, or returns ErrBusy if already there.
func (s *Schedule) BeginSuggest() (Ticket, error) {
	s.ch.mu.Lock()
	defer s.ch.mu.Unlock()
	if s.ch.state == Pending {
		return 0, ErrBusy
	}
	return s.ch.begin(), nil
}

// Resolve records the outcome and re-enables the channel on both paths.
func (s *Schedule) Resolve(t Ticket, plan string, err error) bool {
	s.ch.mu.Lock()
	defer s.ch.mu.Unlock()
	return s.ch.resolve(t, Ready, plan, err, PlanFailedText)
}

func (s *Schedule) View() View { return s.ch.view() }

// Disabled mirrors Pending.
func (s *Schedule) Disabled() bool { return s.ch.view().State == Pending }
