// Package remotetest provides an in-memory task/agent service for tests,
// usable directly or over HTTP via NewServer.
package remotetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/remote"
)

// Op names a service operation for failure injection and call counting.
type Op string

const (
	OpList            Op = "ListTasks"
	OpCreate          Op = "CreateTask"
	OpComplete        Op = "CompleteTask"
	OpDeleteCompleted Op = "DeleteCompletedTasks"
	OpAsk             Op = "AskAgent"
	OpSchedule        Op = "SuggestSchedule"
	OpHistory         Op = "GetAgentHistory"
)

// ErrNotFound is returned for unknown task ids.
var ErrNotFound = errors.New("task not found")

// ErrInjected is the default injected failure.
var ErrInjected = errors.New("injected failure")

// Service is a fake remote service. The zero value is not usable; call New.
type Service struct {
	mu        sync.Mutex
	tasks     []model.Task
	exchanges []model.Exchange
	failures  map[Op]error
	calls     map[Op]int
	now       func() time.Time

	// Responder produces the assistant's answer. Defaults to an echo.
	Responder func(ctx context.Context, question string) (string, error)
	// Planner produces the weekly plan.
	Planner func(ctx context.Context) (string, error)
	// OnComplete lets tests model server-side effects of completion.
	OnComplete func(t *model.Task)
}

var _ remote.Service = (*Service)(nil)

// New returns an empty fake service.
func New() *Service {
	return &Service{
		failures: make(map[Op]error),
		calls:    make(map[Op]int),
		now:      time.Now,
		Responder: func(_ context.Context, q string) (string, error) {
			return "You asked: " + q, nil
		},
		Planner: func(context.Context) (string, error) {
			return "Mon: plan the week", nil
		},
	}
}

// Seed inserts tasks as if the server had created them; empty ids are generated.
func (s *Service) Seed(tasks ...model.Task) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			t.ID = model.TaskID(uuid.NewString())
		}
		s.tasks = append(s.tasks, t)
		out = append(out, t)
	}
	return out
}

// SeedHistory appends recorded exchanges.
func (s *Service) SeedHistory(ex ...model.Exchange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges = append(s.exchanges, ex...)
}

// Fail makes op return err until cleared with Fail(op, nil).
func (s *Service) Fail(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Calls returns how many times op was invoked, failed calls included.
func (s *Service) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Tasks returns a copy of the server-side task list.
func (s *Service) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Task(nil), s.tasks...)
}

// enter counts a call and returns the injected failure, if any. Caller holds mu.
func (s *Service) enter(op Op) error {
	s.calls[op]++
	if err := s.failures[op]; err != nil {
		return fmt.Errorf("%w: %s: %w", remote.ErrRemoteOperationFailed, op, err)
	}
	return nil
}

func (s *Service) ListTasks(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpList); err != nil {
		return nil, err
	}
	return append([]model.Task{}, s.tasks...), nil
}

func (s *Service) CreateTask(ctx context.Context, draft model.Draft) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpCreate); err != nil {
		return model.Task{}, err
	}
	if err := draft.Validate(); err != nil {
		return model.Task{}, fmt.Errorf("%w: %w", remote.ErrRemoteOperationFailed, err)
	}
	created := s.now().UTC()
	t := model.Task{
		ID:        model.TaskID(uuid.NewString()),
		Title:     draft.Title,
		Priority:  draft.Priority,
		Deadline:  draft.Deadline,
		CreatedAt: &created,
	}
	s.tasks = append(s.tasks, t)
	return t, nil
}

func (s *Service) CompleteTask(ctx context.Context, id model.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpComplete); err != nil {
		return err
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = true
			if s.OnComplete != nil {
				s.OnComplete(&s.tasks[i])
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %w: %s", remote.ErrRemoteOperationFailed, ErrNotFound, id)
}

func (s *Service) DeleteCompletedTasks(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpDeleteCompleted); err != nil {
		return err
	}
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	return nil
}

func (s *Service) AskAgent(ctx context.Context, question string) (string, error) {
	s.mu.Lock()
	if err := s.enter(OpAsk); err != nil {
		s.mu.Unlock()
		return "", err
	}
	responder := s.Responder
	s.mu.Unlock()

	// The responder may block; it runs without the lock.
	answer, err := responder(ctx, question)
	if err != nil {
		return "", fmt.Errorf("%w: %w", remote.ErrRemoteOperationFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges = append(s.exchanges, model.Exchange{
		Question:  question,
		Response:  answer,
		Timestamp: s.now().UTC(),
	})
	return answer, nil
}

func (s *Service) SuggestSchedule(ctx context.Context) (string, error) {
	s.mu.Lock()
	if err := s.enter(OpSchedule); err != nil {
		s.mu.Unlock()
		return "", err
	}
	planner := s.Planner
	s.mu.Unlock()

	plan, err := planner(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", remote.ErrRemoteOperationFailed, err)
	}
	return plan, nil
}

func (s *Service) GetAgentHistory(ctx context.Context) ([]model.Exchange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpHistory); err != nil {
		return nil, err
	}
	return append([]model.Exchange{}, s.exchanges...), nil
}
