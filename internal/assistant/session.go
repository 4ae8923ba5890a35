package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/history"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/remote"
)

// Session owns both channels and the history feed they feed into.
type Session struct {
	agent    remote.AgentService
	Query    *Query
	Schedule *Schedule
	History  *history.Feed
	log      *log.Logger
}

// NewSession wires the channels to agent. The feed reads from the same agent.
func NewSession(agent remote.AgentService, logger *log.Logger) *Session {
	logger = logging.Or(logger)
	return &Session{
		agent:    agent,
		Query:    &Query{},
		Schedule: &Schedule{},
		History:  history.NewFeed(agent, logger),
		log:      logger.WithPrefix("assistant"),
	}
}

// Agent returns the remote collaborator, for callers that run the call themselves.
func (s *Session) Agent() remote.AgentService { return s.agent }

// ResolveAsk applies a query outcome and returns the history trigger it produces.
// Only an applied success triggers a history refresh.
func (s *Session) ResolveAsk(t Ticket, response string, err error) history.Trigger {
	if !s.Query.Resolve(t, response, err) {
		s.log.Debug("dropped stale answer", "ticket", t)
		return history.TriggerNone
	}
	if err != nil {
		s.log.Warn("ask failed", "err", err)
		return history.TriggerNone
	}
	return history.TriggerAnswered
}

// Ask runs one full query cycle and refreshes the history on success.
// A history failure is logged but does not fail the query.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	t, err := s.Query.BeginAsk(question)
	if err != nil {
		return "", err
	}
	answer, callErr := s.agent.AskAgent(ctx, strings.TrimSpace(question))
	trigger := s.ResolveAsk(t, answer, callErr)
	if callErr != nil {
		return "", fmt.Errorf("ask: %w", callErr)
	}
	if trigger != history.TriggerAnswered {
		return answer, ErrSuperseded
	}
	if _, err := s.History.RefreshIfTriggered(ctx, trigger); err != nil {
		s.log.Warn("history not refreshed after answer", "err", err)
	}
	return answer, nil
}

// SuggestSchedule runs one schedule cycle. It issues no remote call while a
// previous suggestion is pending. Schedule results never touch the history.
func (s *Session) SuggestSchedule(ctx context.Context) (string, error) {
	t, err := s.Schedule.BeginSuggest()
	if err != nil {
		return "", err
	}
	plan, callErr := s.agent.SuggestSchedule(ctx)
	s.Schedule.Resolve(t, plan, callErr)
	if callErr != nil {
		s.log.Warn("schedule failed", "err", callErr)
		return "", fmt.Errorf("schedule: %w", callErr)
	}
	return plan, nil
}
