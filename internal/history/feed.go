// Package history mirrors the service's log of assistant exchanges.
package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/remote"
)

// Trigger is the event that may cause a refresh.
type Trigger int

const (
	TriggerNone Trigger = iota
	// TriggerAnswered: the query channel recorded a new answer.
	TriggerAnswered
)

// Source is the part of the agent service the feed reads from.
type Source interface {
	GetAgentHistory(ctx context.Context) ([]model.Exchange, error)
}

var _ Source = (remote.AgentService)(nil)

// Feed is a read-only, service-ordered sequence of exchanges.
// Entries are never synthesized locally.
type Feed struct {
	src Source
	log *log.Logger

	mu      sync.Mutex
	entries []model.Exchange
}

// NewFeed returns an empty feed reading from src.
func NewFeed(src Source, logger *log.Logger) *Feed {
	return &Feed{src: src, log: logging.Or(logger).WithPrefix("history")}
}

// Refresh replaces the entries with the service's current history, in the
// order returned. On failure the previous entries are kept.
func (f *Feed) Refresh(ctx context.Context) error {
	entries, err := f.src.GetAgentHistory(ctx)
	if err != nil {
		f.log.Warn("history refresh failed", "err", err)
		return fmt.Errorf("history: %w", err)
	}
	f.mu.Lock()
	f.entries = append([]model.Exchange(nil), entries...)
	f.mu.Unlock()
	f.log.Debug("history refreshed", "entries", len(entries))
	return nil
}

// RefreshIfTriggered refreshes only for TriggerAnswered. It reports whether a
// refresh was attempted.
func (f *Feed) RefreshIfTriggered(ctx context.Context, t Trigger) (bool, error) {
	if t != TriggerAnswered {
		return false, nil
	}
	return true, f.Refresh(ctx)
}

// Entries returns a copy of the current sequence.
func (f *Feed) Entries() []model.Exchange {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Exchange(nil), f.entries...)
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
