package assistant

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Makepad-fr/tada/internal/history"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/remote"
	"github.com/Makepad-fr/tada/internal/remote/remotetest"
)

func newSession(t *testing.T) (*Session, *remotetest.Service) {
	t.Helper()
	svc := remotetest.New()
	return NewSession(svc, logging.Discard()), svc
}

func TestAskSuccessRefreshesHistory(t *testing.T) {
	s, svc := newSession(t)
	svc.Responder = func(context.Context, string) (string, error) { return "Focus on task X", nil }

	answer, err := s.Ask(context.Background(), "What should I do today?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "Focus on task X" {
		t.Errorf("answer = %q", answer)
	}
	if v := s.Query.View(); v.State != Answered || v.Text != "Focus on task X" {
		t.Errorf("query view = %+v", v)
	}
	entries := s.History.Entries()
	if len(entries) != 1 || entries[0].Question != "What should I do today?" || entries[0].Response != "Focus on task X" {
		t.Fatalf("history = %+v", entries)
	}
}

func TestAskFailure(t *testing.T) {
	s, svc := newSession(t)
	svc.Fail(remotetest.OpAsk, remotetest.ErrInjected)

	_, err := s.Ask(context.Background(), "hello?")
	if !errors.Is(err, remote.ErrRemoteOperationFailed) {
		t.Fatalf("err = %v", err)
	}
	if v := s.Query.View(); v.State != Failed || v.Text != QueryFailedText {
		t.Errorf("query view = %+v", v)
	}
	if svc.Calls(remotetest.OpHistory) != 0 {
		t.Error("history refreshed after a failed ask")
	}
	if svc.Calls(remotetest.OpAsk) != 1 {
		t.Error("failed ask must not be retried")
	}
}

func TestAskRejectsBlankQuestion(t *testing.T) {
	s, svc := newSession(t)
	if _, err := s.Ask(context.Background(), "   "); !errors.Is(err, ErrEmptyQuestion) {
		t.Fatalf("err = %v", err)
	}
	if s.Query.View().State != Idle || svc.Calls(remotetest.OpAsk) != 0 {
		t.Error("blank question reached the service or changed state")
	}
}

func TestQueryDropsStaleResponses(t *testing.T) {
	var q Query
	first, _ := q.BeginAsk("one")
	second, _ := q.BeginAsk("two")

	if q.Resolve(first, "old answer", nil) {
		t.Fatal("stale ticket applied")
	}
	if v := q.View(); v.State != Pending || v.Text != Placeholder {
		t.Fatalf("view after stale = %+v", v)
	}
	if !q.Resolve(second, "new answer", nil) {
		t.Fatal("current ticket rejected")
	}
	if v := q.View(); v.State != Answered || v.Text != "new answer" {
		t.Fatalf("view = %+v", v)
	}
	if q.Resolve(second, "again", nil) {
		t.Fatal("ticket applied twice")
	}
}

func TestResolveAskTriggers(t *testing.T) {
	s, _ := newSession(t)
	t1, _ := s.Query.BeginAsk("a")
	t2, _ := s.Query.BeginAsk("b")
	if got := s.ResolveAsk(t1, "x", nil); got != history.TriggerNone {
		t.Errorf("stale trigger = %v", got)
	}
	if got := s.ResolveAsk(t2, "", errors.New("boom")); got != history.TriggerNone {
		t.Errorf("failure trigger = %v", got)
	}
	t3, _ := s.Query.BeginAsk("c")
	if got := s.ResolveAsk(t3, "y", nil); got != history.TriggerAnswered {
		t.Errorf("success trigger = %v", got)
	}
}

func TestScheduleReentrancyGuard(t *testing.T) {
	s, svc := newSession(t)
	release := make(chan struct{})
	entered := make(chan struct{})
	svc.Planner = func(context.Context) (string, error) {
		close(entered)
		<-release
		return "Mon: deep work", nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var plan string
	var firstErr error
	go func() {
		defer wg.Done()
		plan, firstErr = s.SuggestSchedule(context.Background())
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first suggestion never reached the service")
	}
	if !s.Schedule.Disabled() {
		t.Error("schedule should be disabled while pending")
	}
	if _, err := s.SuggestSchedule(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second call err = %v, want ErrBusy", err)
	}

	close(release)
	wg.Wait()

	if firstErr != nil || plan != "Mon: deep work" {
		t.Fatalf("first call = %q, %v", plan, firstErr)
	}
	if n := svc.Calls(remotetest.OpSchedule); n != 1 {
		t.Errorf("SuggestSchedule called %d times, want 1", n)
	}
	if v := s.Schedule.View(); v.State != Ready || s.Schedule.Disabled() {
		t.Errorf("view = %+v disabled=%v", v, s.Schedule.Disabled())
	}
}

func TestScheduleFailureReenables(t *testing.T) {
	s, svc := newSession(t)
	svc.Fail(remotetest.OpSchedule, remotetest.ErrInjected)

	if _, err := s.SuggestSchedule(context.Background()); !errors.Is(err, remote.ErrRemoteOperationFailed) {
		t.Fatalf("err = %v", err)
	}
	if v := s.Schedule.View(); v.State != Failed || v.Text != PlanFailedText {
		t.Errorf("view = %+v", v)
	}
	if s.Schedule.Disabled() {
		t.Fatal("schedule stuck disabled after failure")
	}

	svc.Fail(remotetest.OpSchedule, nil)
	if _, err := s.SuggestSchedule(context.Background()); err != nil {
		t.Fatalf("retry by user: %v", err)
	}
}

func TestScheduleSuccessDoesNotTouchHistory(t *testing.T) {
	s, svc := newSession(t)
	if _, err := s.SuggestSchedule(context.Background()); err != nil {
		t.Fatal(err)
	}
	if svc.Calls(remotetest.OpHistory) != 0 || s.History.Len() != 0 {
		t.Error("schedule success must not refresh history")
	}
}

func TestChannelsAreIndependent(t *testing.T) {
	s, _ := newSession(t)
	if _, err := s.Schedule.BeginSuggest(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Ask(context.Background(), "still works?"); err != nil {
		t.Fatalf("ask blocked by pending schedule: %v", err)
	}
	if s.Schedule.View().State != Pending {
		t.Error("ask changed schedule state")
	}
}
