package remote_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/remote"
	"github.com/Makepad-fr/tada/internal/remote/remotetest"
)

func newTestClient(t *testing.T, svc *remotetest.Service) *remote.Client {
	t.Helper()
	srv := remotetest.NewServer(svc)
	t.Cleanup(srv.Close)

	c, err := remote.NewClient(srv.URL+"/", remote.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestClientTaskRoundTrips(t *testing.T) {
	ctx := context.Background()
	svc := remotetest.New()
	c := newTestClient(t, svc)

	tasks, err := c.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("tasks = %#v, want empty non-nil", tasks)
	}

	draft := model.Draft{Title: "Write report", Priority: 2, Deadline: model.MustParseDate("2025-04-01")}
	created, err := c.CreateTask(ctx, draft)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.ID == "" || created.Title != draft.Title || created.Deadline != draft.Deadline {
		t.Fatalf("created = %+v", created)
	}

	if err := c.CompleteTask(ctx, created.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	tasks, _ = c.ListTasks(ctx)
	if len(tasks) != 1 || !tasks[0].Completed {
		t.Fatalf("after complete: %+v", tasks)
	}

	if err := c.DeleteCompletedTasks(ctx); err != nil {
		t.Fatalf("DeleteCompletedTasks: %v", err)
	}
	if got := svc.Tasks(); len(got) != 0 {
		t.Fatalf("server still has %d tasks", len(got))
	}
}

func TestClientAgentRoundTrips(t *testing.T) {
	ctx := context.Background()
	svc := remotetest.New()
	svc.Responder = func(context.Context, string) (string, error) { return "Focus on task X", nil }
	svc.Planner = func(context.Context) (string, error) { return "Mon: X\nTue: Y", nil }
	c := newTestClient(t, svc)

	answer, err := c.AskAgent(ctx, "What should I do today?")
	if err != nil || answer != "Focus on task X" {
		t.Fatalf("AskAgent = %q, %v", answer, err)
	}
	plan, err := c.SuggestSchedule(ctx)
	if err != nil || plan != "Mon: X\nTue: Y" {
		t.Fatalf("SuggestSchedule = %q, %v", plan, err)
	}
	history, err := c.GetAgentHistory(ctx)
	if err != nil {
		t.Fatalf("GetAgentHistory: %v", err)
	}
	if len(history) != 1 || history[0].Question != "What should I do today?" || history[0].Response != "Focus on task X" {
		t.Fatalf("history = %+v", history)
	}
}

func TestClientMapsFailures(t *testing.T) {
	ctx := context.Background()
	svc := remotetest.New()
	c := newTestClient(t, svc)

	if err := c.CompleteTask(ctx, "missing"); !errors.Is(err, remote.ErrRemoteOperationFailed) {
		t.Errorf("complete unknown id: err = %v", err)
	}

	svc.Fail(remotetest.OpList, remotetest.ErrInjected)
	if _, err := c.ListTasks(ctx); !errors.Is(err, remote.ErrRemoteOperationFailed) {
		t.Errorf("list: err = %v", err)
	}

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer garbage.Close()
	gc, _ := remote.NewClient(garbage.URL, remote.WithLogger(logging.Discard()))
	if _, err := gc.AskAgent(ctx, "q"); !errors.Is(err, remote.ErrRemoteOperationFailed) {
		t.Errorf("decode: err = %v", err)
	}

	dead, _ := remote.NewClient("http://127.0.0.1:1", remote.WithLogger(logging.Discard()), remote.WithTimeout(time.Second))
	if _, err := dead.SuggestSchedule(ctx); !errors.Is(err, remote.ErrRemoteOperationFailed) {
		t.Errorf("unreachable: err = %v", err)
	}
}

func TestClientSendsHeaders(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := remote.NewClient(srv.URL, remote.WithToken("abc"), remote.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.ListTasks(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if len(gotReqID) != 36 {
		t.Errorf("X-Request-Id = %q, want a uuid", gotReqID)
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/relative", "ftp://example.com"} {
		if _, err := remote.NewClient(raw); err == nil {
			t.Errorf("NewClient(%q) succeeded", raw)
		}
	}
}

func TestListTasksKeepsOddDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "title": "a", "priority": 2, "deadline": "2025-04-01", "completed": false},
			{"id": 2, "title": "b", "priority": 3, "deadline": "next week", "completed": false},
			{"id": 3, "title": "c", "priority": 4, "deadline": "2025-04-03T00:00:00", "completed": true}
		]`))
	}))
	defer srv.Close()

	c, err := remote.NewClient(srv.URL, remote.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatal(err)
	}
	tasks, err := c.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("tasks = %+v", tasks)
	}
	if tasks[1].Deadline.Valid() || tasks[1].Deadline.String() != "next week" {
		t.Errorf("odd deadline = %#v", tasks[1].Deadline)
	}
	if tasks[2].Deadline != model.MustParseDate("2025-04-03") {
		t.Errorf("timestamp deadline = %v", tasks[2].Deadline)
	}
}
