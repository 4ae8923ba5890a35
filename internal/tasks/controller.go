package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/remote"
	"github.com/Makepad-fr/tada/internal/urgency"
)

// ErrRefreshAfterMutation means the remote mutation succeeded but the follow-up
// refetch did not; local state is left as it was.
var ErrRefreshAfterMutation = errors.New("refresh after mutation failed")

// Controller orchestrates round trips to the task service and reconciles the Store.
// Failed calls are not retried.
type Controller struct {
	svc   remote.TaskService
	store *Store
	log   *log.Logger
}

// NewController wires svc to store. A nil logger uses the default.
func NewController(svc remote.TaskService, store *Store, logger *log.Logger) *Controller {
	return &Controller{
		svc:   svc,
		store: store,
		log:   logging.Or(logger).WithPrefix("tasks"),
	}
}

// Store returns the controlled store.
func (c *Controller) Store() *Store { return c.store }

// Refresh replaces the local collection with a full fetch. The last fetch to
// complete wins over anything applied before it.
func (c *Controller) Refresh(ctx context.Context) error {
	tasks, err := c.svc.ListTasks(ctx)
	if err != nil {
		c.log.Warn("refresh failed", "err", err)
		return fmt.Errorf("refresh: %w", err)
	}
	c.store.Replace(tasks)
	c.log.Debug("refreshed", "tasks", len(tasks))
	return nil
}

// Add validates and creates a task, appending the server's copy on success.
// Nothing is inserted before the server has assigned the id.
func (c *Controller) Add(ctx context.Context, draft model.Draft) (model.Task, error) {
	draft = draft.Normalized()
	if err := draft.Validate(); err != nil {
		return model.Task{}, err
	}
	task, err := c.svc.CreateTask(ctx, draft)
	if err != nil {
		c.log.Warn("add failed", "title", draft.Title, "err", err)
		return model.Task{}, fmt.Errorf("add: %w", err)
	}
	if err := c.reconcile(ctx, OpAdd, &task); err != nil {
		return model.Task{}, err
	}
	c.log.Info("task added", "id", task.ID, "priority", task.Priority, "deadline", task.Deadline)
	return task, nil
}

// Complete marks id completed on the server, then refreshes.
func (c *Controller) Complete(ctx context.Context, id model.TaskID) error {
	if err := c.svc.CompleteTask(ctx, id); err != nil {
		c.log.Warn("complete failed", "id", id, "err", err)
		return fmt.Errorf("complete %s: %w", id, err)
	}
	return c.reconcile(ctx, OpComplete, nil)
}

// RemoveCompleted deletes every completed task on the server, then refreshes.
func (c *Controller) RemoveCompleted(ctx context.Context) error {
	if err := c.svc.DeleteCompletedTasks(ctx); err != nil {
		c.log.Warn("remove completed failed", "err", err)
		return fmt.Errorf("remove completed: %w", err)
	}
	return c.reconcile(ctx, OpRemoveCompleted, nil)
}

// reconcile applies op's declared policy after the remote call succeeded.
func (c *Controller) reconcile(ctx context.Context, op Op, created *model.Task) error {
	switch PolicyFor(op) {
	case OptimisticAppend:
		if created == nil {
			return fmt.Errorf("%s: optimistic append without a server object", op)
		}
		c.store.Append(*created)
		return nil
	default:
		if err := c.Refresh(ctx); err != nil {
			return fmt.Errorf("%s: %w: %w", op, ErrRefreshAfterMutation, err)
		}
		return nil
	}
}

// Overview is a render-ready view of the store at one instant.
type Overview struct {
	Tasks   []model.Task
	Urgency urgency.Result
}

// Overview snapshots the store and classifies it against now.
func (c *Controller) Overview(now time.Time) Overview {
	tasks := c.store.Snapshot()
	return Overview{Tasks: tasks, Urgency: urgency.Classify(tasks, now)}
}
