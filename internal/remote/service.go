// Package remote defines the contract of the task/agent service and its HTTP client.
package remote

import (
	"context"
	"errors"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrRemoteOperationFailed covers every failure of a remote call: network errors,
// non-success responses, timeouts and undecodable bodies alike.
var ErrRemoteOperationFailed = errors.New("remote operation failed")

// TaskService is the source of truth for tasks.
type TaskService interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, draft model.Draft) (model.Task, error)
	CompleteTask(ctx context.Context, id model.TaskID) error
	DeleteCompletedTasks(ctx context.Context) error
}

// AgentService is the planning assistant.
type AgentService interface {
	AskAgent(ctx context.Context, question string) (string, error)
	SuggestSchedule(ctx context.Context) (string, error)
	GetAgentHistory(ctx context.Context) ([]model.Exchange, error)
}

// Service is the full remote surface.
type Service interface {
	TaskService
	AgentService
}
