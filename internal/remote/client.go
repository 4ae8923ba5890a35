package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
)

// Client talks to the service over JSON/HTTP.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds every request. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid service url %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logging.Or(c.log).WithPrefix("remote")
	return c, nil
}

// BaseURL returns the normalized service address.
func (c *Client) BaseURL() string { return c.baseURL }

var _ Service = (*Client)(nil)

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, draft model.Draft) (model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/", draft, &task); err != nil {
		return model.Task{}, err
	}
	if task.ID == "" {
		return model.Task{}, fmt.Errorf("%w: POST /tasks/: response has no id", ErrRemoteOperationFailed)
	}
	return task, nil
}

func (c *Client) CompleteTask(ctx context.Context, id model.TaskID) error {
	return c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id.String())+"/complete", nil, nil)
}

func (c *Client) DeleteCompletedTasks(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/tasks/completed", nil, nil)
}

func (c *Client) AskAgent(ctx context.Context, question string) (string, error) {
	var out struct {
		Response string `json:"response"`
	}
	body := struct {
		Question string `json:"question"`
	}{question}
	if err := c.do(ctx, http.MethodPost, "/agent/query", body, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *Client) SuggestSchedule(ctx context.Context) (string, error) {
	var out struct {
		Schedule string `json:"schedule"`
	}
	if err := c.do(ctx, http.MethodPost, "/agent/schedule", nil, &out); err != nil {
		return "", err
	}
	return out.Schedule, nil
}

func (c *Client) GetAgentHistory(ctx context.Context) ([]model.Exchange, error) {
	var history []model.Exchange
	if err := c.do(ctx, http.MethodGet, "/agent/history", nil, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = []model.Exchange{}
	}
	return history, nil
}

// do performs one round trip. Every failure is reported as ErrRemoteOperationFailed.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	reqID := uuid.NewString()
	start := time.Now()
	logger := c.log.With("request_id", reqID, "method", method, "path", path)

	fail := func(format string, args ...any) error {
		err := fmt.Errorf("%w: %s %s: %s", ErrRemoteOperationFailed, method, path, fmt.Sprintf(format, args...))
		logger.Warn("remote call failed", "err", err, "dur", time.Since(start))
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fail("encode: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fail("build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fail("%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fail("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fail("decode: %v", err)
		}
	}

	logger.Debug("remote call", "status", resp.StatusCode, "dur", time.Since(start))
	return nil
}
