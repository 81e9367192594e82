package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/yndnr/taskdeck-go/internal/cli/connection"
	"github.com/yndnr/taskdeck-go/internal/core/domain"
)

// Client wraps an HTTPClient with typed endpoint methods.
type Client struct {
	http *connection.HTTPClient
}

// New creates a Client.
func New(c *connection.HTTPClient) *Client {
	return &Client{http: c}
}

// LoginResult is the body returned by /users/login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. The server expects a
// form-encoded body with the email in the "username" field.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	resp, err := c.http.PostForm(ctx, "/users/login", form)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	var out LoginResult
	if err := connection.ParseResponse(resp, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("login: response carried no access_token")
	}
	return &out, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.Account, error) {
	resp, err := c.http.Post(ctx, "/users/register", reg)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	var out domain.Account
	if err := connection.ParseResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTasks returns the caller's tasks.
func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	resp, err := c.http.Get(ctx, "/tasks/")
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	var out []domain.Task
	if err := connection.ParseResponse(resp, &out); err != nil {
		return nil, sessionErr(err)
	}
	return out, nil
}

// GetTask fetches one task.
func (c *Client) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	path, err := taskPath(id)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	var out domain.Task
	if err := connection.ParseResponse(resp, &out); err != nil {
		return nil, sessionErr(err)
	}
	return &out, nil
}

// CreateTask validates in and creates a task. An empty status is sent as
// "pending".
func (c *Client) CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	resp, err := c.http.Post(ctx, "/tasks/", in)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	var out domain.Task
	if err := connection.ParseResponse(resp, &out); err != nil {
		return nil, sessionErr(err)
	}
	return &out, nil
}

// UpdateTask replaces the title, description and status of a task.
func (c *Client) UpdateTask(ctx context.Context, id string, in domain.TaskInput) (*domain.Task, error) {
	path, err := taskPath(id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	resp, err := c.http.Put(ctx, path, in)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	var out domain.Task
	if err := connection.ParseResponse(resp, &out); err != nil {
		return nil, sessionErr(err)
	}
	return &out, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	path, err := taskPath(id)
	if err != nil {
		return err
	}
	resp, err := c.http.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return sessionErr(connection.ParseResponse(resp, nil))
}

// ToggleTask flips a task between pending and completed, keeping its title
// and description. Any status other than pending becomes pending.
func (c *Client) ToggleTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := c.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	in := task.Input()
	in.Status = domain.NextStatus(task.Status)
	return c.UpdateTask(ctx, id, in)
}

func taskPath(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", domain.ErrTaskInvalid.WithDetails("task id is required")
	}
	return "/tasks/" + url.PathEscape(id), nil
}

// sessionErr reports 401 responses as a rejected session.
func sessionErr(err error) error {
	var apiErr *connection.APIError
	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
		return domain.ErrSessionRejected.WithDetails(apiErr.Message).WithCause(apiErr)
	}
	return err
}
