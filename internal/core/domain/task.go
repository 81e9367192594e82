package domain

import "strings"

// Observed task status values. The server does not constrain status to
// these, so any string round-trips unchanged.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Task is a server-owned task record.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description" table:"wide"`
	Status      string `json:"status"`
	OwnerID     string `json:"owner_id,omitempty" table:"wide"`
}

// TaskInput is the body sent when creating or replacing a task.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Validate checks the input before it is sent.
func (in *TaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTaskInvalid.WithDetails("title is required")
	}
	if in.Status == "" {
		in.Status = TaskStatusPending
	}
	return nil
}

// Input returns the replaceable fields of t.
func (t *Task) Input() TaskInput {
	return TaskInput{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
	}
}

// NextStatus returns the status a toggle moves to. Pending becomes
// completed; every other status, completed included, goes back to pending.
func NextStatus(status string) string {
	if status == TaskStatusPending {
		return TaskStatusCompleted
	}
	return TaskStatusPending
}
