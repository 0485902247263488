package entities

import (
	"fmt"
	"strings"
	"time"
)

// Task represents a to-do item.
type Task struct {
	ID          string     `json:"id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority" validate:"omitempty,oneof=low medium high"`
	TimeBucket  TimeBucket `json:"timeBucket" validate:"omitempty,oneof=day week month year"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskFormData carries the caller-supplied fields of a new task. The
// storage layer assigns the identifier and timestamps.
type TaskFormData struct {
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description,omitempty"`
	Priority    Priority   `json:"priority" validate:"omitempty,oneof=low medium high"`
	TimeBucket  TimeBucket `json:"timeBucket" validate:"omitempty,oneof=day week month year"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// Validate checks the form before a record is created from it. Empty
// enum fields pass; NewTask fills their defaults.
func (f TaskFormData) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return ErrEmptyTitle
	}
	if f.Priority != "" && !f.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, f.Priority)
	}
	if f.TimeBucket != "" && !f.TimeBucket.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTimeBucket, f.TimeBucket)
	}
	return nil
}

// TaskPatch holds the fields of a partial task update. Nil fields are left
// untouched; the storage layer stamps UpdatedAt.
type TaskPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Completed   *bool       `json:"completed,omitempty"`
	Priority    *Priority   `json:"priority,omitempty"`
	TimeBucket  *TimeBucket `json:"timeBucket,omitempty"`
	StartDate   *time.Time  `json:"startDate,omitempty"`
	Deadline    *time.Time  `json:"deadline,omitempty"`
}

// TaskFilter is the transient filter configuration of a task store.
// Status always applies; Bucket applies either against a reference date
// (when Date is set) or against the task's stored bucket classification.
type TaskFilter struct {
	Status   StatusFilter `json:"status"`
	Bucket   *TimeBucket  `json:"bucket,omitempty"`
	Priority *Priority    `json:"priority,omitempty"`
	Date     *time.Time   `json:"date,omitempty"`
}

// DefaultTaskFilter passes every task.
func DefaultTaskFilter() TaskFilter {
	return TaskFilter{Status: StatusAll}
}

// BucketStats is a completed/total pair for one stats dimension.
type BucketStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// TaskStats aggregates a single pass over a task collection.
// CompletionRate is a percentage, 0 through 100.
type TaskStats struct {
	Total          int                        `json:"total"`
	Completed      int                        `json:"completed"`
	Pending        int                        `json:"pending"`
	Overdue        int                        `json:"overdue"`
	CompletionRate float64                    `json:"completionRate"`
	ByTimeBucket   map[TimeBucket]BucketStats `json:"byTimeBucket"`
	ByPriority     map[Priority]BucketStats   `json:"byPriority"`
}

// NewTask builds a task from form data, assigning id and timestamps.
func NewTask(form TaskFormData, now time.Time) Task {
	priority := form.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	bucket := form.TimeBucket
	if bucket == "" {
		bucket = BucketDay
	}
	return Task{
		ID:          NewID(),
		Title:       form.Title,
		Description: form.Description,
		Completed:   false,
		Priority:    priority,
		TimeBucket:  bucket,
		StartDate:   form.StartDate,
		Deadline:    form.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply merges the patch into the task and stamps the update time.
func (t *Task) Apply(patch TaskPatch, now time.Time) {
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = patch.Description
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.TimeBucket != nil {
		t.TimeBucket = *patch.TimeBucket
	}
	if patch.StartDate != nil {
		t.StartDate = patch.StartDate
	}
	if patch.Deadline != nil {
		t.Deadline = patch.Deadline
	}
	t.UpdatedAt = now
}

// IsOverdue reports whether the task has a deadline strictly in the past
// and is still pending at the given instant.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Deadline == nil || t.Completed {
		return false
	}
	return t.Deadline.Before(now)
}

// ComparisonDate is the date the time-bucket filter compares against:
// the deadline when present, otherwise the creation time.
func (t *Task) ComparisonDate() time.Time {
	if t.Deadline != nil {
		return *t.Deadline
	}
	return t.CreatedAt
}
