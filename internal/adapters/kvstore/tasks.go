package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/ports"
)

// taskStore implements ports.TaskStorage over the tasks key.
type taskStore struct {
	s *Store
}

func (ts *taskStore) GetAll(ctx context.Context) []entities.Task {
	tasks := []entities.Task{}
	if err := ts.s.getJSON(ctx, tasksKey, &tasks); err != nil {
		ts.s.logger.LogStorageError("kv", "get-all-tasks", err)
		return []entities.Task{}
	}
	return tasks
}

func (ts *taskStore) SaveAll(ctx context.Context, tasks []entities.Task) bool {
	if err := ts.s.setJSON(ctx, tasksKey, tasks); err != nil {
		ts.s.logger.LogStorageError("kv", "save-all-tasks", err)
		return false
	}
	return true
}

func (ts *taskStore) Add(ctx context.Context, form entities.TaskFormData) (*entities.Task, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	tasks := ts.GetAll(ctx)
	task := entities.NewTask(form, time.Now())
	tasks = append(tasks, task)
	if err := ts.s.setJSON(ctx, tasksKey, tasks); err != nil {
		return nil, fmt.Errorf("add task: %w: %w", entities.ErrStorageWrite, err)
	}
	return &task, nil
}

func (ts *taskStore) Update(ctx context.Context, id string, patch entities.TaskPatch) *entities.Task {
	tasks := ts.GetAll(ctx)
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		tasks[i].Apply(patch, time.Now())
		if !ts.SaveAll(ctx, tasks) {
			return nil
		}
		updated := tasks[i]
		return &updated
	}
	return nil
}

func (ts *taskStore) Delete(ctx context.Context, id string) bool {
	tasks := ts.GetAll(ctx)
	remaining := tasks[:0:0]
	for _, t := range tasks {
		if t.ID != id {
			remaining = append(remaining, t)
		}
	}
	if len(remaining) == len(tasks) {
		return false
	}
	return ts.SaveAll(ctx, remaining)
}

func (ts *taskStore) Clear(ctx context.Context) bool {
	if err := ts.s.drop(ctx, tasksKey); err != nil {
		ts.s.logger.LogStorageError("kv", "clear-tasks", err)
		return false
	}
	return true
}

func (ts *taskStore) ExportAll(ctx context.Context) []entities.Task {
	return ts.GetAll(ctx)
}

func (ts *taskStore) ImportAll(ctx context.Context, tasks []entities.Task) ports.ImportResult {
	result := ports.ImportResult{}
	merged := ts.GetAll(ctx)
	for i, t := range tasks {
		if reasons := entities.ValidateRecord(t); reasons != nil {
			result.Dropped++
			result.Rejected = append(result.Rejected, ports.RejectedRecord{Index: i, Reasons: reasons})
			continue
		}
		merged = append(merged, t)
		result.Imported++
	}
	if !ts.SaveAll(ctx, merged) {
		result.Imported = 0
		return result
	}
	result.Saved = true
	if result.Dropped > 0 {
		ts.s.logger.Warnw("dropped malformed records during import",
			"collection", "tasks", "dropped", result.Dropped)
	}
	return result
}
