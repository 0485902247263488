package filestore

import (
	"context"
	"fmt"
	"time"

	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/ports"
)

// taskStore implements ports.TaskStorage over the shared document.
type taskStore struct {
	s *Store
}

func (ts *taskStore) GetAll(ctx context.Context) []entities.Task {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	return ts.s.read().Tasks
}

func (ts *taskStore) SaveAll(ctx context.Context, tasks []entities.Task) bool {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	doc := ts.s.read()
	doc.Tasks = tasks
	if err := ts.s.write(&doc); err != nil {
		ts.s.logger.LogStorageError("file", "save-all-tasks", err)
		return false
	}
	return true
}

func (ts *taskStore) Add(ctx context.Context, form entities.TaskFormData) (*entities.Task, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	doc := ts.s.read()
	task := entities.NewTask(form, time.Now())
	doc.Tasks = append(doc.Tasks, task)
	if err := ts.s.write(&doc); err != nil {
		return nil, fmt.Errorf("add task: %w: %w", entities.ErrStorageWrite, err)
	}
	return &task, nil
}

func (ts *taskStore) Update(ctx context.Context, id string, patch entities.TaskPatch) *entities.Task {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	doc := ts.s.read()
	for i := range doc.Tasks {
		if doc.Tasks[i].ID != id {
			continue
		}
		doc.Tasks[i].Apply(patch, time.Now())
		if err := ts.s.write(&doc); err != nil {
			ts.s.logger.LogStorageError("file", "update-task", err)
			return nil
		}
		updated := doc.Tasks[i]
		return &updated
	}
	return nil
}

func (ts *taskStore) Delete(ctx context.Context, id string) bool {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	doc := ts.s.read()
	remaining := doc.Tasks[:0:0]
	for _, t := range doc.Tasks {
		if t.ID != id {
			remaining = append(remaining, t)
		}
	}
	if len(remaining) == len(doc.Tasks) {
		return false
	}
	doc.Tasks = remaining
	if err := ts.s.write(&doc); err != nil {
		ts.s.logger.LogStorageError("file", "delete-task", err)
		return false
	}
	return true
}

func (ts *taskStore) Clear(ctx context.Context) bool {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	doc := ts.s.read()
	doc.Tasks = []entities.Task{}
	if err := ts.s.write(&doc); err != nil {
		ts.s.logger.LogStorageError("file", "clear-tasks", err)
		return false
	}
	return true
}

func (ts *taskStore) ExportAll(ctx context.Context) []entities.Task {
	return ts.GetAll(ctx)
}

func (ts *taskStore) ImportAll(ctx context.Context, tasks []entities.Task) ports.ImportResult {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	result := ports.ImportResult{}
	doc := ts.s.read()
	for i, t := range tasks {
		if reasons := entities.ValidateRecord(t); reasons != nil {
			result.Dropped++
			result.Rejected = append(result.Rejected, ports.RejectedRecord{Index: i, Reasons: reasons})
			continue
		}
		doc.Tasks = append(doc.Tasks, t)
		result.Imported++
	}
	if err := ts.s.write(&doc); err != nil {
		ts.s.logger.LogStorageError("file", "import-tasks", err)
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
