// Package store holds the in-memory record stores the UI surfaces work
// against. Each store caches one collection, guards it with a mutex, and
// writes through to the persistence backend on every mutation.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/daybook/core/internal/domain/dates"
	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

// TaskStore caches the task collection and its transient filter.
type TaskStore struct {
	mu      sync.Mutex
	storage ports.TaskStorage
	logger  *logger.Logger

	tasks   []entities.Task
	filter  entities.TaskFilter
	loading bool

	now func() time.Time
}

// NewTaskStore builds an empty task store over the given storage.
func NewTaskStore(storage ports.TaskStorage, log *logger.Logger) *TaskStore {
	return &TaskStore{
		storage: storage,
		logger:  log.WithComponent("task-store"),
		tasks:   []entities.Task{},
		filter:  entities.DefaultTaskFilter(),
		now:     time.Now,
	}
}

// Load replaces the cache with the persisted collection.
func (s *TaskStore) Load(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	tasks := s.storage.GetAll(ctx)

	s.mu.Lock()
	s.tasks = tasks
	s.loading = false
	s.mu.Unlock()
}

// Loading reports whether a Load is in flight.
func (s *TaskStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Tasks returns a snapshot of the cached collection in insertion order.
func (s *TaskStore) Tasks() []entities.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Add persists a new task and appends it to the cache.
func (s *TaskStore) Add(ctx context.Context, form entities.TaskFormData) (*entities.Task, error) {
	task, err := s.storage.Add(ctx, form)
	if err != nil {
		s.logger.WithError(err).Errorw("add task failed", "title", form.Title)
		return nil, err
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, *task)
	s.mu.Unlock()
	return task, nil
}

// Update patches a task in storage and mirrors the result into the
// cache. A nil return means the id is unknown or the write failed.
func (s *TaskStore) Update(ctx context.Context, id string, patch entities.TaskPatch) *entities.Task {
	updated := s.storage.Update(ctx, id, patch)
	if updated == nil {
		return nil
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = *updated
			break
		}
	}
	s.mu.Unlock()
	return updated
}

// ToggleComplete flips the completion state of a task.
func (s *TaskStore) ToggleComplete(ctx context.Context, id string) *entities.Task {
	s.mu.Lock()
	var completed *bool
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			flipped := !s.tasks[i].Completed
			completed = &flipped
			break
		}
	}
	s.mu.Unlock()

	if completed == nil {
		return nil
	}
	return s.Update(ctx, id, entities.TaskPatch{Completed: completed})
}

// Delete removes a task from storage and the cache.
func (s *TaskStore) Delete(ctx context.Context, id string) bool {
	if !s.storage.Delete(ctx, id) {
		return false
	}

	s.mu.Lock()
	remaining := s.tasks[:0:0]
	for _, t := range s.tasks {
		if t.ID != id {
			remaining = append(remaining, t)
		}
	}
	s.tasks = remaining
	s.mu.Unlock()
	return true
}

// Replace overwrites the whole collection, in storage and cache. Used by
// the bridge save-all operation.
func (s *TaskStore) Replace(ctx context.Context, tasks []entities.Task) bool {
	if tasks == nil {
		tasks = []entities.Task{}
	}
	if !s.storage.SaveAll(ctx, tasks) {
		return false
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return true
}

// Clear drops the whole collection.
func (s *TaskStore) Clear(ctx context.Context) bool {
	if !s.storage.Clear(ctx) {
		return false
	}

	s.mu.Lock()
	s.tasks = []entities.Task{}
	s.mu.Unlock()
	return true
}

// SetFilter replaces the transient filter configuration. An unknown
// status falls back to passing everything.
func (s *TaskStore) SetFilter(filter entities.TaskFilter) {
	if !filter.Status.IsValid() {
		filter.Status = entities.StatusAll
	}
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
}

// Filter returns the active filter configuration.
func (s *TaskStore) Filter() entities.TaskFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Filtered applies the active filter to the cached collection. All
// clauses are conjunctive and the underlying order is preserved.
func (s *TaskStore) Filtered() []entities.Task {
	s.mu.Lock()
	tasks := make([]entities.Task, len(s.tasks))
	copy(tasks, s.tasks)
	filter := s.filter
	s.mu.Unlock()

	out := tasks[:0:0]
	for _, t := range tasks {
		if !matchesFilter(&t, filter) {
			continue
		}
		out = append(out, t)
	}
	if out == nil {
		out = []entities.Task{}
	}
	return out
}

func matchesFilter(t *entities.Task, filter entities.TaskFilter) bool {
	switch filter.Status {
	case entities.StatusPending:
		if t.Completed {
			return false
		}
	case entities.StatusCompleted:
		if !t.Completed {
			return false
		}
	}

	if filter.Bucket != nil {
		if filter.Date != nil {
			if !dates.InBucket(t.ComparisonDate(), *filter.Date, *filter.Bucket) {
				return false
			}
		} else if t.TimeBucket != *filter.Bucket {
			return false
		}
	}

	if filter.Priority != nil && t.Priority != *filter.Priority {
		return false
	}
	return true
}

// TasksInBucket returns the tasks classified under the given bucket.
// This matches the stored classification, not dates; use a filter with a
// reference date for date-anchored views.
func (s *TaskStore) TasksInBucket(bucket entities.TimeBucket) []entities.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []entities.Task{}
	for _, t := range s.tasks {
		if t.TimeBucket == bucket {
			out = append(out, t)
		}
	}
	return out
}

// Stats aggregates the cached collection in a single pass. Overdue is
// evaluated against the current instant, not cached state.
func (s *TaskStore) Stats() entities.TaskStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stats := entities.TaskStats{
		ByTimeBucket: make(map[entities.TimeBucket]entities.BucketStats),
		ByPriority:   make(map[entities.Priority]entities.BucketStats),
	}

	for i := range s.tasks {
		t := &s.tasks[i]
		stats.Total++
		if t.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}

		bucket := stats.ByTimeBucket[t.TimeBucket]
		bucket.Total++
		if t.Completed {
			bucket.Completed++
		}
		stats.ByTimeBucket[t.TimeBucket] = bucket

		prio := stats.ByPriority[t.Priority]
		prio.Total++
		if t.Completed {
			prio.Completed++
		}
		stats.ByPriority[t.Priority] = prio
	}

	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return stats
}
