package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/daybook/core/internal/adapters/filestore"
	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

func newFileBackend(t *testing.T) ports.Backend {
	t.Helper()
	path := filepath.Join(t.TempDir(), "daybook.json")
	backend, err := filestore.New(path, logger.NewNop())
	require.NoError(t, err)
	return backend
}

func newTestTaskStore(t *testing.T) *TaskStore {
	t.Helper()
	return NewTaskStore(newFileBackend(t).Tasks(), logger.NewNop())
}

func TestTaskStoreAddAndLoad(t *testing.T) {
	backend := newFileBackend(t)
	ctx := context.Background()

	s := NewTaskStore(backend.Tasks(), logger.NewNop())
	_, err := s.Add(ctx, entities.TaskFormData{Title: "First"})
	require.NoError(t, err)
	_, err = s.Add(ctx, entities.TaskFormData{Title: "Second"})
	require.NoError(t, err)

	// A fresh store over the same backend sees the persisted tasks.
	reloaded := NewTaskStore(backend.Tasks(), logger.NewNop())
	reloaded.Load(ctx)
	tasks := reloaded.Tasks()
	require.Len(t, tasks, 2)
	require.Equal(t, "First", tasks[0].Title)
	require.Equal(t, "Second", tasks[1].Title)
	require.False(t, reloaded.Loading())
}

func TestTaskStoreDefaultFilterPreservesOrder(t *testing.T) {
	s := newTestTaskStore(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := s.Add(ctx, entities.TaskFormData{Title: title})
		require.NoError(t, err)
	}

	filtered := s.Filtered()
	require.Len(t, filtered, 3)
	require.Equal(t, "a", filtered[0].Title)
	require.Equal(t, "b", filtered[1].Title)
	require.Equal(t, "c", filtered[2].Title)
}

func TestTaskStoreFilterConjunction(t *testing.T) {
	s := newTestTaskStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, entities.TaskFormData{Title: "high week", Priority: entities.PriorityHigh, TimeBucket: entities.BucketWeek})
	require.NoError(t, err)
	_, err = s.Add(ctx, entities.TaskFormData{Title: "low week", Priority: entities.PriorityLow, TimeBucket: entities.BucketWeek})
	require.NoError(t, err)
	high, err := s.Add(ctx, entities.TaskFormData{Title: "high day", Priority: entities.PriorityHigh, TimeBucket: entities.BucketDay})
	require.NoError(t, err)
	done := s.ToggleComplete(ctx, high.ID)
	require.NotNil(t, done)

	week := entities.BucketWeek
	highPrio := entities.PriorityHigh
	s.SetFilter(entities.TaskFilter{Status: entities.StatusPending, Bucket: &week, Priority: &highPrio})

	filtered := s.Filtered()
	require.Len(t, filtered, 1)
	require.Equal(t, "high week", filtered[0].Title)
}

func TestTaskStoreDateAnchoredBucketFilter(t *testing.T) {
	s := newTestTaskStore(t)
	ctx := context.Background()

	deadline := time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC) // Wednesday
	_, err := s.Add(ctx, entities.TaskFormData{Title: "due this week", Deadline: &deadline})
	require.NoError(t, err)
	farDeadline := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	_, err = s.Add(ctx, entities.TaskFormData{Title: "due later", Deadline: &farDeadline})
	require.NoError(t, err)

	week := entities.BucketWeek
	monday := time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)
	s.SetFilter(entities.TaskFilter{Status: entities.StatusAll, Bucket: &week, Date: &monday})

	filtered := s.Filtered()
	require.Len(t, filtered, 1)
	require.Equal(t, "due this week", filtered[0].Title)
}

func TestTaskStoreToggleCompleteUnknownID(t *testing.T) {
	s := newTestTaskStore(t)
	require.Nil(t, s.ToggleComplete(context.Background(), "missing"))
}

func TestTaskStoreDeleteSyncsCache(t *testing.T) {
	s := newTestTaskStore(t)
	ctx := context.Background()

	task, err := s.Add(ctx, entities.TaskFormData{Title: "Doomed"})
	require.NoError(t, err)

	require.True(t, s.Delete(ctx, task.ID))
	require.False(t, s.Delete(ctx, task.ID))
	require.Empty(t, s.Tasks())
}

func TestTaskStoreReplace(t *testing.T) {
	backend := newFileBackend(t)
	ctx := context.Background()
	s := NewTaskStore(backend.Tasks(), logger.NewNop())

	_, err := s.Add(ctx, entities.TaskFormData{Title: "Old"})
	require.NoError(t, err)

	now := time.Now()
	replacement := []entities.Task{
		{ID: "r1", Title: "New", CreatedAt: now, UpdatedAt: now},
	}
	require.True(t, s.Replace(ctx, replacement))

	require.Len(t, s.Tasks(), 1)
	require.Equal(t, "r1", s.Tasks()[0].ID)
	persisted := backend.Tasks().GetAll(ctx)
	require.Len(t, persisted, 1)
	require.Equal(t, "r1", persisted[0].ID)
}

func TestTaskStoreStats(t *testing.T) {
	s := newTestTaskStore(t)
	ctx := context.Background()

	past := time.Now().Add(-24 * time.Hour)
	_, err := s.Add(ctx, entities.TaskFormData{Title: "Overdue", Priority: entities.PriorityHigh, Deadline: &past})
	require.NoError(t, err)
	done, err := s.Add(ctx, entities.TaskFormData{Title: "Done", TimeBucket: entities.BucketWeek})
	require.NoError(t, err)
	require.NotNil(t, s.ToggleComplete(ctx, done.ID))
	_, err = s.Add(ctx, entities.TaskFormData{Title: "Plain"})
	require.NoError(t, err)

	stats := s.Stats()
	require.Equal(t, 3, stats.Total)
	require.Equal(t, 1, stats.Completed)
	require.Equal(t, 2, stats.Pending)
	require.Equal(t, 1, stats.Overdue)
	require.InDelta(t, 100.0/3.0, stats.CompletionRate, 1e-9)
	require.Equal(t, entities.BucketStats{Total: 2, Completed: 0}, stats.ByTimeBucket[entities.BucketDay])
	require.Equal(t, entities.BucketStats{Total: 1, Completed: 1}, stats.ByTimeBucket[entities.BucketWeek])
	require.Equal(t, entities.BucketStats{Total: 1}, stats.ByPriority[entities.PriorityHigh])
}

func TestTaskStoreOverdueFlipsWithClock(t *testing.T) {
	s := newTestTaskStore(t)
	ctx := context.Background()

	deadline := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	_, err := s.Add(ctx, entities.TaskFormData{Title: "Deadline task", Deadline: &deadline})
	require.NoError(t, err)

	s.now = func() time.Time { return deadline.Add(-time.Hour) }
	require.Equal(t, 0, s.Stats().Overdue)

	s.now = func() time.Time { return deadline.Add(time.Hour) }
	require.Equal(t, 1, s.Stats().Overdue)
}

func TestTaskStoreTasksInBucket(t *testing.T) {
	s := newTestTaskStore(t)
	ctx := context.Background()

	// The bucket query matches the stored classification, regardless of
	// any deadline.
	deadline := time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC)
	_, err := s.Add(ctx, entities.TaskFormData{Title: "weekly", TimeBucket: entities.BucketWeek, Deadline: &deadline})
	require.NoError(t, err)
	_, err = s.Add(ctx, entities.TaskFormData{Title: "also weekly", TimeBucket: entities.BucketWeek})
	require.NoError(t, err)
	_, err = s.Add(ctx, entities.TaskFormData{Title: "daily"})
	require.NoError(t, err)

	weekly := s.TasksInBucket(entities.BucketWeek)
	require.Len(t, weekly, 2)
	require.Equal(t, "weekly", weekly[0].Title)
	require.Equal(t, "also weekly", weekly[1].Title)
	require.Len(t, s.TasksInBucket(entities.BucketDay), 1)
	require.Empty(t, s.TasksInBucket(entities.BucketYear))
}

func TestTaskStoreWeekFilterRunsMondayThroughSunday(t *testing.T) {
	s := newTestTaskStore(t)
	ctx := context.Background()

	monday := time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, time.June, 22, 0, 0, 0, 0, time.UTC)
	nextMonday := time.Date(2025, time.June, 23, 0, 0, 0, 0, time.UTC)
	for title, deadline := range map[string]time.Time{
		"start of week": monday,
		"end of week":   sunday,
		"next week":     nextMonday,
	} {
		d := deadline
		_, err := s.Add(ctx, entities.TaskFormData{Title: title, Deadline: &d})
		require.NoError(t, err)
	}

	// Anchoring mid-week picks up the whole Monday-to-Sunday span.
	week := entities.BucketWeek
	wednesday := time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC)
	s.SetFilter(entities.TaskFilter{Status: entities.StatusAll, Bucket: &week, Date: &wednesday})

	titles := []string{}
	for _, task := range s.Filtered() {
		titles = append(titles, task.Title)
	}
	require.ElementsMatch(t, []string{"start of week", "end of week"}, titles)
}

func TestTaskStoreSetFilterNormalizesUnknownStatus(t *testing.T) {
	s := newTestTaskStore(t)
	ctx := context.Background()

	done, err := s.Add(ctx, entities.TaskFormData{Title: "done"})
	require.NoError(t, err)
	require.NotNil(t, s.ToggleComplete(ctx, done.ID))
	_, err = s.Add(ctx, entities.TaskFormData{Title: "open"})
	require.NoError(t, err)

	s.SetFilter(entities.TaskFilter{Status: "archived"})
	require.Equal(t, entities.StatusAll, s.Filter().Status)
	require.Len(t, s.Filtered(), 2)
}
