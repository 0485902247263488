package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/infrastructure/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "daybook.json")
	s, err := New(path, logger.NewNop())
	require.NoError(t, err)
	return s
}

func TestNewCreatesDefaultDocument(t *testing.T) {
	s := newTestStore(t)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	var doc document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Empty(t, doc.Tasks)
	require.Empty(t, doc.Notes)
	require.Empty(t, doc.SpecialDates)
	require.Equal(t, entities.DefaultSettings(), doc.Settings)
	require.Equal(t, schemaVersion, doc.Metadata.Version)
	require.False(t, doc.Metadata.CreatedAt.IsZero())
}

func TestTaskAddAppliesDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.Tasks().Add(ctx, entities.TaskFormData{Title: "Buy milk"})
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)
	require.Equal(t, entities.PriorityMedium, task.Priority)
	require.Equal(t, entities.BucketDay, task.TimeBucket)

	all := s.Tasks().GetAll(ctx)
	require.Len(t, all, 1)
	require.Equal(t, task.ID, all[0].ID)
}

func TestAddRejectsInvalidForm(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Tasks().Add(ctx, entities.TaskFormData{Title: "  "})
	require.ErrorIs(t, err, entities.ErrEmptyTitle)
	_, err = s.Tasks().Add(ctx, entities.TaskFormData{Title: "ok", Priority: "urgent"})
	require.ErrorIs(t, err, entities.ErrInvalidPriority)
	_, err = s.Tasks().Add(ctx, entities.TaskFormData{Title: "ok", TimeBucket: "decade"})
	require.ErrorIs(t, err, entities.ErrInvalidTimeBucket)
	_, err = s.SpecialDates().Add(ctx, entities.SpecialDateFormData{Title: "bad", Date: "tomorrow"})
	require.Error(t, err)

	// Nothing was persisted.
	require.Empty(t, s.Tasks().GetAll(ctx))
	require.Empty(t, s.SpecialDates().GetAll(ctx))
}

func TestTaskUpdateUnknownIDReturnsNil(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	title := "anything"
	require.Nil(t, s.Tasks().Update(ctx, "no-such-id", entities.TaskPatch{Title: &title}))
}

func TestTaskUpdatePatchesAndStamps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.Tasks().Add(ctx, entities.TaskFormData{Title: "Draft"})
	require.NoError(t, err)

	completed := true
	updated := s.Tasks().Update(ctx, task.ID, entities.TaskPatch{Completed: &completed})
	require.NotNil(t, updated)
	require.True(t, updated.Completed)
	require.Equal(t, "Draft", updated.Title)
	require.False(t, updated.UpdatedAt.Before(task.UpdatedAt))
}

func TestTaskDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.Tasks().Add(ctx, entities.TaskFormData{Title: "Temp"})
	require.NoError(t, err)

	require.True(t, s.Tasks().Delete(ctx, task.ID))
	require.False(t, s.Tasks().Delete(ctx, task.ID))
	require.Empty(t, s.Tasks().GetAll(ctx))
}

func TestTaskClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Tasks().Add(ctx, entities.TaskFormData{Title: "One"})
	require.NoError(t, err)
	_, err = s.Tasks().Add(ctx, entities.TaskFormData{Title: "Two"})
	require.NoError(t, err)

	require.True(t, s.Tasks().Clear(ctx))
	require.Empty(t, s.Tasks().GetAll(ctx))
}

func TestCorruptDocumentReadsAsEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Tasks().Add(ctx, entities.TaskFormData{Title: "Lost"})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	require.Empty(t, s.Tasks().GetAll(ctx))
	require.Empty(t, s.Notes().GetAll(ctx))
}

func TestImportDropsMalformedRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	incoming := []entities.Task{
		{ID: "keep-1", Title: "Valid", Priority: entities.PriorityLow, TimeBucket: entities.BucketDay, CreatedAt: now, UpdatedAt: now},
		{ID: "drop-1", Title: "", CreatedAt: now, UpdatedAt: now},
		{ID: "keep-2", Title: "Also valid", CreatedAt: now, UpdatedAt: now},
	}

	result := s.Tasks().ImportAll(ctx, incoming)
	require.True(t, result.Saved)
	require.Equal(t, 2, result.Imported)
	require.Equal(t, 1, result.Dropped)
	require.Len(t, result.Rejected, 1)
	require.Equal(t, 1, result.Rejected[0].Index)

	all := s.Tasks().GetAll(ctx)
	require.Len(t, all, 2)
	require.Equal(t, "keep-1", all[0].ID)
	require.Equal(t, "keep-2", all[1].ID)
}

func TestImportMergesIntoExisting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	existing, err := s.Tasks().Add(ctx, entities.TaskFormData{Title: "Already here"})
	require.NoError(t, err)

	now := time.Now()
	result := s.Tasks().ImportAll(ctx, []entities.Task{
		{ID: "imported-1", Title: "New", CreatedAt: now, UpdatedAt: now},
	})
	require.True(t, result.Saved)

	all := s.Tasks().GetAll(ctx)
	require.Len(t, all, 2)
	require.Equal(t, existing.ID, all[0].ID)
	require.Equal(t, "imported-1", all[1].ID)
}

func TestNoteTagsNeverNull(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	note, err := s.Notes().Add(ctx, entities.NoteFormData{Title: "No tags"})
	require.NoError(t, err)
	require.NotNil(t, note.Tags)
	require.Empty(t, note.Tags)
}

func TestSettingsMerge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.Equal(t, entities.DefaultSettings(), s.Settings().Get(ctx))

	theme := "dark"
	require.True(t, s.Settings().Save(ctx, entities.SettingsPatch{Theme: &theme}))

	got := s.Settings().Get(ctx)
	require.Equal(t, "dark", got.Theme)
	require.Equal(t, "en-US", got.Language)
	require.True(t, got.AutoSave)
}

func TestBackupWritesSibling(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Tasks().Add(ctx, entities.TaskFormData{Title: "Back me up"})
	require.NoError(t, err)

	backupPath, err := s.Backup()
	require.NoError(t, err)
	require.Equal(t, filepath.Dir(s.Path()), filepath.Dir(backupPath))

	original, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	copied, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	require.Equal(t, original, copied)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	done, err := s.Tasks().Add(ctx, entities.TaskFormData{Title: "Done"})
	require.NoError(t, err)
	_, err = s.Tasks().Add(ctx, entities.TaskFormData{Title: "Pending"})
	require.NoError(t, err)
	completed := true
	require.NotNil(t, s.Tasks().Update(ctx, done.ID, entities.TaskPatch{Completed: &completed}))
	_, err = s.Notes().Add(ctx, entities.NoteFormData{Title: "A note"})
	require.NoError(t, err)

	stats := s.Stats()
	require.Equal(t, 2, stats.TotalTasks)
	require.Equal(t, 1, stats.CompletedTasks)
	require.Equal(t, 1, stats.PendingTasks)
	require.Equal(t, 1, stats.Notes)
	require.Greater(t, stats.FileSize, int64(0))
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestStore(t)
	dst := newTestStore(t)
	ctx := context.Background()

	_, err := src.Tasks().Add(ctx, entities.TaskFormData{Title: "Carry me"})
	require.NoError(t, err)
	_, err = src.SpecialDates().Add(ctx, entities.SpecialDateFormData{Title: "New Year", Date: "2026-01-01", Recurring: true})
	require.NoError(t, err)

	tasks := src.Tasks().ExportAll(ctx)
	specialDates := src.SpecialDates().ExportAll(ctx)

	require.True(t, dst.Tasks().ImportAll(ctx, tasks).Saved)
	require.True(t, dst.SpecialDates().ImportAll(ctx, specialDates).Saved)

	require.Equal(t, tasks, dst.Tasks().GetAll(ctx))
	require.Equal(t, specialDates, dst.SpecialDates().GetAll(ctx))
}
