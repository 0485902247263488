package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/ports"
)

// noteStore implements ports.NoteStorage over the notes key.
type noteStore struct {
	s *Store
}

func (ns *noteStore) GetAll(ctx context.Context) []entities.Note {
	notes := []entities.Note{}
	if err := ns.s.getJSON(ctx, notesKey, &notes); err != nil {
		ns.s.logger.LogStorageError("kv", "get-all-notes", err)
		return []entities.Note{}
	}
	return notes
}

func (ns *noteStore) SaveAll(ctx context.Context, notes []entities.Note) bool {
	if err := ns.s.setJSON(ctx, notesKey, notes); err != nil {
		ns.s.logger.LogStorageError("kv", "save-all-notes", err)
		return false
	}
	return true
}

func (ns *noteStore) Add(ctx context.Context, form entities.NoteFormData) (*entities.Note, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	notes := ns.GetAll(ctx)
	note := entities.NewNote(form, time.Now())
	notes = append(notes, note)
	if err := ns.s.setJSON(ctx, notesKey, notes); err != nil {
		return nil, fmt.Errorf("add note: %w: %w", entities.ErrStorageWrite, err)
	}
	return &note, nil
}

func (ns *noteStore) Update(ctx context.Context, id string, patch entities.NotePatch) *entities.Note {
	notes := ns.GetAll(ctx)
	for i := range notes {
		if notes[i].ID != id {
			continue
		}
		notes[i].Apply(patch, time.Now())
		if !ns.SaveAll(ctx, notes) {
			return nil
		}
		updated := notes[i]
		return &updated
	}
	return nil
}

func (ns *noteStore) Delete(ctx context.Context, id string) bool {
	notes := ns.GetAll(ctx)
	remaining := notes[:0:0]
	for _, n := range notes {
		if n.ID != id {
			remaining = append(remaining, n)
		}
	}
	if len(remaining) == len(notes) {
		return false
	}
	return ns.SaveAll(ctx, remaining)
}

func (ns *noteStore) Clear(ctx context.Context) bool {
	if err := ns.s.drop(ctx, notesKey); err != nil {
		ns.s.logger.LogStorageError("kv", "clear-notes", err)
		return false
	}
	return true
}

func (ns *noteStore) ExportAll(ctx context.Context) []entities.Note {
	return ns.GetAll(ctx)
}

func (ns *noteStore) ImportAll(ctx context.Context, notes []entities.Note) ports.ImportResult {
	result := ports.ImportResult{}
	merged := ns.GetAll(ctx)
	for i, n := range notes {
		if reasons := entities.ValidateRecord(n); reasons != nil {
			result.Dropped++
			result.Rejected = append(result.Rejected, ports.RejectedRecord{Index: i, Reasons: reasons})
			continue
		}
		merged = append(merged, n)
		result.Imported++
	}
	if !ns.SaveAll(ctx, merged) {
		result.Imported = 0
		return result
	}
	result.Saved = true
	if result.Dropped > 0 {
		ns.s.logger.Warnw("dropped malformed records during import",
			"collection", "notes", "dropped", result.Dropped)
	}
	return result
}
