package filestore

import (
	"context"
	"fmt"
	"time"

	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/ports"
)

// noteStore implements ports.NoteStorage over the shared document.
type noteStore struct {
	s *Store
}

func (ns *noteStore) GetAll(ctx context.Context) []entities.Note {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	return ns.s.read().Notes
}

func (ns *noteStore) SaveAll(ctx context.Context, notes []entities.Note) bool {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	doc := ns.s.read()
	doc.Notes = notes
	if err := ns.s.write(&doc); err != nil {
		ns.s.logger.LogStorageError("file", "save-all-notes", err)
		return false
	}
	return true
}

func (ns *noteStore) Add(ctx context.Context, form entities.NoteFormData) (*entities.Note, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	doc := ns.s.read()
	note := entities.NewNote(form, time.Now())
	doc.Notes = append(doc.Notes, note)
	if err := ns.s.write(&doc); err != nil {
		return nil, fmt.Errorf("add note: %w: %w", entities.ErrStorageWrite, err)
	}
	return &note, nil
}

func (ns *noteStore) Update(ctx context.Context, id string, patch entities.NotePatch) *entities.Note {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	doc := ns.s.read()
	for i := range doc.Notes {
		if doc.Notes[i].ID != id {
			continue
		}
		doc.Notes[i].Apply(patch, time.Now())
		if err := ns.s.write(&doc); err != nil {
			ns.s.logger.LogStorageError("file", "update-note", err)
			return nil
		}
		updated := doc.Notes[i]
		return &updated
	}
	return nil
}

func (ns *noteStore) Delete(ctx context.Context, id string) bool {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	doc := ns.s.read()
	remaining := doc.Notes[:0:0]
	for _, n := range doc.Notes {
		if n.ID != id {
			remaining = append(remaining, n)
		}
	}
	if len(remaining) == len(doc.Notes) {
		return false
	}
	doc.Notes = remaining
	if err := ns.s.write(&doc); err != nil {
		ns.s.logger.LogStorageError("file", "delete-note", err)
		return false
	}
	return true
}

func (ns *noteStore) Clear(ctx context.Context) bool {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	doc := ns.s.read()
	doc.Notes = []entities.Note{}
	if err := ns.s.write(&doc); err != nil {
		ns.s.logger.LogStorageError("file", "clear-notes", err)
		return false
	}
	return true
}

func (ns *noteStore) ExportAll(ctx context.Context) []entities.Note {
	return ns.GetAll(ctx)
}

func (ns *noteStore) ImportAll(ctx context.Context, notes []entities.Note) ports.ImportResult {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	result := ports.ImportResult{}
	doc := ns.s.read()
	for i, n := range notes {
		if reasons := entities.ValidateRecord(n); reasons != nil {
			result.Dropped++
			result.Rejected = append(result.Rejected, ports.RejectedRecord{Index: i, Reasons: reasons})
			continue
		}
		doc.Notes = append(doc.Notes, n)
		result.Imported++
	}
	if err := ns.s.write(&doc); err != nil {
		ns.s.logger.LogStorageError("file", "import-notes", err)
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
