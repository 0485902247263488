package filestore

import (
	"context"
	"fmt"
	"time"

	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/ports"
)

// specialDateStore implements ports.SpecialDateStorage over the shared
// document.
type specialDateStore struct {
	s *Store
}

func (ss *specialDateStore) GetAll(ctx context.Context) []entities.SpecialDate {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	return ss.s.read().SpecialDates
}

func (ss *specialDateStore) SaveAll(ctx context.Context, dates []entities.SpecialDate) bool {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	doc := ss.s.read()
	doc.SpecialDates = dates
	if err := ss.s.write(&doc); err != nil {
		ss.s.logger.LogStorageError("file", "save-all-special-dates", err)
		return false
	}
	return true
}

func (ss *specialDateStore) Add(ctx context.Context, form entities.SpecialDateFormData) (*entities.SpecialDate, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	doc := ss.s.read()
	sd := entities.NewSpecialDate(form, time.Now())
	doc.SpecialDates = append(doc.SpecialDates, sd)
	if err := ss.s.write(&doc); err != nil {
		return nil, fmt.Errorf("add special date: %w: %w", entities.ErrStorageWrite, err)
	}
	return &sd, nil
}

func (ss *specialDateStore) Update(ctx context.Context, id string, patch entities.SpecialDatePatch) *entities.SpecialDate {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	doc := ss.s.read()
	for i := range doc.SpecialDates {
		if doc.SpecialDates[i].ID != id {
			continue
		}
		doc.SpecialDates[i].Apply(patch, time.Now())
		if err := ss.s.write(&doc); err != nil {
			ss.s.logger.LogStorageError("file", "update-special-date", err)
			return nil
		}
		updated := doc.SpecialDates[i]
		return &updated
	}
	return nil
}

func (ss *specialDateStore) Delete(ctx context.Context, id string) bool {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	doc := ss.s.read()
	remaining := doc.SpecialDates[:0:0]
	for _, sd := range doc.SpecialDates {
		if sd.ID != id {
			remaining = append(remaining, sd)
		}
	}
	if len(remaining) == len(doc.SpecialDates) {
		return false
	}
	doc.SpecialDates = remaining
	if err := ss.s.write(&doc); err != nil {
		ss.s.logger.LogStorageError("file", "delete-special-date", err)
		return false
	}
	return true
}

func (ss *specialDateStore) Clear(ctx context.Context) bool {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	doc := ss.s.read()
	doc.SpecialDates = []entities.SpecialDate{}
	if err := ss.s.write(&doc); err != nil {
		ss.s.logger.LogStorageError("file", "clear-special-dates", err)
		return false
	}
	return true
}

func (ss *specialDateStore) ExportAll(ctx context.Context) []entities.SpecialDate {
	return ss.GetAll(ctx)
}

func (ss *specialDateStore) ImportAll(ctx context.Context, dates []entities.SpecialDate) ports.ImportResult {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	result := ports.ImportResult{}
	doc := ss.s.read()
	for i, sd := range dates {
		if reasons := entities.ValidateRecord(sd); reasons != nil {
			result.Dropped++
			result.Rejected = append(result.Rejected, ports.RejectedRecord{Index: i, Reasons: reasons})
			continue
		}
		doc.SpecialDates = append(doc.SpecialDates, sd)
		result.Imported++
	}
	if err := ss.s.write(&doc); err != nil {
		ss.s.logger.LogStorageError("file", "import-special-dates", err)
		result.Imported = 0
		return result
	}
	result.Saved = true
	if result.Dropped > 0 {
		ss.s.logger.Warnw("dropped malformed records during import",
			"collection", "special-dates", "dropped", result.Dropped)
	}
	return result
}
