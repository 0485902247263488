package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/ports"
)

// specialDateStore implements ports.SpecialDateStorage over the
// special-dates key.
type specialDateStore struct {
	s *Store
}

func (ss *specialDateStore) GetAll(ctx context.Context) []entities.SpecialDate {
	dates := []entities.SpecialDate{}
	if err := ss.s.getJSON(ctx, specialDatesKey, &dates); err != nil {
		ss.s.logger.LogStorageError("kv", "get-all-special-dates", err)
		return []entities.SpecialDate{}
	}
	return dates
}

func (ss *specialDateStore) SaveAll(ctx context.Context, dates []entities.SpecialDate) bool {
	if err := ss.s.setJSON(ctx, specialDatesKey, dates); err != nil {
		ss.s.logger.LogStorageError("kv", "save-all-special-dates", err)
		return false
	}
	return true
}

func (ss *specialDateStore) Add(ctx context.Context, form entities.SpecialDateFormData) (*entities.SpecialDate, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	dates := ss.GetAll(ctx)
	sd := entities.NewSpecialDate(form, time.Now())
	dates = append(dates, sd)
	if err := ss.s.setJSON(ctx, specialDatesKey, dates); err != nil {
		return nil, fmt.Errorf("add special date: %w: %w", entities.ErrStorageWrite, err)
	}
	return &sd, nil
}

func (ss *specialDateStore) Update(ctx context.Context, id string, patch entities.SpecialDatePatch) *entities.SpecialDate {
	dates := ss.GetAll(ctx)
	for i := range dates {
		if dates[i].ID != id {
			continue
		}
		dates[i].Apply(patch, time.Now())
		if !ss.SaveAll(ctx, dates) {
			return nil
		}
		updated := dates[i]
		return &updated
	}
	return nil
}

func (ss *specialDateStore) Delete(ctx context.Context, id string) bool {
	dates := ss.GetAll(ctx)
	remaining := dates[:0:0]
	for _, sd := range dates {
		if sd.ID != id {
			remaining = append(remaining, sd)
		}
	}
	if len(remaining) == len(dates) {
		return false
	}
	return ss.SaveAll(ctx, remaining)
}

func (ss *specialDateStore) Clear(ctx context.Context) bool {
	if err := ss.s.drop(ctx, specialDatesKey); err != nil {
		ss.s.logger.LogStorageError("kv", "clear-special-dates", err)
		return false
	}
	return true
}

func (ss *specialDateStore) ExportAll(ctx context.Context) []entities.SpecialDate {
	return ss.GetAll(ctx)
}

func (ss *specialDateStore) ImportAll(ctx context.Context, dates []entities.SpecialDate) ports.ImportResult {
	result := ports.ImportResult{}
	merged := ss.GetAll(ctx)
	for i, sd := range dates {
		if reasons := entities.ValidateRecord(sd); reasons != nil {
			result.Dropped++
			result.Rejected = append(result.Rejected, ports.RejectedRecord{Index: i, Reasons: reasons})
			continue
		}
		merged = append(merged, sd)
		result.Imported++
	}
	if !ss.SaveAll(ctx, merged) {
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
