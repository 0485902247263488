package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/daybook/core/internal/domain/dates"
	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

// upcomingWindowDays is the default horizon of the upcoming view and of
// the Upcoming counter in stats.
const upcomingWindowDays = 7

// SpecialDateStore caches the special date collection and its transient
// filter.
type SpecialDateStore struct {
	mu      sync.Mutex
	storage ports.SpecialDateStorage
	logger  *logger.Logger

	specialDates []entities.SpecialDate
	filter       entities.SpecialDateFilter
	loading      bool

	now func() time.Time
}

// NewSpecialDateStore builds an empty special date store over the given
// storage.
func NewSpecialDateStore(storage ports.SpecialDateStorage, log *logger.Logger) *SpecialDateStore {
	return &SpecialDateStore{
		storage:      storage,
		logger:       log.WithComponent("special-date-store"),
		specialDates: []entities.SpecialDate{},
		filter:       entities.SpecialFilterAll,
		now:          time.Now,
	}
}

// Load replaces the cache with the persisted collection.
func (s *SpecialDateStore) Load(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	specialDates := s.storage.GetAll(ctx)

	s.mu.Lock()
	s.specialDates = specialDates
	s.loading = false
	s.mu.Unlock()
}

// Loading reports whether a Load is in flight.
func (s *SpecialDateStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SpecialDates returns a snapshot of the cached collection.
func (s *SpecialDateStore) SpecialDates() []entities.SpecialDate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.SpecialDate, len(s.specialDates))
	copy(out, s.specialDates)
	return out
}

// Get returns the cached special date with the given id, or nil.
func (s *SpecialDateStore) Get(id string) *entities.SpecialDate {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.specialDates {
		if s.specialDates[i].ID == id {
			sd := s.specialDates[i]
			return &sd
		}
	}
	return nil
}

// Add persists a new special date and appends it to the cache.
func (s *SpecialDateStore) Add(ctx context.Context, form entities.SpecialDateFormData) (*entities.SpecialDate, error) {
	sd, err := s.storage.Add(ctx, form)
	if err != nil {
		s.logger.WithError(err).Errorw("add special date failed", "title", form.Title)
		return nil, err
	}

	s.mu.Lock()
	s.specialDates = append(s.specialDates, *sd)
	s.mu.Unlock()
	return sd, nil
}

// Update patches a special date in storage and mirrors the result into
// the cache. A nil return means the id is unknown or the write failed.
func (s *SpecialDateStore) Update(ctx context.Context, id string, patch entities.SpecialDatePatch) *entities.SpecialDate {
	updated := s.storage.Update(ctx, id, patch)
	if updated == nil {
		return nil
	}

	s.mu.Lock()
	for i := range s.specialDates {
		if s.specialDates[i].ID == id {
			s.specialDates[i] = *updated
			break
		}
	}
	s.mu.Unlock()
	return updated
}

// Delete removes a special date from storage and the cache.
func (s *SpecialDateStore) Delete(ctx context.Context, id string) bool {
	if !s.storage.Delete(ctx, id) {
		return false
	}

	s.mu.Lock()
	remaining := s.specialDates[:0:0]
	for _, sd := range s.specialDates {
		if sd.ID != id {
			remaining = append(remaining, sd)
		}
	}
	s.specialDates = remaining
	s.mu.Unlock()
	return true
}

// Clear drops the whole collection.
func (s *SpecialDateStore) Clear(ctx context.Context) bool {
	if !s.storage.Clear(ctx) {
		return false
	}

	s.mu.Lock()
	s.specialDates = []entities.SpecialDate{}
	s.mu.Unlock()
	return true
}

// SetFilter replaces the transient filter.
func (s *SpecialDateStore) SetFilter(filter entities.SpecialDateFilter) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
}

// Filter returns the active filter.
func (s *SpecialDateStore) Filter() entities.SpecialDateFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Calculate resolves a special date against the current instant. A
// malformed stored date yields the zero calculation.
func (s *SpecialDateStore) Calculate(sd entities.SpecialDate) dates.Calculation {
	calc, err := dates.Calculate(sd, s.now())
	if err != nil {
		s.logger.WithError(err).Warnw("unparseable special date", "id", sd.ID)
		return dates.Calculation{}
	}
	return calc
}

// Filtered applies the active filter to the cached collection. The type
// filters preserve the underlying order; today and upcoming are the
// derived views.
func (s *SpecialDateStore) Filtered() []entities.SpecialDate {
	s.mu.Lock()
	filter := s.filter
	s.mu.Unlock()

	switch filter {
	case entities.SpecialFilterCountdown:
		return s.ByType(entities.SpecialDateCountdown)
	case entities.SpecialFilterBirthday:
		return s.ByType(entities.SpecialDateBirthday)
	case entities.SpecialFilterAnniversary:
		return s.ByType(entities.SpecialDateAnniversary)
	case entities.SpecialFilterToday:
		return s.TodayDates()
	case entities.SpecialFilterUpcoming:
		return s.Upcoming(upcomingWindowDays)
	default:
		return s.SpecialDates()
	}
}

// ByType returns the special dates of one type, order preserved.
func (s *SpecialDateStore) ByType(kind entities.SpecialDateType) []entities.SpecialDate {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []entities.SpecialDate{}
	for _, sd := range s.specialDates {
		if sd.Type == kind {
			out = append(out, sd)
		}
	}
	return out
}

// TodayDates returns the special dates whose effective occurrence is
// today.
func (s *SpecialDateStore) TodayDates() []entities.SpecialDate {
	out := []entities.SpecialDate{}
	for _, sd := range s.SpecialDates() {
		if s.Calculate(sd).IsToday {
			out = append(out, sd)
		}
	}
	return out
}

// Upcoming returns the special dates occurring within the next given
// number of days, nearest first. Today does not count as upcoming.
func (s *SpecialDateStore) Upcoming(days int) []entities.SpecialDate {
	type entry struct {
		sd        entities.SpecialDate
		daysUntil int
	}

	entries := []entry{}
	for _, sd := range s.SpecialDates() {
		calc := s.Calculate(sd)
		if calc.DaysUntil > 0 && calc.DaysUntil <= days {
			entries = append(entries, entry{sd: sd, daysUntil: calc.DaysUntil})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].daysUntil < entries[j].daysUntil
	})

	out := make([]entities.SpecialDate, len(entries))
	for i, e := range entries {
		out[i] = e.sd
	}
	return out
}

// Stats aggregates the whole collection. Overdue counts past countdown
// entries only.
func (s *SpecialDateStore) Stats() entities.SpecialDateStats {
	stats := entities.SpecialDateStats{}
	for _, sd := range s.SpecialDates() {
		calc := s.Calculate(sd)
		stats.Total++
		if calc.IsToday {
			stats.Today++
		}
		if calc.DaysUntil > 0 && calc.DaysUntil <= upcomingWindowDays {
			stats.Upcoming++
		}
		if sd.Type == entities.SpecialDateCountdown && calc.IsPast {
			stats.Overdue++
		}
	}
	return stats
}

// StatsForType aggregates one type of special date. Overdue stays zero
// for birthdays and anniversaries.
func (s *SpecialDateStore) StatsForType(kind entities.SpecialDateType) entities.SpecialDateStats {
	stats := entities.SpecialDateStats{}
	for _, sd := range s.ByType(kind) {
		calc := s.Calculate(sd)
		stats.Total++
		if calc.IsToday {
			stats.Today++
		}
		if calc.DaysUntil > 0 && calc.DaysUntil <= upcomingWindowDays {
			stats.Upcoming++
		}
		if kind == entities.SpecialDateCountdown && calc.IsPast {
			stats.Overdue++
		}
	}
	return stats
}
