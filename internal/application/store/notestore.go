package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

// recentWindow is how far back the "recent" note filter reaches.
const recentWindow = 7 * 24 * time.Hour

// NoteStore caches the note collection and its transient filter and
// sort configuration.
type NoteStore struct {
	mu      sync.Mutex
	storage ports.NoteStorage
	logger  *logger.Logger

	notes   []entities.Note
	filter  entities.NoteFilter
	loading bool

	seedExamples bool

	now func() time.Time
}

// NewNoteStore builds an empty note store over the given storage. When
// seedExamples is set, the first Load of an empty collection writes a
// few starter notes.
func NewNoteStore(storage ports.NoteStorage, log *logger.Logger, seedExamples bool) *NoteStore {
	return &NoteStore{
		storage:      storage,
		logger:       log.WithComponent("note-store"),
		notes:        []entities.Note{},
		filter:       entities.DefaultNoteFilter(),
		seedExamples: seedExamples,
		now:          time.Now,
	}
}

// Load replaces the cache with the persisted collection, seeding the
// starter notes when enabled and the collection is empty.
func (s *NoteStore) Load(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	notes := s.storage.GetAll(ctx)
	if len(notes) == 0 && s.seedExamples {
		notes = starterNotes(s.now())
		if !s.storage.SaveAll(ctx, notes) {
			s.logger.Warnw("could not persist starter notes")
		}
	}

	s.mu.Lock()
	s.notes = notes
	s.loading = false
	s.mu.Unlock()
}

// Loading reports whether a Load is in flight.
func (s *NoteStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Notes returns a snapshot of the cached collection in insertion order.
func (s *NoteStore) Notes() []entities.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Get returns the cached note with the given id, or nil.
func (s *NoteStore) Get(id string) *entities.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			n := s.notes[i]
			return &n
		}
	}
	return nil
}

// Add persists a new note and appends it to the cache.
func (s *NoteStore) Add(ctx context.Context, form entities.NoteFormData) (*entities.Note, error) {
	note, err := s.storage.Add(ctx, form)
	if err != nil {
		s.logger.WithError(err).Errorw("add note failed", "title", form.Title)
		return nil, err
	}

	s.mu.Lock()
	s.notes = append(s.notes, *note)
	s.mu.Unlock()
	return note, nil
}

// Update patches a note in storage and mirrors the result into the
// cache. A nil return means the id is unknown or the write failed.
func (s *NoteStore) Update(ctx context.Context, id string, patch entities.NotePatch) *entities.Note {
	updated := s.storage.Update(ctx, id, patch)
	if updated == nil {
		return nil
	}

	s.mu.Lock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes[i] = *updated
			break
		}
	}
	s.mu.Unlock()
	return updated
}

// TogglePin flips the pinned state of a note.
func (s *NoteStore) TogglePin(ctx context.Context, id string) *entities.Note {
	s.mu.Lock()
	var pinned *bool
	for i := range s.notes {
		if s.notes[i].ID == id {
			flipped := !s.notes[i].Pinned
			pinned = &flipped
			break
		}
	}
	s.mu.Unlock()

	if pinned == nil {
		return nil
	}
	return s.Update(ctx, id, entities.NotePatch{Pinned: pinned})
}

// Delete removes a note from storage and the cache.
func (s *NoteStore) Delete(ctx context.Context, id string) bool {
	if !s.storage.Delete(ctx, id) {
		return false
	}

	s.mu.Lock()
	remaining := s.notes[:0:0]
	for _, n := range s.notes {
		if n.ID != id {
			remaining = append(remaining, n)
		}
	}
	s.notes = remaining
	s.mu.Unlock()
	return true
}

// Clear drops the whole collection.
func (s *NoteStore) Clear(ctx context.Context) bool {
	if !s.storage.Clear(ctx) {
		return false
	}

	s.mu.Lock()
	s.notes = []entities.Note{}
	s.mu.Unlock()
	return true
}

// SetFilter replaces the transient filter configuration.
func (s *NoteStore) SetFilter(filter entities.NoteFilter) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
}

// Filter returns the active filter configuration.
func (s *NoteStore) Filter() entities.NoteFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Filtered applies the active filter, keyword search, and sort to the
// cached collection. Pinned notes always sort ahead of unpinned ones.
func (s *NoteStore) Filtered() []entities.Note {
	s.mu.Lock()
	notes := make([]entities.Note, len(s.notes))
	copy(notes, s.notes)
	filter := s.filter
	now := s.now()
	s.mu.Unlock()

	out := notes[:0:0]
	cutoff := now.Add(-recentWindow)
	for _, n := range notes {
		switch filter.Type {
		case entities.NoteFilterPinned:
			if !n.Pinned {
				continue
			}
		case entities.NoteFilterRecent:
			if n.UpdatedAt.Before(cutoff) {
				continue
			}
		case entities.NoteFilterByTag:
			if filter.Tag != "" && !n.HasTag(filter.Tag) {
				continue
			}
		}
		if !matchesKeyword(&n, filter.Keyword) {
			continue
		}
		out = append(out, n)
	}
	if out == nil {
		out = []entities.Note{}
	}

	sortNotes(out, filter.Sort)
	return out
}

// matchesKeyword reports whether the note matches a case-insensitive
// keyword against title, content, or any tag. A blank keyword matches
// everything.
func matchesKeyword(n *entities.Note, keyword string) bool {
	keyword = strings.TrimSpace(strings.ToLower(keyword))
	if keyword == "" {
		return true
	}
	if strings.Contains(strings.ToLower(n.Title), keyword) {
		return true
	}
	if strings.Contains(strings.ToLower(n.Content), keyword) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), keyword) {
			return true
		}
	}
	return false
}

func sortNotes(notes []entities.Note, sortType entities.NoteSortType) {
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := &notes[i], &notes[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		switch sortType {
		case entities.NoteSortCreatedAsc:
			return a.CreatedAt.Before(b.CreatedAt)
		case entities.NoteSortCreatedDesc:
			return b.CreatedAt.Before(a.CreatedAt)
		case entities.NoteSortUpdatedAsc:
			return a.UpdatedAt.Before(b.UpdatedAt)
		case entities.NoteSortUpdatedDesc:
			return b.UpdatedAt.Before(a.UpdatedAt)
		case entities.NoteSortTitleAsc:
			return a.Title < b.Title
		case entities.NoteSortTitleDesc:
			return b.Title < a.Title
		default:
			return false
		}
	})
}

// AllTags returns the sorted set of tags across the collection.
func (s *NoteStore) AllTags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	tags := []string{}
	for _, n := range s.notes {
		for _, tag := range n.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// starterNotes seeds a fresh installation with a pinned welcome note
// and two everyday examples.
func starterNotes(now time.Time) []entities.Note {
	amber := "#fef3c7"
	green := "#bbf7d0"
	blue := "#bfdbfe"
	return []entities.Note{
		{
			ID:        entities.NewID(),
			Title:     "Weekly plan",
			Content:   "Things to finish this week:\n1. Requirements review\n2. Write up the design notes\n3. Code review\n4. Team sync",
			Pinned:    true,
			Tags:      []string{"work", "planning"},
			Color:     &amber,
			CreatedAt: now.Add(-48 * time.Hour),
			UpdatedAt: now.Add(-1 * time.Hour),
		},
		{
			ID:        entities.NewID(),
			Title:     "Reading list",
			Content:   "Articles queued up:\n- Structured logging patterns\n- Designing retry policies\n- Calendar arithmetic pitfalls",
			Pinned:    false,
			Tags:      []string{"learning"},
			Color:     &green,
			CreatedAt: now.Add(-72 * time.Hour),
			UpdatedAt: now.Add(-2 * time.Hour),
		},
		{
			ID:        entities.NewID(),
			Title:     "Groceries",
			Content:   "Milk\nBread\nEggs\nVegetables\nFruit",
			Pinned:    false,
			Tags:      []string{"life", "shopping"},
			Color:     &blue,
			CreatedAt: now.Add(-24 * time.Hour),
			UpdatedAt: now.Add(-30 * time.Minute),
		},
	}
}
