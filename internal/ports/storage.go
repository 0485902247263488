// Package ports defines the persistence contracts shared by the desktop
// file backend and the key-value backend.
//
// The contract is deliberately forgiving: read operations swallow I/O and
// parse failures and come back empty, mutating operations report success
// as a bool or a nil record, and only Add may surface an error. Callers
// treat every result as possibly-empty rather than handling exceptions;
// the UI layer has no recovery path beyond "treat as empty".
package ports

import (
	"context"

	"github.com/daybook/core/internal/domain/entities"
)

// TaskStorage is the task persistence contract.
type TaskStorage interface {
	// GetAll returns the persisted collection, or an empty slice when the
	// underlying store is missing or corrupt.
	GetAll(ctx context.Context) []entities.Task
	// SaveAll replaces the whole collection, atomically from the caller's
	// point of view.
	SaveAll(ctx context.Context, tasks []entities.Task) bool
	// Add assigns an identifier and timestamps, persists and returns the
	// stored record. Create is the one operation allowed to fail loudly.
	Add(ctx context.Context, form entities.TaskFormData) (*entities.Task, error)
	// Update merges the patch into the record with the given id, stamps
	// the update time and persists. Nil when the id is unknown or the
	// write failed.
	Update(ctx context.Context, id string, patch entities.TaskPatch) *entities.Task
	// Delete removes the record with the given id, reporting whether a
	// removal occurred.
	Delete(ctx context.Context, id string) bool
	// Clear empties the collection.
	Clear(ctx context.Context) bool
	// ExportAll returns a copy of the collection for bulk export.
	ExportAll(ctx context.Context) []entities.Task
	// ImportAll merges well-formed incoming records into the collection
	// and reports what was kept and what was dropped.
	ImportAll(ctx context.Context, tasks []entities.Task) ImportResult
}

// NoteStorage is the note persistence contract.
type NoteStorage interface {
	GetAll(ctx context.Context) []entities.Note
	SaveAll(ctx context.Context, notes []entities.Note) bool
	Add(ctx context.Context, form entities.NoteFormData) (*entities.Note, error)
	Update(ctx context.Context, id string, patch entities.NotePatch) *entities.Note
	Delete(ctx context.Context, id string) bool
	Clear(ctx context.Context) bool
	ExportAll(ctx context.Context) []entities.Note
	ImportAll(ctx context.Context, notes []entities.Note) ImportResult
}

// SpecialDateStorage is the special date persistence contract.
type SpecialDateStorage interface {
	GetAll(ctx context.Context) []entities.SpecialDate
	SaveAll(ctx context.Context, dates []entities.SpecialDate) bool
	Add(ctx context.Context, form entities.SpecialDateFormData) (*entities.SpecialDate, error)
	Update(ctx context.Context, id string, patch entities.SpecialDatePatch) *entities.SpecialDate
	Delete(ctx context.Context, id string) bool
	Clear(ctx context.Context) bool
	ExportAll(ctx context.Context) []entities.SpecialDate
	ImportAll(ctx context.Context, dates []entities.SpecialDate) ImportResult
}

// SettingsStorage persists user preferences. Saves merge rather than
// replace.
type SettingsStorage interface {
	Get(ctx context.Context) entities.Settings
	Save(ctx context.Context, patch entities.SettingsPatch) bool
}

// BackendKind names a persistence strategy.
type BackendKind string

const (
	BackendFile BackendKind = "file"
	BackendKV   BackendKind = "kv"
)

// Backend bundles the storage adapters of one persistence strategy. The
// concrete backend is chosen once at startup and injected into the record
// stores.
type Backend interface {
	Kind() BackendKind
	Tasks() TaskStorage
	Notes() NoteStorage
	SpecialDates() SpecialDateStorage
	Settings() SettingsStorage
	Close() error
}

// RejectedRecord describes one import candidate that failed the schema
// check.
type RejectedRecord struct {
	Index   int      `json:"index"`
	Reasons []string `json:"reasons"`
}

// ImportResult reports the outcome of a bulk import. Malformed records
// are dropped silently from the import, the valid remainder is still
// merged in.
type ImportResult struct {
	Imported int              `json:"imported"`
	Dropped  int              `json:"dropped"`
	Rejected []RejectedRecord `json:"rejected,omitempty"`
	Saved    bool             `json:"saved"`
}
