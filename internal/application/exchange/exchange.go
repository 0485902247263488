// Package exchange moves whole datasets in and out of the persistence
// backend: a single JSON document holding every collection plus the
// settings block.
package exchange

import (
	"context"
	"time"

	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

// documentVersion stamps exported documents. Import accepts any version;
// the field exists so future readers can branch on it.
const documentVersion = "1.0.0"

// Document is the interchange format. Collections may be empty but are
// never null.
type Document struct {
	Version      string                 `json:"version"`
	ExportedAt   time.Time              `json:"exportedAt"`
	Tasks        []entities.Task        `json:"tasks"`
	Notes        []entities.Note        `json:"notes"`
	SpecialDates []entities.SpecialDate `json:"specialDates"`
	Settings     *entities.Settings     `json:"settings,omitempty"`
}

// Summary reports the outcome of an import, one result per collection.
type Summary struct {
	Tasks         ports.ImportResult `json:"tasks"`
	Notes         ports.ImportResult `json:"notes"`
	SpecialDates  ports.ImportResult `json:"specialDates"`
	SettingsSaved bool               `json:"settingsSaved"`
}

// Service bundles export and import over one backend.
type Service struct {
	backend ports.Backend
	logger  *logger.Logger

	now func() time.Time
}

// NewService builds an exchange service over the given backend.
func NewService(backend ports.Backend, log *logger.Logger) *Service {
	return &Service{
		backend: backend,
		logger:  log.WithComponent("exchange"),
		now:     time.Now,
	}
}

// Export snapshots every collection into one document.
func (s *Service) Export(ctx context.Context) Document {
	settings := s.backend.Settings().Get(ctx)
	return Document{
		Version:      documentVersion,
		ExportedAt:   s.now(),
		Tasks:        s.backend.Tasks().ExportAll(ctx),
		Notes:        s.backend.Notes().ExportAll(ctx),
		SpecialDates: s.backend.SpecialDates().ExportAll(ctx),
		Settings:     &settings,
	}
}

// Import merges a document into the backend. Each collection is appended
// to what is already stored; malformed records are dropped and counted,
// and incoming identifiers are kept as-is. Settings merge field by field
// when present.
func (s *Service) Import(ctx context.Context, doc Document) Summary {
	summary := Summary{
		Tasks:        s.backend.Tasks().ImportAll(ctx, doc.Tasks),
		Notes:        s.backend.Notes().ImportAll(ctx, doc.Notes),
		SpecialDates: s.backend.SpecialDates().ImportAll(ctx, doc.SpecialDates),
	}

	if doc.Settings != nil {
		patch := entities.SettingsPatch{
			Theme:    &doc.Settings.Theme,
			Language: &doc.Settings.Language,
			AutoSave: &doc.Settings.AutoSave,
		}
		summary.SettingsSaved = s.backend.Settings().Save(ctx, patch)
	}

	s.logger.Infow("import finished",
		"tasks", summary.Tasks.Imported,
		"notes", summary.Notes.Imported,
		"specialDates", summary.SpecialDates.Imported,
		"dropped", summary.Tasks.Dropped+summary.Notes.Dropped+summary.SpecialDates.Dropped,
	)
	return summary
}
