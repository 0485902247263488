// Package filestore implements the persistence contract on top of a
// single JSON document on disk, the way the desktop deployment stores its
// data. The document wraps the record collections in a metadata envelope
// (schema version, creation time, last-modified time) and is rewritten
// wholesale on every save.
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

const schemaVersion = "1.0.0"

// Metadata is the envelope bookkeeping around the record collections.
type Metadata struct {
	Version      string    `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
}

type document struct {
	Tasks        []entities.Task        `json:"tasks"`
	Notes        []entities.Note        `json:"notes"`
	SpecialDates []entities.SpecialDate `json:"specialDates"`
	Settings     entities.Settings      `json:"settings"`
	Metadata     Metadata               `json:"metadata"`
}

// DocumentStats summarizes the on-disk document.
type DocumentStats struct {
	TotalTasks     int       `json:"totalTasks"`
	CompletedTasks int       `json:"completedTasks"`
	PendingTasks   int       `json:"pendingTasks"`
	Notes          int       `json:"notes"`
	SpecialDates   int       `json:"specialDates"`
	FileSize       int64     `json:"fileSize"`
	LastModified   time.Time `json:"lastModified"`
}

// Store owns the document file. All collection adapters returned by the
// accessors share its mutex, so logical operations are serialized.
type Store struct {
	mu     sync.Mutex
	path   string
	dir    string
	logger *logger.Logger
}

// New opens the document at path, creating the backing directory and a
// default-shaped document when absent.
func New(path string, log *logger.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		dir:    filepath.Dir(path),
		logger: log.WithComponent("filestore"),
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		doc := defaultDocument(time.Now())
		if err := s.write(&doc); err != nil {
			return nil, fmt.Errorf("initialize document: %w", err)
		}
		s.logger.Infow("created default document", "path", s.path)
	} else if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}

	return s, nil
}

func (s *Store) Kind() ports.BackendKind { return ports.BackendFile }

func (s *Store) Tasks() ports.TaskStorage               { return &taskStore{s} }
func (s *Store) Notes() ports.NoteStorage               { return &noteStore{s} }
func (s *Store) SpecialDates() ports.SpecialDateStorage { return &specialDateStore{s} }
func (s *Store) Settings() ports.SettingsStorage        { return &settingsStore{s} }

// Close is a no-op; the document is not held open between operations.
func (s *Store) Close() error { return nil }

// Path returns the location of the backing document.
func (s *Store) Path() string { return s.path }

func defaultDocument(now time.Time) document {
	return document{
		Tasks:        []entities.Task{},
		Notes:        []entities.Note{},
		SpecialDates: []entities.SpecialDate{},
		Settings:     entities.DefaultSettings(),
		Metadata: Metadata{
			Version:      schemaVersion,
			CreatedAt:    now,
			LastModified: now,
		},
	}
}

// read loads the document. A missing or corrupt file comes back as an
// empty default document; the failure is logged and never propagated.
func (s *Store) read() document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.LogStorageError("file", "read", err)
		return defaultDocument(time.Now())
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.LogStorageError("file", "parse", err)
		return defaultDocument(time.Now())
	}
	if doc.Tasks == nil {
		doc.Tasks = []entities.Task{}
	}
	if doc.Notes == nil {
		doc.Notes = []entities.Note{}
	}
	if doc.SpecialDates == nil {
		doc.SpecialDates = []entities.SpecialDate{}
	}
	return doc
}

// write persists the document, stamping the envelope. The temp-and-rename
// dance keeps the save atomic from the caller's point of view.
func (s *Store) write(doc *document) error {
	doc.Metadata.LastModified = time.Now()
	if doc.Metadata.Version == "" {
		doc.Metadata.Version = schemaVersion
	}
	if doc.Metadata.CreatedAt.IsZero() {
		doc.Metadata.CreatedAt = doc.Metadata.LastModified
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// Backup copies the current document to a timestamped sibling file and
// returns its path.
func (s *Store) Backup() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}

	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(time.Now().Format(time.RFC3339))
	backupPath := filepath.Join(s.dir, fmt.Sprintf("daybook-backup-%s.json", stamp))
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	s.logger.Infow("document backed up", "path", backupPath)
	return backupPath, nil
}

// Stats summarizes the document without mutating it.
func (s *Store) Stats() DocumentStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.read()
	stats := DocumentStats{
		TotalTasks:   len(doc.Tasks),
		Notes:        len(doc.Notes),
		SpecialDates: len(doc.SpecialDates),
		LastModified: doc.Metadata.LastModified,
	}
	for _, t := range doc.Tasks {
		if t.Completed {
			stats.CompletedTasks++
		} else {
			stats.PendingTasks++
		}
	}
	if info, err := os.Stat(s.path); err == nil {
		stats.FileSize = info.Size()
	}
	return stats
}
