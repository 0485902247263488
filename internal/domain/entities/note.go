package entities

import (
	"strings"
	"time"
)

// Note represents a notebook entry.
type Note struct {
	ID        string    `json:"id" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	Content   string    `json:"content"`
	Pinned    bool      `json:"pinned"`
	Tags      []string  `json:"tags"`
	Color     *string   `json:"color,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteFormData carries the caller-supplied fields of a new note.
type NoteFormData struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content"`
	Pinned  bool     `json:"pinned"`
	Tags    []string `json:"tags"`
	Color   *string  `json:"color,omitempty"`
}

// Validate checks the form before a record is created from it.
func (f NoteFormData) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// NotePatch holds the fields of a partial note update.
type NotePatch struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Pinned  *bool     `json:"pinned,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
	Color   *string   `json:"color,omitempty"`
}

// NoteFilter is the transient filter and sort configuration of a note
// store. Tag only applies when Type is NoteFilterByTag.
type NoteFilter struct {
	Type    NoteFilterType `json:"type"`
	Sort    NoteSortType   `json:"sort"`
	Keyword string         `json:"keyword"`
	Tag     string         `json:"tag"`
}

// DefaultNoteFilter passes every note, most recently updated first.
func DefaultNoteFilter() NoteFilter {
	return NoteFilter{Type: NoteFilterAll, Sort: NoteSortUpdatedDesc}
}

// NewNote builds a note from form data, assigning id and timestamps.
func NewNote(form NoteFormData, now time.Time) Note {
	tags := form.Tags
	if tags == nil {
		tags = []string{}
	}
	return Note{
		ID:        NewID(),
		Title:     form.Title,
		Content:   form.Content,
		Pinned:    form.Pinned,
		Tags:      tags,
		Color:     form.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply merges the patch into the note and stamps the update time.
func (n *Note) Apply(patch NotePatch, now time.Time) {
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.Pinned != nil {
		n.Pinned = *patch.Pinned
	}
	if patch.Tags != nil {
		n.Tags = *patch.Tags
	}
	if patch.Color != nil {
		n.Color = patch.Color
	}
	n.UpdatedAt = now
}

// HasTag reports whether the note carries the given tag.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
