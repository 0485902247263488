package entities

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of a calendar date, year-month-day with no
// time component.
const DateLayout = "2006-01-02"

// SpecialDate represents a tracked calendar date: a countdown target, a
// birthday, or an anniversary. When Recurring is set the month and day
// repeat yearly.
type SpecialDate struct {
	ID           string          `json:"id" validate:"required"`
	Title        string          `json:"title" validate:"required"`
	Description  *string         `json:"description,omitempty"`
	Date         string          `json:"date" validate:"required,datetime=2006-01-02"`
	Type         SpecialDateType `json:"type" validate:"omitempty,oneof=countdown birthday anniversary"`
	Recurring    bool            `json:"recurring"`
	ReminderDays *int            `json:"reminderDays,omitempty"`
	Color        *string         `json:"color,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// SpecialDateFormData carries the caller-supplied fields of a new special
// date.
type SpecialDateFormData struct {
	Title        string          `json:"title" validate:"required"`
	Description  *string         `json:"description,omitempty"`
	Date         string          `json:"date" validate:"required,datetime=2006-01-02"`
	Type         SpecialDateType `json:"type" validate:"omitempty,oneof=countdown birthday anniversary"`
	Recurring    bool            `json:"recurring"`
	ReminderDays *int            `json:"reminderDays,omitempty"`
	Color        *string         `json:"color,omitempty"`
}

// Validate checks the form before a record is created from it. An empty
// type passes; NewSpecialDate defaults it to countdown.
func (f SpecialDateFormData) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return ErrEmptyTitle
	}
	if _, err := time.Parse(DateLayout, f.Date); err != nil {
		return fmt.Errorf("parse date %q: %w", f.Date, err)
	}
	if f.Type != "" && !f.Type.IsValid() {
		return fmt.Errorf("invalid special date type %q", f.Type)
	}
	return nil
}

// SpecialDatePatch holds the fields of a partial special date update.
type SpecialDatePatch struct {
	Title        *string          `json:"title,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Date         *string          `json:"date,omitempty"`
	Type         *SpecialDateType `json:"type,omitempty"`
	Recurring    *bool            `json:"recurring,omitempty"`
	ReminderDays *int             `json:"reminderDays,omitempty"`
	Color        *string          `json:"color,omitempty"`
}

// SpecialDateStats aggregates a special date collection. Overdue counts
// countdown entries only; birthdays and anniversaries never expire.
type SpecialDateStats struct {
	Total    int `json:"total"`
	Today    int `json:"today"`
	Upcoming int `json:"upcoming"`
	Overdue  int `json:"overdue"`
}

// NewSpecialDate builds a special date from form data, assigning id and
// timestamps.
func NewSpecialDate(form SpecialDateFormData, now time.Time) SpecialDate {
	kind := form.Type
	if kind == "" {
		kind = SpecialDateCountdown
	}
	return SpecialDate{
		ID:           NewID(),
		Title:        form.Title,
		Description:  form.Description,
		Date:         form.Date,
		Type:         kind,
		Recurring:    form.Recurring,
		ReminderDays: form.ReminderDays,
		Color:        form.Color,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Apply merges the patch into the special date and stamps the update time.
func (sd *SpecialDate) Apply(patch SpecialDatePatch, now time.Time) {
	if patch.Title != nil {
		sd.Title = *patch.Title
	}
	if patch.Description != nil {
		sd.Description = patch.Description
	}
	if patch.Date != nil {
		sd.Date = *patch.Date
	}
	if patch.Type != nil {
		sd.Type = *patch.Type
	}
	if patch.Recurring != nil {
		sd.Recurring = *patch.Recurring
	}
	if patch.ReminderDays != nil {
		sd.ReminderDays = patch.ReminderDays
	}
	if patch.Color != nil {
		sd.Color = patch.Color
	}
	sd.UpdatedAt = now
}

// DateValue parses the stored calendar date. The zero time is returned for
// a malformed value.
func (sd *SpecialDate) DateValue() (time.Time, error) {
	return time.Parse(DateLayout, sd.Date)
}
