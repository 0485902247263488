package entities

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Errors surfaced by Add, the one storage operation allowed to fail
// loudly. Unknown ids are reported as nil records, never as errors.
var (
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidTimeBucket = errors.New("invalid time bucket")
	ErrEmptyTitle        = errors.New("title must not be empty")
	ErrStorageWrite      = errors.New("storage write failed")
)

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// TimeBucket is the coarse time grouping a task is classified under.
type TimeBucket string

const (
	BucketDay   TimeBucket = "day"
	BucketWeek  TimeBucket = "week"
	BucketMonth TimeBucket = "month"
	BucketYear  TimeBucket = "year"
)

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// SpecialDateType categorizes a special date.
type SpecialDateType string

const (
	SpecialDateCountdown   SpecialDateType = "countdown"
	SpecialDateBirthday    SpecialDateType = "birthday"
	SpecialDateAnniversary SpecialDateType = "anniversary"
)

// SpecialDateFilter selects special dates in a filtered view.
type SpecialDateFilter string

const (
	SpecialFilterAll         SpecialDateFilter = "all"
	SpecialFilterCountdown   SpecialDateFilter = "countdown"
	SpecialFilterBirthday    SpecialDateFilter = "birthday"
	SpecialFilterAnniversary SpecialDateFilter = "anniversary"
	SpecialFilterToday       SpecialDateFilter = "today"
	SpecialFilterUpcoming    SpecialDateFilter = "upcoming"
)

// NoteFilterType selects notes in a filtered view.
type NoteFilterType string

const (
	NoteFilterAll    NoteFilterType = "all"
	NoteFilterPinned NoteFilterType = "pinned"
	NoteFilterRecent NoteFilterType = "recent"
	NoteFilterByTag  NoteFilterType = "by_tag"
)

// NoteSortType orders notes in a filtered view. Pinned notes always sort
// ahead of unpinned ones regardless of the active sort.
type NoteSortType string

const (
	NoteSortCreatedAsc  NoteSortType = "created_asc"
	NoteSortCreatedDesc NoteSortType = "created_desc"
	NoteSortUpdatedAsc  NoteSortType = "updated_asc"
	NoteSortUpdatedDesc NoteSortType = "updated_desc"
	NoteSortTitleAsc    NoteSortType = "title_asc"
	NoteSortTitleDesc   NoteSortType = "title_desc"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (b TimeBucket) IsValid() bool {
	switch b {
	case BucketDay, BucketWeek, BucketMonth, BucketYear:
		return true
	default:
		return false
	}
}

func (f StatusFilter) IsValid() bool {
	switch f {
	case StatusAll, StatusPending, StatusCompleted:
		return true
	default:
		return false
	}
}

func (t SpecialDateType) IsValid() bool {
	switch t {
	case SpecialDateCountdown, SpecialDateBirthday, SpecialDateAnniversary:
		return true
	default:
		return false
	}
}

// NewID generates a record identifier: base36 millisecond timestamp plus a
// random suffix. Identifiers are immutable once assigned.
func NewID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return ts + suffix
}
