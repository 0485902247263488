package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/infrastructure/logger"
)

func newTestSpecialDateStore(t *testing.T) *SpecialDateStore {
	t.Helper()
	s := NewSpecialDateStore(newFileBackend(t).SpecialDates(), logger.NewNop())
	s.now = func() time.Time {
		return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	}
	return s
}

func addSpecialDate(t *testing.T, s *SpecialDateStore, title, date string, kind entities.SpecialDateType, recurring bool) entities.SpecialDate {
	t.Helper()
	sd, err := s.Add(context.Background(), entities.SpecialDateFormData{
		Title:     title,
		Date:      date,
		Type:      kind,
		Recurring: recurring,
	})
	require.NoError(t, err)
	return *sd
}

func TestSpecialDateStoreTypeFilter(t *testing.T) {
	s := newTestSpecialDateStore(t)

	addSpecialDate(t, s, "Launch", "2025-07-01", entities.SpecialDateCountdown, false)
	addSpecialDate(t, s, "Mom", "1960-02-10", entities.SpecialDateBirthday, true)
	addSpecialDate(t, s, "Wedding", "2015-09-12", entities.SpecialDateAnniversary, true)

	s.SetFilter(entities.SpecialFilterBirthday)
	filtered := s.Filtered()
	require.Len(t, filtered, 1)
	require.Equal(t, "Mom", filtered[0].Title)

	s.SetFilter(entities.SpecialFilterAll)
	require.Len(t, s.Filtered(), 3)
}

func TestSpecialDateStoreTodayView(t *testing.T) {
	s := newTestSpecialDateStore(t)

	addSpecialDate(t, s, "Today once", "2025-06-15", entities.SpecialDateCountdown, false)
	addSpecialDate(t, s, "Yearly today", "1999-06-15", entities.SpecialDateAnniversary, true)
	addSpecialDate(t, s, "Tomorrow", "2025-06-16", entities.SpecialDateCountdown, false)

	today := s.TodayDates()
	require.Len(t, today, 2)
	require.Equal(t, "Today once", today[0].Title)
	require.Equal(t, "Yearly today", today[1].Title)
}

func TestSpecialDateStoreUpcomingSortedByDistance(t *testing.T) {
	s := newTestSpecialDateStore(t)

	addSpecialDate(t, s, "In five days", "2025-06-20", entities.SpecialDateCountdown, false)
	addSpecialDate(t, s, "In two days", "2025-06-17", entities.SpecialDateCountdown, false)
	addSpecialDate(t, s, "Today", "2025-06-15", entities.SpecialDateCountdown, false)
	addSpecialDate(t, s, "Too far", "2025-06-30", entities.SpecialDateCountdown, false)

	upcoming := s.Upcoming(7)
	require.Len(t, upcoming, 2)
	require.Equal(t, "In two days", upcoming[0].Title)
	require.Equal(t, "In five days", upcoming[1].Title)
}

func TestSpecialDateStoreStats(t *testing.T) {
	s := newTestSpecialDateStore(t)

	addSpecialDate(t, s, "Missed deadline", "2025-06-01", entities.SpecialDateCountdown, false)
	addSpecialDate(t, s, "Old birthday", "1980-06-01", entities.SpecialDateBirthday, true)
	addSpecialDate(t, s, "Today", "2025-06-15", entities.SpecialDateCountdown, false)
	addSpecialDate(t, s, "Soon", "2025-06-18", entities.SpecialDateCountdown, false)

	stats := s.Stats()
	require.Equal(t, 4, stats.Total)
	require.Equal(t, 1, stats.Today)
	require.Equal(t, 1, stats.Upcoming)
	// Only the countdown counts as overdue; the birthday recurs instead.
	require.Equal(t, 1, stats.Overdue)
}

func TestSpecialDateStoreStatsForType(t *testing.T) {
	s := newTestSpecialDateStore(t)

	addSpecialDate(t, s, "Past countdown", "2025-06-01", entities.SpecialDateCountdown, false)
	addSpecialDate(t, s, "Birthday soon", "1990-06-18", entities.SpecialDateBirthday, true)

	countdown := s.StatsForType(entities.SpecialDateCountdown)
	require.Equal(t, 1, countdown.Total)
	require.Equal(t, 1, countdown.Overdue)

	birthday := s.StatsForType(entities.SpecialDateBirthday)
	require.Equal(t, 1, birthday.Total)
	require.Equal(t, 1, birthday.Upcoming)
	require.Equal(t, 0, birthday.Overdue)
}

func TestSpecialDateStoreUpdateAndDelete(t *testing.T) {
	s := newTestSpecialDateStore(t)
	ctx := context.Background()

	sd := addSpecialDate(t, s, "Movable", "2025-08-01", entities.SpecialDateCountdown, false)

	newDate := "2025-09-01"
	updated := s.Update(ctx, sd.ID, entities.SpecialDatePatch{Date: &newDate})
	require.NotNil(t, updated)
	require.Equal(t, newDate, updated.Date)
	require.Equal(t, newDate, s.Get(sd.ID).Date)

	require.True(t, s.Delete(ctx, sd.ID))
	require.Nil(t, s.Get(sd.ID))
}

func TestSpecialDateStoreMalformedDateIsZeroCalculation(t *testing.T) {
	s := newTestSpecialDateStore(t)

	calc := s.Calculate(entities.SpecialDate{ID: "x", Title: "Broken", Date: "not-a-date"})
	require.Zero(t, calc)
	require.Empty(t, s.TodayDates())
}
