package engine

import (
	"testing"
	"time"

	"github.com/chronia/scheduler/internal/app"
	"github.com/chronia/scheduler/internal/convert"
	"github.com/chronia/scheduler/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End-to-end placements through the full pipeline, with literal inputs and
// exact expected times.

func focusedPattern(date, start, end string) domain.DailyWorkPattern {
	return domain.DailyWorkPattern{
		Date: domain.MustLocalDate(date),
		Blocks: []domain.WorkBlock{
			{
				ID:         "b1",
				StartTime:  domain.MustLocalTime(start),
				EndTime:    domain.MustLocalTime(end),
				TypeConfig: domain.NewSingleBlockType(domain.TaskFocused),
			},
		},
	}
}

func findScheduled(t *testing.T, result app.ScheduleResult, id string, wait bool) domain.ScheduleItem {
	t.Helper()
	for _, item := range result.Scheduled {
		if item.ID == id && item.IsWaitTime == wait {
			return item
		}
	}
	t.Fatalf("item %q (wait=%v) not in scheduled set", id, wait)
	return domain.ScheduleItem{}
}

func TestSchedule_SingleTaskFillsStartOfMorningBlock(t *testing.T) {
	inputs := []convert.Input{
		{Task: &domain.Task{ID: "t1", Name: "t1", DurationMin: 60, Importance: intPtr(5), Urgency: intPtr(5), TaskTypeID: domain.TaskFocused}},
	}
	sctx := app.ScheduleContext{
		StartDate:    domain.MustLocalDate("2025-01-10"),
		WorkPatterns: []domain.DailyWorkPattern{focusedPattern("2025-01-10", "09:00", "11:00")},
		WorkSettings: domain.WorkSettings{Timezone: "UTC", MaxFocusHours: 6, MaxAdminHours: 2},
		CurrentTime:  time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC),
	}
	cfg := app.ScheduleConfig{StartDate: sctx.StartDate, IncludeWeekends: true, DebugMode: true}

	result := Schedule(inputs, sctx, cfg)
	require.Empty(t, result.Conflicts)
	require.Empty(t, result.Unscheduled)
	require.Len(t, result.Scheduled, 1)

	placed := result.Scheduled[0]
	assert.Equal(t, time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC), placed.StartTime.UTC())
	assert.Equal(t, time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC), placed.EndTime.UTC())

	require.NotNil(t, result.Metrics)
	assert.InDelta(t, 0.5, result.Metrics.CapacityUtilization, 1e-9)
}

func TestSchedule_DependencyOrderSurvivesPriorityInversion(t *testing.T) {
	// t2 outranks t1 on raw priority but depends on it; placement order and
	// times must not change.
	inputs := []convert.Input{
		{Task: &domain.Task{ID: "t1", Name: "t1", DurationMin: 30, Importance: intPtr(3), Urgency: intPtr(3), TaskTypeID: domain.TaskFocused}},
		{Task: &domain.Task{ID: "t2", Name: "t2", DurationMin: 30, Importance: intPtr(9), Urgency: intPtr(9), TaskTypeID: domain.TaskFocused, Dependencies: []string{"t1"}}},
	}
	sctx := app.ScheduleContext{
		StartDate:    domain.MustLocalDate("2025-01-10"),
		WorkPatterns: []domain.DailyWorkPattern{focusedPattern("2025-01-10", "09:00", "11:00")},
		WorkSettings: domain.WorkSettings{Timezone: "UTC", MaxFocusHours: 6, MaxAdminHours: 2},
		CurrentTime:  time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC),
	}
	cfg := app.ScheduleConfig{StartDate: sctx.StartDate, IncludeWeekends: true}

	result := Schedule(inputs, sctx, cfg)
	require.Empty(t, result.Conflicts)
	require.Len(t, result.Scheduled, 2)

	t1 := findScheduled(t, result, "t1", false)
	t2 := findScheduled(t, result, "t2", false)
	assert.Equal(t, time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC), t1.StartTime.UTC())
	assert.Equal(t, time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC), t1.EndTime.UTC())
	assert.Equal(t, time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC), t2.StartTime.UTC())
	assert.Equal(t, time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC), t2.EndTime.UTC())
}

func TestSchedule_AsyncWaitDelaysDependentStep(t *testing.T) {
	wf := &domain.Workflow{
		ID:   "wf",
		Name: "release",
		Steps: []domain.WorkflowStep{
			{ID: "s1", Name: "kick off build", DurationMin: 60, AsyncWaitMin: 120, TaskTypeID: domain.TaskFocused},
			{ID: "s2", Name: "verify build", DurationMin: 30, TaskTypeID: domain.TaskFocused, Dependencies: []string{"s1"}},
		},
	}
	sctx := app.ScheduleContext{
		StartDate:    domain.MustLocalDate("2025-01-10"),
		WorkPatterns: []domain.DailyWorkPattern{focusedPattern("2025-01-10", "09:00", "13:00")},
		WorkSettings: domain.WorkSettings{Timezone: "UTC", MaxFocusHours: 6, MaxAdminHours: 2},
		CurrentTime:  time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
	}
	cfg := app.ScheduleConfig{StartDate: sctx.StartDate, IncludeWeekends: true}

	result := Schedule([]convert.Input{{Workflow: wf}}, sctx, cfg)
	require.Empty(t, result.Conflicts)
	require.Empty(t, result.Unscheduled)

	s1 := findScheduled(t, result, "s1", false)
	assert.Equal(t, time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC), s1.StartTime.UTC())
	assert.Equal(t, time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC), s1.EndTime.UTC())

	// The wait block carries the parent step's id, so s2's dependency edge
	// resolves against the wait's end, not the body's.
	wait := findScheduled(t, result, "s1", true)
	assert.Equal(t, domain.KindAsyncWait, wait.Kind)
	assert.True(t, wait.IsFutureWait)
	assert.Equal(t, time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC), wait.StartTime.UTC())
	assert.Equal(t, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC), wait.EndTime.UTC())

	s2 := findScheduled(t, result, "s2", false)
	assert.Equal(t, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC), s2.StartTime.UTC())
	assert.Equal(t, time.Date(2025, 1, 10, 12, 30, 0, 0, time.UTC), s2.EndTime.UTC())
}

func TestSchedule_OversizedTaskSplitsAcrossTwoDays(t *testing.T) {
	inputs := []convert.Input{
		{Task: &domain.Task{ID: "t1", Name: "deep work", DurationMin: 240, Importance: intPtr(5), Urgency: intPtr(5), TaskTypeID: domain.TaskFocused}},
	}
	sctx := app.ScheduleContext{
		StartDate: domain.MustLocalDate("2025-01-10"),
		WorkPatterns: []domain.DailyWorkPattern{
			focusedPattern("2025-01-10", "09:00", "11:00"),
			focusedPattern("2025-01-11", "09:00", "11:00"),
		},
		WorkSettings: domain.WorkSettings{Timezone: "UTC", MaxFocusHours: 6, MaxAdminHours: 2},
		CurrentTime:  time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC),
	}
	cfg := app.ScheduleConfig{StartDate: sctx.StartDate, IncludeWeekends: true}

	result := Schedule(inputs, sctx, cfg)
	require.Empty(t, result.Conflicts)
	require.Empty(t, result.Unscheduled)
	require.Len(t, result.Scheduled, 2)

	part1 := findScheduled(t, result, "t1-part-1", false)
	part2 := findScheduled(t, result, "t1-part-2", false)

	assert.Equal(t, 120, part1.Duration)
	assert.Equal(t, 120, part2.Duration)
	assert.Equal(t, 2, part1.SplitTotal)
	assert.Equal(t, 2, part2.SplitTotal)
	assert.Equal(t, "t1", part1.OriginalTaskID)
	assert.Equal(t, "t1", part2.OriginalTaskID)
	assert.Equal(t, "2025-01-10", domain.LocalDateFromInstant(*part1.StartTime, time.UTC).String())
	assert.Equal(t, "2025-01-11", domain.LocalDateFromInstant(*part2.StartTime, time.UTC).String())
}
