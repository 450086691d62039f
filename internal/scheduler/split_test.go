package scheduler

import (
	"testing"

	"github.com/chronia/scheduler/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanSplitSlots_UsesCurrentDayThenLooksAhead(t *testing.T) {
	item := domain.ScheduleItem{ID: "t1", Duration: 180, TaskTypeID: domain.TaskFocused}
	patterns := []domain.DailyWorkPattern{
		{Date: domain.MustLocalDate("2025-01-02"), Blocks: []domain.WorkBlock{focusedBlock("b", "09:00", "13:00")}},
	}
	slots, covered := planSplitSlots(item, domain.MustLocalDate("2025-01-01"), 60, 0, patterns, splitConfig{maxDays: 30, includeWeekends: true, haircut: 1.0})
	require.Len(t, slots, 2)
	assert.Equal(t, 60, slots[0].durationMin)
	assert.Equal(t, 120, slots[1].durationMin)
	assert.True(t, covered)
}

func TestPlanSplitSlots_ReportsUncoveredWhenLookaheadExhausted(t *testing.T) {
	item := domain.ScheduleItem{ID: "t1", Duration: 80, TaskTypeID: domain.TaskFocused}
	// No further patterns exist beyond the current day, so the 40 minutes
	// left over after today's 40-minute partial fit can never be covered.
	slots, covered := planSplitSlots(item, domain.MustLocalDate("2025-01-01"), 40, 0, nil, splitConfig{maxDays: 30, includeWeekends: true, haircut: 1.0})
	require.Len(t, slots, 1)
	assert.Equal(t, 40, slots[0].durationMin)
	assert.False(t, covered)
}

func TestBuildSplitParts_DropsTinyNonFinalParts(t *testing.T) {
	item := domain.ScheduleItem{ID: "t1", Name: "Report", Duration: 100}
	slots := []splitSlot{
		{date: domain.MustLocalDate("2025-01-01"), durationMin: 10},
		{date: domain.MustLocalDate("2025-01-02"), durationMin: 90},
	}
	parts := buildSplitParts(item, slots)
	require.Len(t, parts, 1)
	assert.Equal(t, 90, parts[0].Duration)
}

func TestBuildSplitParts_ResplitContinuesNumbering(t *testing.T) {
	// Part 2 of an earlier split gets split again: its pieces must continue
	// as part-2/part-3, never collide with the already-placed part-1.
	tail := domain.ScheduleItem{
		ID:             "t1-part-2",
		Name:           "Report (Part 2/2)",
		Duration:       90,
		IsSplit:        true,
		SplitPart:      2,
		SplitTotal:     2,
		OriginalTaskID: "t1",
	}
	slots := []splitSlot{
		{date: domain.MustLocalDate("2025-01-02"), durationMin: 60},
		{date: domain.MustLocalDate("2025-01-03"), durationMin: 30},
	}
	parts := buildSplitParts(tail, slots)
	require.Len(t, parts, 2)
	assert.Equal(t, "t1-part-2", parts[0].ID)
	assert.Equal(t, "t1-part-3", parts[1].ID)
	assert.Equal(t, "Report (Part 2/3)", parts[0].Name)
	assert.Equal(t, 3, parts[1].SplitTotal)
	assert.Equal(t, 3, parts[1].SplitPart)
	assert.Equal(t, "t1", parts[1].OriginalTaskID)
}

func TestBuildSplitParts_KeepsTrailingRemainderRegardless(t *testing.T) {
	item := domain.ScheduleItem{ID: "t1", Name: "Report", Duration: 70}
	slots := []splitSlot{
		{date: domain.MustLocalDate("2025-01-01"), durationMin: 60},
		{date: domain.MustLocalDate("2025-01-02"), durationMin: 10},
	}
	parts := buildSplitParts(item, slots)
	require.Len(t, parts, 2)
	assert.True(t, parts[0].IsSplit)
	assert.Equal(t, "t1-part-1", parts[0].ID)
	assert.Equal(t, "t1", parts[0].OriginalTaskID)
	assert.Equal(t, 2, parts[1].SplitTotal)
}
