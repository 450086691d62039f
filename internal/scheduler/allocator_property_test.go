package scheduler

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/chronia/scheduler/internal/app"
	"github.com/chronia/scheduler/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Property-style checks over a generated workload: whatever the allocator
// places must satisfy the structural invariants regardless of the input mix.

func generateWorkload(r *rand.Rand, n int) []domain.ScheduleItem {
	types := []domain.TaskType{domain.TaskFocused, domain.TaskAdmin, domain.TaskMixed}
	items := make([]domain.ScheduleItem, 0, n)
	for i := 0; i < n; i++ {
		item := domain.ScheduleItem{
			ID:         fmt.Sprintf("task-%02d", i),
			Name:       fmt.Sprintf("task %d", i),
			Kind:       domain.KindTask,
			Duration:   30 * (1 + r.Intn(4)),
			Priority:   float64(r.Intn(200)),
			TaskTypeID: types[r.Intn(len(types))],
		}
		if i > 0 && r.Intn(3) == 0 {
			item.Dependencies = []string{fmt.Sprintf("task-%02d", r.Intn(i))}
		}
		if r.Intn(8) == 0 {
			item.AsyncWaitMin = 60 * (1 + r.Intn(3))
		}
		items = append(items, item)
	}
	return items
}

func workloadPatterns(days int) []domain.DailyWorkPattern {
	patterns := make([]domain.DailyWorkPattern, 0, days)
	start := domain.MustLocalDate("2025-01-06") // a Monday
	for d := 0; d < days; d++ {
		date := domain.AddDays(start, d)
		patterns = append(patterns, domain.DailyWorkPattern{
			Date: date,
			Blocks: []domain.WorkBlock{
				{
					ID:         fmt.Sprintf("d%d-focus", d),
					StartTime:  domain.MustLocalTime("09:00"),
					EndTime:    domain.MustLocalTime("12:00"),
					TypeConfig: domain.NewSingleBlockType(domain.TaskFocused),
				},
				{
					ID:         fmt.Sprintf("d%d-admin", d),
					StartTime:  domain.MustLocalTime("13:00"),
					EndTime:    domain.MustLocalTime("15:00"),
					TypeConfig: domain.NewSingleBlockType(domain.TaskAdmin),
				},
				{
					ID:        fmt.Sprintf("d%d-combo", d),
					StartTime: domain.MustLocalTime("15:00"),
					EndTime:   domain.MustLocalTime("17:00"),
					TypeConfig: domain.NewComboBlockType(
						domain.Allocation{TypeID: domain.TaskFocused, Ratio: 0.5},
						domain.Allocation{TypeID: domain.TaskAdmin, Ratio: 0.5},
					),
				},
			},
		})
	}
	return patterns
}

func workloadContext(days int) app.ScheduleContext {
	return app.ScheduleContext{
		StartDate:    domain.MustLocalDate("2025-01-06"),
		WorkPatterns: workloadPatterns(days),
		WorkSettings: domain.WorkSettings{Timezone: "UTC", MaxFocusHours: 6, MaxAdminHours: 2},
		CurrentTime:  time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC),
	}
}

func blockByID(patterns []domain.DailyWorkPattern, id string) (domain.WorkBlock, bool) {
	for _, p := range patterns {
		for _, b := range p.Blocks {
			if b.ID == id {
				return b, true
			}
		}
	}
	return domain.WorkBlock{}, false
}

func TestAllocate_PlacedDurationsMatchIntervals(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	items := generateWorkload(r, 30)
	sctx := workloadContext(5)
	scheduled, _, _ := Allocate(items, sctx, app.ScheduleConfig{StartDate: sctx.StartDate, IncludeWeekends: true}, nil)
	require.NotEmpty(t, scheduled)

	for _, item := range scheduled {
		require.NotNil(t, item.StartTime, "%s has no start", item.ID)
		require.NotNil(t, item.EndTime, "%s has no end", item.ID)
		got := int(item.EndTime.Sub(*item.StartTime).Minutes())
		assert.Equal(t, item.Duration, got, "%s interval must equal its duration", item.ID)
	}
}

func TestAllocate_NoOverlapWithinBlocks(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	items := generateWorkload(r, 30)
	sctx := workloadContext(5)
	scheduled, _, _ := Allocate(items, sctx, app.ScheduleConfig{StartDate: sctx.StartDate, IncludeWeekends: true}, nil)

	byBlock := make(map[string][]domain.ScheduleItem)
	for _, item := range scheduled {
		if item.IsWaitTime || item.BlockID == "" {
			continue
		}
		byBlock[item.BlockID] = append(byBlock[item.BlockID], item)
	}
	for blockID, placed := range byBlock {
		for i := 0; i < len(placed); i++ {
			for j := i + 1; j < len(placed); j++ {
				a, b := placed[i], placed[j]
				overlaps := a.StartTime.Before(*b.EndTime) && b.StartTime.Before(*a.EndTime)
				assert.False(t, overlaps, "%s and %s overlap in block %s", a.ID, b.ID, blockID)
			}
		}
	}
}

func TestAllocate_BlockCapacityNeverExceeded(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	items := generateWorkload(r, 40)
	sctx := workloadContext(5)
	scheduled, _, _ := Allocate(items, sctx, app.ScheduleConfig{StartDate: sctx.StartDate, IncludeWeekends: true}, nil)

	usedByBlock := make(map[string]int)
	usedByBlockType := make(map[string]map[domain.TaskType]int)
	for _, item := range scheduled {
		if item.IsWaitTime || item.BlockID == "" || item.Kind == domain.KindMeeting {
			continue
		}
		usedByBlock[item.BlockID] += item.Duration
		if usedByBlockType[item.BlockID] == nil {
			usedByBlockType[item.BlockID] = make(map[domain.TaskType]int)
		}
		usedByBlockType[item.BlockID][item.TaskTypeID] += item.Duration
	}

	for blockID, used := range usedByBlock {
		block, ok := blockByID(sctx.WorkPatterns, blockID)
		require.True(t, ok, "unknown block %s", blockID)
		assert.LessOrEqual(t, used, block.TotalCapacityMin(), "block %s over capacity", blockID)
		if block.TypeConfig.Kind == domain.BlockCombo {
			for typeID, typeUsed := range usedByBlockType[blockID] {
				share := int(block.TypeConfig.RatioFor(typeID) * float64(block.TotalCapacityMin()))
				assert.LessOrEqual(t, typeUsed, share, "block %s type %s over its ratio share", blockID, typeID)
			}
		}
	}
}

func TestAllocate_DependenciesFinishBeforeDependentsStart(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	items := generateWorkload(r, 30)
	sctx := workloadContext(5)
	scheduled, _, _ := Allocate(items, sctx, app.ScheduleConfig{StartDate: sctx.StartDate, IncludeWeekends: true}, nil)

	for _, item := range scheduled {
		if item.IsWaitTime {
			continue
		}
		for _, dep := range item.Dependencies {
			end := dependencyEndInstant(dep, scheduled)
			if end == nil {
				continue
			}
			assert.False(t, item.StartTime.Before(*end),
				"%s starts %s before its dependency %s ends %s", item.ID, item.StartTime, dep, end)
		}
	}
}

func TestAllocate_DeterministicForIdenticalInputs(t *testing.T) {
	r := rand.New(rand.NewSource(23))
	items := generateWorkload(r, 30)
	sctx := workloadContext(5)
	cfg := app.ScheduleConfig{StartDate: sctx.StartDate, IncludeWeekends: true}

	first, firstUn, _ := Allocate(items, sctx, cfg, nil)
	second, secondUn, _ := Allocate(items, sctx, cfg, nil)

	assert.True(t, reflect.DeepEqual(first, second), "scheduled output must be identical across runs")
	assert.True(t, reflect.DeepEqual(firstUn, secondUn), "unscheduled output must be identical across runs")
}
