package scheduler

import (
	"sort"
	"time"

	"github.com/chronia/scheduler/internal/app"
	"github.com/chronia/scheduler/internal/domain"
)

// CalculateOptimalSchedule implements the analysis-only placement strategy
// routed to when ScheduleConfig.OptimizationMode is ModeOptimal: items are
// laid back-to-back in priority order, ignoring block capacity entirely, to
// answer "what is the best case if capacity were not a constraint". It is
// never used for a production placement and never considers meetings or
// splitting; an item with an async wait is followed directly by its wait
// block. Items are re-sorted by Priority alone (ties by ID), so the
// dependency order applied upstream is not preserved.
func CalculateOptimalSchedule(items []domain.ScheduleItem, sctx app.ScheduleContext) []domain.ScheduleItem {
	ordered := append([]domain.ScheduleItem(nil), items...)
	sortByPriorityID(ordered)

	cursor := sctx.CurrentTime
	if cursor.IsZero() {
		loc := Location(sctx.WorkSettings.Timezone)
		cursor = sctx.StartDate.ToTime(loc)
	}

	out := make([]domain.ScheduleItem, 0, len(ordered))
	for _, item := range ordered {
		start := cursor
		end := start.Add(time.Duration(item.Duration) * time.Minute)
		placed := item
		placed.StartTime = &start
		placed.EndTime = &end
		out = append(out, placed)

		cursor = end
		if item.AsyncWaitMin > 0 {
			waitEnd := cursor.Add(time.Duration(item.AsyncWaitMin) * time.Minute)
			wait := item
			wait.Kind = domain.KindAsyncWait
			wait.Duration = item.AsyncWaitMin
			wait.IsWaitTime = true
			wait.StartTime = &cursor
			wait.EndTime = &waitEnd
			out = append(out, wait)
			cursor = waitEnd
		}
	}
	return out
}

func sortByPriorityID(items []domain.ScheduleItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority > items[j].Priority
		}
		return items[i].ID < items[j].ID
	})
}
