package scheduler

import (
	"fmt"
	"strings"

	"github.com/chronia/scheduler/internal/domain"
)

type splitSlot struct {
	date        domain.LocalDate
	durationMin int
}

// planSplitSlots builds the list of {date, duration} slots a task's
// remaining duration can be spread across: the current day's already-found
// partial availability, then up to 7 lookahead days using prospective
// (untouched) per-day capacity for the item's task type. The second return
// value reports whether the slots found actually cover item's full
// duration — when the 7-day lookahead runs out without finding enough
// capacity, callers must reject the whole item rather than place a
// truncated split that silently drops the uncovered remainder.
func planSplitSlots(item domain.ScheduleItem, currentDate domain.LocalDate, currentDayAvailable, dayIndex int, patterns []domain.DailyWorkPattern, cfg splitConfig) ([]splitSlot, bool) {
	slots := []splitSlot{{date: currentDate, durationMin: currentDayAvailable}}
	remaining := item.Duration - currentDayAvailable

	for lookahead := 1; lookahead <= 7 && remaining > 0; lookahead++ {
		day := dayIndex + lookahead
		if day >= cfg.maxDays {
			break
		}
		date := domain.AddDays(currentDate, lookahead)
		if !cfg.includeWeekends && isWeekend(date) {
			continue
		}
		pattern, ok := findPattern(patterns, date)
		if !ok {
			continue
		}
		dayCap := 0
		for _, blk := range pattern.Blocks {
			dayCap += prospectiveTypeCapacity(blk, item.TaskTypeID, cfg.haircut)
		}
		if dayCap <= 0 {
			continue
		}
		take := dayCap
		if take > remaining {
			take = remaining
		}
		slots = append(slots, splitSlot{date: date, durationMin: take})
		remaining -= take
	}

	return slots, remaining <= 0
}

type splitConfig struct {
	maxDays         int
	includeWeekends bool
	haircut         float64
}

// buildSplitParts turns slots into ordered splitPart ScheduleItems; parts
// below minSplitMinutes are dropped unless they are the final slot (the
// trailing remainder is always kept regardless of size). Re-splitting a part
// that was itself produced by an earlier split continues the original
// numbering instead of restarting at 1, so part ids never collide with
// already-placed siblings.
func buildSplitParts(item domain.ScheduleItem, slots []splitSlot) []domain.ScheduleItem {
	kept := make([]splitSlot, 0, len(slots))
	for i, s := range slots {
		if s.durationMin >= minSplitMinutes || i == len(slots)-1 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	originalID := item.ID
	if item.OriginalTaskID != "" {
		originalID = item.OriginalTaskID
	}
	baseName := item.Name
	if idx := strings.Index(baseName, " (Part "); idx >= 0 {
		baseName = baseName[:idx]
	}

	startPart := 1
	if item.IsSplit && item.SplitPart > 0 {
		startPart = item.SplitPart
	}
	total := startPart - 1 + len(kept)
	remaining := item.Duration
	parts := make([]domain.ScheduleItem, 0, len(kept))
	for i, s := range kept {
		num := startPart + i
		p := item
		p.ID = fmt.Sprintf("%s-part-%d", originalID, num)
		p.Name = fmt.Sprintf("%s (Part %d/%d)", baseName, num, total)
		p.Duration = s.durationMin
		p.IsSplit = true
		p.SplitPart = num
		p.SplitTotal = total
		p.OriginalTaskID = originalID
		remaining -= s.durationMin
		p.RemainingDuration = remaining
		p.StartTime = nil
		p.EndTime = nil
		p.BlockID = ""
		parts = append(parts, p)
	}
	return parts
}
