package scheduler

import (
	"sort"
	"time"

	"github.com/chronia/scheduler/internal/app"
	"github.com/chronia/scheduler/internal/domain"
	"github.com/chronia/scheduler/internal/graph"
)

// Allocate implements the multi-day greedy placer (C7): block-capacity
// tracking, fit checks, task splitting, meeting scheduling, async-wait
// emission, and dependency-driven reordering. Preconditions: items is
// already topologically sorted and priority-scored; this function never
// reorders items except by re-sorting by Priority within a day's placement
// loop.
func Allocate(items []domain.ScheduleItem, sctx app.ScheduleContext, cfg app.ScheduleConfig, completedIDs map[string]bool) (scheduled []domain.ScheduleItem, unscheduledRows []app.UnscheduledRow, warnings []app.Warning) {
	loc := Location(sctx.WorkSettings.Timezone)
	haircut := 1.0
	if cfg.OptimizationMode == domain.ModeConservative {
		haircut = 0.9
	}

	currentDate := cfg.StartDate
	if !sctx.CurrentTime.IsZero() {
		currentDate = domain.LocalDateFromInstant(sctx.CurrentTime, loc)
	}

	remaining := append([]domain.ScheduleItem(nil), items...)
	maxDays := cfg.EffectiveMaxDays()

	for day := 0; day < maxDays && len(remaining) > 0; day++ {
		date := domain.AddDays(currentDate, day)
		if cfg.EndDate != nil && domain.CompareLocalDate(date, *cfg.EndDate) > 0 {
			break
		}
		if !cfg.IncludeWeekends && isWeekend(date) {
			continue
		}

		pattern, ok := findPattern(sctx.WorkPatterns, date)
		if !ok || len(pattern.Blocks) == 0 {
			continue
		}

		blocks := buildBlockStates(pattern, loc, haircut)
		if cfg.RespectsMeetings() {
			placeMeetings(&scheduled, blocks, pattern.Meetings, date, loc)
		}

		isFirstDay := day == 0
		placedAny := false

		for {
			sort.SliceStable(remaining, func(i, j int) bool {
				if remaining[i].Priority != remaining[j].Priority {
					return remaining[i].Priority > remaining[j].Priority
				}
				return remaining[i].ID < remaining[j].ID
			})

			placedThisPass := false
			for idx := 0; idx < len(remaining); idx++ {
				item := remaining[idx]
				if !itemReady(item, completedIDs, scheduled, remaining) {
					continue
				}

				if item.IsWaitingOnAsync {
					start := sctx.CurrentTime
					if item.CompletedAt != nil {
						start = *item.CompletedAt
					}
					wait := item
					wait.Kind = domain.KindAsyncWait
					wait.Duration = item.AsyncWaitMin
					wait.IsWaitTime = true
					wait.IsWaitingOnAsync = false
					st := start
					en := start.Add(time.Duration(item.AsyncWaitMin) * time.Minute)
					wait.StartTime = &st
					wait.EndTime = &en
					scheduled = append(scheduled, wait)
					remaining = removeAt(remaining, idx)
					placedThisPass = true
					placedAny = true
					break
				}

				earliest := blocks[0].startInstant
				if isFirstDay && !sctx.CurrentTime.IsZero() {
					earliest = sctx.CurrentTime
				}
				// An item may never start before its dependencies' effective
				// end instants (wait-block ends included), even when the
				// dependency already counts as satisfied for ordering.
				for _, dep := range item.Dependencies {
					if end := dependencyEndInstant(dep, scheduled); end != nil && end.After(earliest) {
						earliest = *end
					}
				}

				bestBlock, fit := findBestFit(blocks, item, earliest)
				if bestBlock == nil {
					continue
				}

				if fit.canFit {
					end := bestBlock.place(item.ID, item.TaskTypeID, fit.start, item.Duration)
					placed := item
					st := fit.start
					placed.StartTime = &st
					placed.EndTime = &end
					placed.BlockID = bestBlock.block.ID
					scheduled = append(scheduled, placed)
					remaining = removeAt(remaining, idx)

					if item.AsyncWaitMin > 0 {
						waitStart := end
						waitEnd := waitStart.Add(time.Duration(item.AsyncWaitMin) * time.Minute)
						wait := item
						wait.Kind = domain.KindAsyncWait
						wait.Duration = item.AsyncWaitMin
						wait.IsWaitTime = true
						wait.IsFutureWait = true
						wait.StartTime = &waitStart
						wait.EndTime = &waitEnd
						scheduled = append(scheduled, wait)
					}

					if chainLen := dependencyChainLen(item, items); chainLen > 5 {
						warnings = append(warnings, app.Warning{
							Type:    domain.WarningContextSwitch,
							Message: "dependency chain exceeds 5 levels deep",
							ItemID:  item.ID,
						})
					}

					placedThisPass = true
					placedAny = true
					break
				}

				if fit.canPartiallyFit && cfg.AllowsSplitting() {
					slots, covered := planSplitSlots(item, date, fit.availableMin, day, sctx.WorkPatterns, splitConfig{
						maxDays:         maxDays,
						includeWeekends: cfg.IncludeWeekends,
						haircut:         haircut,
					})
					if !covered {
						// The lookahead window can't find enough capacity to
						// cover the item's full duration anywhere — placing
						// the slots found so far would silently drop the
						// uncovered remainder. Leave the whole item in
						// remaining/unscheduled instead of fabricating a
						// falsely-complete split.
						continue
					}
					parts := buildSplitParts(item, slots)
					if len(parts) == 0 {
						continue
					}

					first := parts[0]
					end := bestBlock.place(first.ID, first.TaskTypeID, fit.start, first.Duration)
					st := fit.start
					first.StartTime = &st
					first.EndTime = &end
					first.BlockID = bestBlock.block.ID
					scheduled = append(scheduled, first)

					remaining = removeAt(remaining, idx)
					if len(parts) > 1 {
						remaining = append(remaining, parts[1:]...)
					}

					placedThisPass = true
					placedAny = true
					break
				}
			}

			if !placedThisPass {
				break
			}
		}

		if !placedAny && !anyReady(remaining, completedIDs, scheduled) {
			break
		}
	}

	for _, item := range remaining {
		unscheduledRows = append(unscheduledRows, app.UnscheduledRow{
			Item:   item,
			Reason: unscheduledReason(item, completedIDs, scheduled, remaining),
			Detail: unscheduledDetail(item, completedIDs, scheduled, remaining),
		})
	}

	return scheduled, unscheduledRows, warnings
}

func anyReady(remaining []domain.ScheduleItem, completedIDs map[string]bool, scheduled []domain.ScheduleItem) bool {
	for _, item := range remaining {
		if itemReady(item, completedIDs, scheduled, remaining) {
			return true
		}
	}
	return false
}

func removeAt(items []domain.ScheduleItem, idx int) []domain.ScheduleItem {
	out := make([]domain.ScheduleItem, 0, len(items)-1)
	out = append(out, items[:idx]...)
	out = append(out, items[idx+1:]...)
	return out
}

func buildBlockStates(pattern domain.DailyWorkPattern, loc *time.Location, haircut float64) []*blockState {
	blocks := append([]domain.WorkBlock(nil), pattern.Blocks...)
	sort.Slice(blocks, func(i, j int) bool {
		return domain.CompareLocalTime(blocks[i].StartTime, blocks[j].StartTime) < 0
	})
	states := make([]*blockState, 0, len(blocks))
	for _, b := range blocks {
		states = append(states, newBlockState(b, pattern.Date, loc, haircut))
	}
	return states
}

// placeMeetings occupies block timelines with locked meeting intervals and
// appends a locked ScheduleItem per overlapping block to scheduled, clipped
// to that block's portion of the meeting and tagged with its BlockID so
// block utilization accounting (BlockUtilizations) can see the occupied
// time. A meeting interval falling outside every block (e.g. before the
// first block opens) still gets a single unclipped, block-less item so the
// day's full timeline remains visible.
func placeMeetings(scheduled *[]domain.ScheduleItem, blocks []*blockState, meetings []domain.WorkMeeting, date domain.LocalDate, loc *time.Location) {
	for _, m := range meetings {
		start := instantFor(date, m.StartTime, loc)
		end := instantFor(date, m.EndTime, loc)
		if m.CrossesMidnight() {
			end = end.Add(24 * time.Hour)
		}

		var anyBlock bool
		for _, b := range blocks {
			clipStart, clipEnd := start, end
			if clipStart.Before(b.startInstant) {
				clipStart = b.startInstant
			}
			if clipEnd.After(b.endInstant) {
				clipEnd = b.endInstant
			}
			if !clipEnd.After(clipStart) {
				continue
			}
			anyBlock = true
			b.addMeeting(m.ID, clipStart, clipEnd)

			*scheduled = append(*scheduled, domain.ScheduleItem{
				ID:        m.ID,
				Name:      m.Name,
				Kind:      domain.KindMeeting,
				Duration:  int(clipEnd.Sub(clipStart).Minutes()),
				Priority:  1000,
				Locked:    true,
				StartTime: &clipStart,
				EndTime:   &clipEnd,
				BlockID:   b.block.ID,
			})
		}

		if anyBlock {
			continue
		}

		item := domain.ScheduleItem{
			ID:        m.ID,
			Name:      m.Name,
			Kind:      domain.KindMeeting,
			Duration:  int(end.Sub(start).Minutes()),
			Priority:  1000,
			Locked:    true,
			StartTime: &start,
			EndTime:   &end,
		}
		*scheduled = append(*scheduled, item)
	}
}

// findBestFit returns the first block (in start-time order) that wholly
// fits item, or failing that, the first block that partially fits it.
func findBestFit(blocks []*blockState, item domain.ScheduleItem, earliest time.Time) (*blockState, fitResult) {
	var partialBlock *blockState
	var partialFit fitResult

	for _, b := range blocks {
		fit := canFit(b, item, earliest)
		if fit.canFit {
			return b, fit
		}
		if fit.canPartiallyFit && partialBlock == nil {
			partialBlock = b
			partialFit = fit
		}
	}
	return partialBlock, partialFit
}

func findPattern(patterns []domain.DailyWorkPattern, date domain.LocalDate) (domain.DailyWorkPattern, bool) {
	for _, p := range patterns {
		if p.Date.String() == date.String() {
			return p, true
		}
	}
	return domain.DailyWorkPattern{}, false
}

func isWeekend(date domain.LocalDate) bool {
	t := date.ToTime(time.UTC)
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Location resolves a work-settings timezone name, falling back to the
// process-local zone for an empty or unknown name.
func Location(tz string) *time.Location {
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Local
	}
	return loc
}

func dependencyChainLen(item domain.ScheduleItem, all []domain.ScheduleItem) int {
	nodes := make([]graph.Node, 0, len(all))
	for _, it := range all {
		nodes = append(nodes, graph.Node{
			ID:           it.ID,
			DurationMin:  it.Duration,
			Priority:     it.Priority,
			Dependencies: it.Dependencies,
		})
	}
	return graph.DependencyChainLength(item.ID, nodes)
}

func unscheduledReason(item domain.ScheduleItem, completedIDs map[string]bool, scheduled, remaining []domain.ScheduleItem) domain.UnscheduledReason {
	if item.Duration > 480 {
		return domain.ReasonOverMaxBlockSize
	}
	if item.Kind == domain.KindMeeting {
		return domain.ReasonMeetingNoTime
	}
	if len(unresolvedDependencies(item, completedIDs, scheduled, remaining)) > 0 {
		return domain.ReasonBlockedByDependencies
	}
	return domain.ReasonNoSlot
}

func unscheduledDetail(item domain.ScheduleItem, completedIDs map[string]bool, scheduled, remaining []domain.ScheduleItem) string {
	if unresolved := unresolvedDependencies(item, completedIDs, scheduled, remaining); len(unresolved) > 0 {
		detail := "blocked by:"
		for _, id := range unresolved {
			detail += " " + id
		}
		return detail
	}
	return ""
}
