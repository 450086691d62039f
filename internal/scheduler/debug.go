package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/chronia/scheduler/internal/app"
	"github.com/chronia/scheduler/internal/capacity"
	"github.com/chronia/scheduler/internal/domain"
)

// GenerateDebugInfo builds the C8 diagnostic dump: the first ten scheduled
// items (earliest start first) and every unscheduled row with its reason.
func GenerateDebugInfo(scheduled []domain.ScheduleItem, unscheduled []app.UnscheduledRow) app.SchedulingDebugInfo {
	rows := append([]domain.ScheduleItem(nil), scheduled...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].StartTime == nil || rows[j].StartTime == nil {
			return rows[j].StartTime == nil && rows[i].StartTime != nil
		}
		return rows[i].StartTime.Before(*rows[j].StartTime)
	})

	limit := 10
	if len(rows) < limit {
		limit = len(rows)
	}
	top := make([]app.ScheduledRow, 0, limit)
	for _, item := range rows[:limit] {
		top = append(top, app.ScheduledRow{
			ID:        item.ID,
			Name:      item.Name,
			Kind:      item.Kind,
			Duration:  item.Duration,
			Priority:  item.Priority,
			StartTime: item.StartTime,
			Breakdown: item.PriorityBreakdown,
		})
	}

	return app.SchedulingDebugInfo{
		Scheduled:   top,
		Unscheduled: unscheduled,
	}
}

// BlockUtilizations summarizes, for every (date, block) pair that appeared
// in patterns, how much of its capacity was used by the scheduled set.
func BlockUtilizations(scheduled []domain.ScheduleItem, patterns []domain.DailyWorkPattern, currentDate domain.LocalDate, loc *time.Location) []app.BlockUtilization {
	var out []app.BlockUtilization

	for _, pattern := range patterns {
		for _, block := range pattern.Blocks {
			usedByType := make(map[domain.TaskType]int)
			usedTotal := 0
			for _, item := range scheduled {
				if item.BlockID != block.ID || item.StartTime == nil {
					continue
				}
				if domain.LocalDateFromInstant(*item.StartTime, loc).String() != pattern.Date.String() {
					continue
				}
				usedTotal += item.Duration
				if item.Kind != domain.KindMeeting {
					usedByType[item.TaskTypeID] += item.Duration
				}
			}

			capTotal := block.TotalCapacityMin()
			pct := percentOf(usedTotal, capTotal)

			capByType := make(map[domain.TaskType]int)
			perTypePct := make(map[domain.TaskType]int)
			for t, used := range usedByType {
				c := int(capacity.ForTaskType(block, t))
				capByType[t] = c
				if c > 0 {
					perTypePct[t] = percentOf(used, c)
				}
			}

			var reasons []string
			if usedTotal == 0 {
				reasons = append(reasons, "no eligible items placed in this block")
			} else if usedTotal < capTotal {
				reasons = append(reasons, fmt.Sprintf("%d of %d minutes unused", capTotal-usedTotal, capTotal))
			}

			out = append(out, app.BlockUtilization{
				Date:               pattern.Date,
				BlockID:            block.ID,
				StartTime:          block.StartTime,
				EndTime:            block.EndTime,
				CapacityMin:        capTotal,
				UsedMin:            usedTotal,
				TypeConfig:         block.TypeConfig,
				UtilizationPct:     pct,
				IsCurrent:          pattern.Date.String() == currentDate.String(),
				CapacityByType:     capByType,
				UsedByType:         usedByType,
				PerTypeUtilization: perTypePct,
				ReasonsNotFilled:   reasons,
			})
		}
	}
	return out
}

// percentOf returns used/total as an integer percent, rounded half up.
func percentOf(used, total int) int {
	if total <= 0 {
		return 0
	}
	return (used*100 + total/2) / total
}

// AnalyzeDeadlines classifies every scheduled item carrying a deadline as
// missed, at-risk (buffer above zero and under 24h), or safely within budget.
func AnalyzeDeadlines(scheduled []domain.ScheduleItem) app.DeadlineAnalysis {
	var analysis app.DeadlineAnalysis
	for _, item := range scheduled {
		if item.Deadline == nil || item.EndTime == nil {
			continue
		}
		analysis.TotalWithDeadlines++
		buffer := item.Deadline.Sub(*item.EndTime)
		switch {
		case buffer < 0:
			analysis.MissedDeadlines = append(analysis.MissedDeadlines, item.ID)
		case buffer > 0 && buffer < 24*time.Hour:
			analysis.AtRiskDeadlines = append(analysis.AtRiskDeadlines, item.ID)
		}
	}
	return analysis
}
