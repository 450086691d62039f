package scheduler

import (
	"time"

	"github.com/chronia/scheduler/internal/app"
	"github.com/chronia/scheduler/internal/domain"
	"github.com/chronia/scheduler/internal/graph"
)

// CalculateMetrics implements C8's summary-statistics view over a completed
// placement: per-type hours, overall capacity utilization, a deadline risk
// score, and the critical path length across the full (scheduled +
// unscheduled) item set.
func CalculateMetrics(scheduled []domain.ScheduleItem, unscheduled []domain.ScheduleItem, utilizations []app.BlockUtilization, deadlineAnalysis app.DeadlineAnalysis, loc *time.Location) *app.SchedulingMetrics {
	hoursByType := make(map[domain.TaskType]float64)
	days := make(map[string]bool)
	var latest *time.Time

	for _, item := range scheduled {
		if item.IsWaitTime {
			continue
		}
		hoursByType[item.TaskTypeID] += float64(item.Duration) / 60.0
		if item.StartTime != nil {
			days[domain.LocalDateFromInstant(*item.StartTime, loc).String()] = true
		}
		if item.EndTime != nil && (latest == nil || item.EndTime.After(*latest)) {
			latest = item.EndTime
		}
	}

	var totalCap, totalUsed int
	var utilSum float64
	for _, u := range utilizations {
		totalCap += u.CapacityMin
		totalUsed += u.UsedMin
		utilSum += float64(u.UtilizationPct) / 100.0
	}
	capacityUtilization := 0.0
	if totalCap > 0 {
		capacityUtilization = float64(totalUsed) / float64(totalCap)
	}
	averageUtilization := 0.0
	if len(utilizations) > 0 {
		averageUtilization = utilSum / float64(len(utilizations))
	}

	deadlineRisk := 0.0
	if deadlineAnalysis.TotalWithDeadlines > 0 {
		risky := len(deadlineAnalysis.MissedDeadlines) + len(deadlineAnalysis.AtRiskDeadlines)
		deadlineRisk = float64(risky) / float64(deadlineAnalysis.TotalWithDeadlines)
	}

	all := append(append([]domain.ScheduleItem(nil), scheduled...), unscheduled...)
	nodes := make([]graph.Node, 0, len(all))
	for _, it := range all {
		nodes = append(nodes, graph.Node{
			ID:           it.ID,
			DurationMin:  it.Duration,
			Priority:     it.Priority,
			Dependencies: it.Dependencies,
		})
	}

	return &app.SchedulingMetrics{
		TotalWorkDays:           len(days),
		HoursByType:             hoursByType,
		ProjectedCompletionDate: latest,
		CapacityUtilization:     capacityUtilization,
		DeadlineRiskScore:       deadlineRisk,
		CriticalPathLength:      graph.CriticalPathMinutes(nodes),
		ScheduledCount:          len(scheduled),
		UnscheduledCount:        len(unscheduled),
		AverageUtilization:      averageUtilization,
	}
}
