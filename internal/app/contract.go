// Package app holds the value-object contracts the engine returns across
// its public boundary: the result of a scheduling run, its conflicts and
// warnings, and the debug/metrics views built on top of it. Small, flat
// structs with no behavior, kept separate from the domain entities they
// summarize.
package app

import (
	"time"

	"github.com/chronia/scheduler/internal/domain"
)

// Conflict is a fatal scheduling-run problem: the run recovered (it never
// aborts mid-run) and returned an empty or partial placement instead.
type Conflict struct {
	Type            domain.ConflictType
	Message         string
	AffectedItemIDs []string
}

// Warning is a non-fatal scheduling observation surfaced alongside a
// successful placement.
type Warning struct {
	Type    domain.WarningType
	Message string
	ItemID  string
}

// ScheduleContext bundles everything a scheduling run needs beyond the raw
// item list.
type ScheduleContext struct {
	StartDate             domain.LocalDate
	WorkPatterns          []domain.DailyWorkPattern
	ProductivityPatterns  []domain.ProductivityPattern
	SchedulingPreferences domain.SchedulingPreferences
	WorkSettings          domain.WorkSettings
	CurrentTime           time.Time
	LastScheduledItem     *domain.LastScheduledItem
}

// ScheduleConfig tunes how a scheduling run behaves.
type ScheduleConfig struct {
	StartDate          domain.LocalDate
	EndDate            *domain.LocalDate
	IncludeWeekends    bool
	AllowTaskSplitting *bool // nil == true (default)
	RespectMeetings    *bool // nil == true (default)
	OptimizationMode   domain.OptimizationMode
	DebugMode          bool
	MaxDays            int // 0 == default 30
	CurrentTime        *time.Time
}

// AllowsSplitting reports the effective AllowTaskSplitting, defaulting true.
func (c ScheduleConfig) AllowsSplitting() bool {
	return c.AllowTaskSplitting == nil || *c.AllowTaskSplitting
}

// RespectsMeetings reports the effective RespectMeetings, defaulting true.
func (c ScheduleConfig) RespectsMeetings() bool {
	return c.RespectMeetings == nil || *c.RespectMeetings
}

// EffectiveMaxDays returns MaxDays or the default of 30.
func (c ScheduleConfig) EffectiveMaxDays() int {
	if c.MaxDays > 0 {
		return c.MaxDays
	}
	return 30
}

// ScheduleResult is the engine's full public output.
type ScheduleResult struct {
	Scheduled   []domain.ScheduleItem
	Unscheduled []domain.ScheduleItem
	DebugInfo   SchedulingDebugInfo
	Metrics     *SchedulingMetrics
	Conflicts   []Conflict
	Warnings    []Warning
}

// UnscheduledRow annotates a single unscheduled item with why it didn't
// place.
type UnscheduledRow struct {
	Item   domain.ScheduleItem
	Reason domain.UnscheduledReason
	Detail string
}

// ScheduledRow is one row of the debug dump for a placed item.
type ScheduledRow struct {
	ID        string
	Name      string
	Kind      domain.ItemKind
	Duration  int
	Priority  float64
	StartTime *time.Time
	Breakdown *domain.PriorityBreakdown
}

// SchedulingDebugInfo is the engine's per-item diagnostic dump (C8).
type SchedulingDebugInfo struct {
	Scheduled   []ScheduledRow // first ten scheduled items
	Unscheduled []UnscheduledRow
}

// BlockUtilization is one work block's per-run utilization summary.
type BlockUtilization struct {
	Date               domain.LocalDate
	BlockID            string
	StartTime          domain.LocalTime
	EndTime            domain.LocalTime
	CapacityMin        int
	UsedMin            int
	TypeConfig         domain.BlockTypeConfig
	UtilizationPct     int
	IsCurrent          bool
	CapacityByType     map[domain.TaskType]int
	UsedByType         map[domain.TaskType]int
	PerTypeUtilization map[domain.TaskType]int
	ReasonsNotFilled   []string
}

// DeadlineAnalysis summarizes deadline risk across a placement.
type DeadlineAnalysis struct {
	MissedDeadlines    []string // item ids whose EndTime > Deadline
	AtRiskDeadlines    []string // item ids with 0 < buffer < 24h
	TotalWithDeadlines int
}

// SchedulingMetrics is the engine's summary statistics view (C8).
type SchedulingMetrics struct {
	TotalWorkDays           int
	HoursByType             map[domain.TaskType]float64
	ProjectedCompletionDate *time.Time
	CapacityUtilization     float64 // 0..1 overall
	DeadlineRiskScore       float64 // 0..1
	CriticalPathLength      int     // minutes
	ScheduledCount          int
	UnscheduledCount        int
	AverageUtilization      float64 // 0..1, mean of per-block utilization
}
