// Package scheduler implements the priority engine (C6), the multi-day
// allocator (C7), debug/metrics generation (C8), and the change detector
// (C9) — the algorithmic heart of the engine, split across a scorer and an
// allocator the way a weighted-factor planner and its placement loop
// naturally separate.
package scheduler

import (
	"math"
	"time"

	"github.com/chronia/scheduler/internal/domain"
)

// AsyncContext supplies the per-item data the async-urgency formula needs
// about what depends on this item, resolved by the caller from the
// dependency graph before scoring (the priority engine itself never walks
// dependents).
type AsyncContext struct {
	// ChainDeadline is the nearest deadline anywhere on this item's
	// dependent chain, or nil if none exists.
	ChainDeadline *time.Time
	// DependentWorkHours is the total remaining work, in hours, of items
	// that depend (transitively) on this one finishing its async wait.
	DependentWorkHours float64
}

// ScoringContext bundles everything the priority engine needs beyond the
// item being scored.
type ScoringContext struct {
	Now                     time.Time
	WorkSettings            domain.WorkSettings
	SchedulingPreferences   domain.SchedulingPreferences
	ProductivityPatterns    []domain.ProductivityPattern
	LastScheduledItem       *domain.LastScheduledItem
	WorkflowCriticalPathMin map[string]int // workflowID -> minutes
	AsyncContexts           map[string]AsyncContext
}

// ScoreItem computes item's PriorityBreakdown and total score.
// It does not mutate item; callers assign the result back.
func ScoreItem(item domain.ScheduleItem, ctx ScoringContext) domain.PriorityBreakdown {
	importance := floatOrDefault(item.Importance, 5)
	urgency := floatOrDefault(item.Urgency, 5)

	eisenhower := importance * urgency
	mi := multiplierFor(importance)
	mu := multiplierFor(urgency)
	weighted := eisenhower * mi * mu

	pressure := deadlinePressure(item, ctx)
	deadlineBoost := 0.0
	if pressure > 1 {
		deadlineBoost = pressure * 100
	}

	asyncBoost := asyncUrgency(item, ctx)

	cogFactor := cognitiveMatchFactor(item, ctx)
	cognitiveMatch := weighted * (cogFactor - 1)

	contextSwitchPenalty := 0.0
	if ctx.LastScheduledItem != nil {
		last := ctx.LastScheduledItem
		if last.TaskID != item.ID || (last.ProjectID != "" && last.ProjectID != item.ProvenanceRef.ProjectID) {
			penalty := ctx.SchedulingPreferences.ContextSwitchPenalty
			if penalty == 0 {
				penalty = 5
			}
			contextSwitchPenalty = -penalty
		}
	}

	workflowDepthBonus := 0.0
	if item.Kind == domain.KindWorkflowStep {
		criticalPathHours := float64(ctx.WorkflowCriticalPathMin[item.WorkflowID]) / 60.0
		workflowDepthBonus = math.Min(50, criticalPathHours*5)
	}

	total := weighted + deadlineBoost + asyncBoost*cogFactor + contextSwitchPenalty + workflowDepthBonus

	return domain.PriorityBreakdown{
		Eisenhower:           eisenhower,
		ImportanceMultiplier: mi,
		UrgencyMultiplier:    mu,
		Weighted:             weighted,
		DeadlinePressure:     pressure,
		DeadlineBoost:        deadlineBoost,
		AsyncUrgency:         asyncBoost,
		AsyncBoost:           asyncBoost,
		CognitiveMatchFactor: cogFactor,
		CognitiveMatch:       cognitiveMatch,
		ContextSwitchPenalty: contextSwitchPenalty,
		WorkflowDepthBonus:   workflowDepthBonus,
		Total:                total,
	}
}

func floatOrDefault(v *int, def float64) float64 {
	if v == nil {
		return def
	}
	return float64(*v)
}

// multiplierFor implements the weighted-Eisenhower step-function boost.
func multiplierFor(v float64) float64 {
	switch {
	case v >= 9:
		return 1.5
	case v >= 7:
		return 1.2
	default:
		return 1.0
	}
}

// deadlinePressure returns 1.0 if no deadline exists
// anywhere in the lookup chain (already folded into item.Deadline by the
// converter).
func deadlinePressure(item domain.ScheduleItem, ctx ScoringContext) float64 {
	if item.Deadline == nil {
		return 1.0
	}

	criticalPathHours := float64(item.Duration) / 60.0
	if item.Kind == domain.KindWorkflowStep {
		if mins, ok := ctx.WorkflowCriticalPathMin[item.WorkflowID]; ok {
			criticalPathHours = float64(mins) / 60.0
		}
	}

	workHoursPerDay := ctx.WorkSettings.WorkHoursPerDay()
	if workHoursPerDay <= 0 {
		workHoursPerDay = 8
	}
	workDaysNeeded := criticalPathHours / workHoursPerDay

	daysUntilDeadline := item.Deadline.Sub(ctx.Now).Hours() / 24
	slackDays := daysUntilDeadline - workDaysNeeded

	if slackDays <= 0 {
		return 1000
	}

	k := 5.0
	if item.DeadlineType == domain.DeadlineHard {
		k = 10.0
	}
	const p = 1.1
	pressure := k / math.Pow(slackDays+0.4, p)

	basePressure := 1.0
	if slackDays > 5 {
		basePressure = 1.1
	}

	result := math.Max(basePressure, pressure)
	return clamp(result, basePressure, 1000)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// asyncUrgency scores how urgent an async-wait item's dependents are.
func asyncUrgency(item domain.ScheduleItem, ctx ScoringContext) float64 {
	triggered := (item.AsyncWaitMin > 0 && item.Duration > 0) || item.IsAsyncTrigger || item.IsWaitingOnAsync
	if !triggered {
		return 0
	}

	asyncWaitHours := float64(item.AsyncWaitMin) / 60.0
	base := math.Min(500, 40+asyncWaitHours*40)

	asyncCtx := ctx.AsyncContexts[item.ID]
	if asyncCtx.ChainDeadline == nil {
		return base
	}

	hoursUntilDeadline := asyncCtx.ChainDeadline.Sub(ctx.Now).Hours()
	daysUntilDeadline := hoursUntilDeadline / 24
	availableTimeAfterAsync := hoursUntilDeadline - asyncWaitHours

	workHoursPerDay := ctx.WorkSettings.WorkHoursPerDay()
	if workHoursPerDay <= 0 {
		workHoursPerDay = 8
	}

	var availableWorkHours float64
	if availableTimeAfterAsync > 0 {
		availableWorkHours = (availableTimeAfterAsync / 24) * workHoursPerDay
	}

	var compressionRatio float64
	if availableWorkHours <= 0 {
		compressionRatio = 2
	} else {
		compressionRatio = asyncCtx.DependentWorkHours / availableWorkHours
	}

	asyncRatio := asyncWaitHours / math.Max(1, hoursUntilDeadline)
	baseAsyncUrgency := 20 * math.Exp(3*asyncRatio)
	waitTimeBoost := 10 * math.Exp(asyncWaitHours/24)
	compressionBoost := 5 * math.Exp(compressionRatio)
	timePressure := 10 / (daysUntilDeadline + 1)
	sum := base + baseAsyncUrgency + waitTimeBoost + compressionBoost + timePressure

	switch {
	case compressionRatio > 1.5:
		return math.Max(200, sum)
	case compressionRatio >= 0.7:
		return math.Max(80, sum)
	default:
		return math.Min(300, sum)
	}
}

// cognitiveMatchFactor scores how well a task's cognitive complexity fits the current capacity band.
func cognitiveMatchFactor(item domain.ScheduleItem, ctx ScoringContext) float64 {
	if len(ctx.ProductivityPatterns) == 0 {
		return 1.0
	}

	hour := ctx.Now.Hour()
	var pattern *domain.ProductivityPattern
	for i := range ctx.ProductivityPatterns {
		if ctx.ProductivityPatterns[i].Contains(hour) {
			pattern = &ctx.ProductivityPatterns[i]
			break
		}
	}
	if pattern == nil {
		return 1.0
	}

	complexity := 3
	if item.CognitiveComplexity != nil {
		complexity = *item.CognitiveComplexity
	}

	band, ok := domain.CapacityLevelRank[pattern.CognitiveCapacity]
	if !ok {
		return 1.0
	}

	if complexityMatchesBand(pattern.CognitiveCapacity, complexity) {
		return 1.2
	}

	diff := math.Abs(float64(band - complexity))
	return math.Max(0.7, 1-0.15*diff)
}

// complexityMatchesBand reports whether complexity falls in the range
// assigned to capacity: peak:[4,5], high:[3,4], moderate:[2,3], low:[1,2].
func complexityMatchesBand(capacity domain.CapacityLevel, complexity int) bool {
	switch capacity {
	case domain.CapacityPeak:
		return complexity >= 4 && complexity <= 5
	case domain.CapacityHigh:
		return complexity >= 3 && complexity <= 4
	case domain.CapacityModerate:
		return complexity >= 2 && complexity <= 3
	case domain.CapacityLow:
		return complexity >= 1 && complexity <= 2
	default:
		return false
	}
}
