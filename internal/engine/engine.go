// Package engine wires the converter, priority engine, graph validator, and
// allocator into the single public entrypoint the rest of the system calls:
// Schedule. Each phase (convert, validate, score, order, allocate, summarize)
// is a small top-level function rather than a method on a request-scoped
// struct, since the engine has no repository dependencies to thread through.
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/chronia/scheduler/internal/app"
	"github.com/chronia/scheduler/internal/convert"
	"github.com/chronia/scheduler/internal/domain"
	"github.com/chronia/scheduler/internal/graph"
	"github.com/chronia/scheduler/internal/scheduler"
)

// Schedule runs the full pipeline: convert, validate the dependency graph,
// score, topologically order, and allocate. A dependency cycle or missing
// dependency is a Conflict, not an error — the run recovers and returns an
// empty placement with the Conflict attached.
func Schedule(inputs []convert.Input, sctx app.ScheduleContext, cfg app.ScheduleConfig) app.ScheduleResult {
	if cfg.CurrentTime != nil {
		sctx.CurrentTime = *cfg.CurrentTime
	}

	converted := convert.Convert(inputs)
	items := converted.ActiveItems

	nodes := make([]graph.Node, 0, len(items))
	for _, it := range items {
		nodes = append(nodes, graph.Node{ID: it.ID, DurationMin: it.Duration, Dependencies: it.Dependencies})
	}

	if missing := graph.MissingDependencies(nodes); len(missing) > 0 {
		return app.ScheduleResult{
			Unscheduled: items,
			Conflicts:   []app.Conflict{missingDependencyConflict(missing)},
		}
	}
	if cycles := graph.DetectCycles(nodes); cycles.HasCycle {
		return app.ScheduleResult{
			Unscheduled: items,
			Conflicts:   []app.Conflict{cycleConflict(cycles)},
		}
	}

	workflowCriticalPath := criticalPathByWorkflow(inputs)
	asyncContexts := buildAsyncContexts(items)
	items = scoreAll(items, sctx, workflowCriticalPath, asyncContexts)

	order := graph.TopologicalSort(toScoredNodes(items))
	items = reorder(items, order)

	var scheduled []domain.ScheduleItem
	var unscheduledRows []app.UnscheduledRow
	var warnings []app.Warning

	if cfg.OptimizationMode == domain.ModeOptimal {
		scheduled = scheduler.CalculateOptimalSchedule(items, sctx)
	} else {
		scheduled, unscheduledRows, warnings = scheduler.Allocate(items, sctx, cfg, converted.CompletedItemIDs)
	}

	var unscheduled []domain.ScheduleItem
	for _, row := range unscheduledRows {
		unscheduled = append(unscheduled, row.Item)
	}

	result := app.ScheduleResult{
		Scheduled:   scheduled,
		Unscheduled: unscheduled,
		Warnings:    warnings,
	}

	if cfg.DebugMode {
		loc := scheduler.Location(sctx.WorkSettings.Timezone)
		result.DebugInfo = scheduler.GenerateDebugInfo(scheduled, unscheduledRows)
		utils := scheduler.BlockUtilizations(scheduled, sctx.WorkPatterns, currentDateOf(sctx, loc), loc)
		deadlines := scheduler.AnalyzeDeadlines(scheduled)
		result.Metrics = scheduler.CalculateMetrics(scheduled, unscheduled, utils, deadlines, loc)
	}

	return result
}

func currentDateOf(sctx app.ScheduleContext, loc *time.Location) domain.LocalDate {
	if sctx.CurrentTime.IsZero() {
		return sctx.StartDate
	}
	return domain.LocalDateFromInstant(sctx.CurrentTime, loc)
}

// scoreAll scores every item once the per-workflow critical path is known,
// since ScoreItem's deadline-pressure and workflow-depth-bonus terms both
// read it.
func scoreAll(items []domain.ScheduleItem, sctx app.ScheduleContext, criticalPath map[string]int, asyncContexts map[string]scheduler.AsyncContext) []domain.ScheduleItem {
	ctx := scheduler.ScoringContext{
		Now:                     sctx.CurrentTime,
		WorkSettings:            sctx.WorkSettings,
		SchedulingPreferences:   sctx.SchedulingPreferences,
		ProductivityPatterns:    sctx.ProductivityPatterns,
		LastScheduledItem:       sctx.LastScheduledItem,
		WorkflowCriticalPathMin: criticalPath,
		AsyncContexts:           asyncContexts,
	}
	out := make([]domain.ScheduleItem, len(items))
	for i, item := range items {
		breakdown := scheduler.ScoreItem(item, ctx)
		item.PriorityBreakdown = &breakdown
		item.Priority = breakdown.Total
		out[i] = item
	}
	return out
}

// buildAsyncContexts resolves, for every item with a nonzero async wait, the
// nearest deadline and total remaining work across its transitive
// dependents — the chain data ScoreItem's async-urgency formula needs but
// cannot walk itself (priority.ScoreItem scores one item at a time).
func buildAsyncContexts(items []domain.ScheduleItem) map[string]scheduler.AsyncContext {
	byID := make(map[string]domain.ScheduleItem, len(items))
	dependents := make(map[string][]string, len(items))
	for _, it := range items {
		byID[it.ID] = it
		for _, dep := range it.Dependencies {
			dependents[dep] = append(dependents[dep], it.ID)
		}
	}

	out := make(map[string]scheduler.AsyncContext)
	for _, it := range items {
		if it.AsyncWaitMin <= 0 {
			continue
		}

		visited := map[string]bool{it.ID: true}
		var chainDeadline *domain.ScheduleItem
		var workHours float64

		var walk func(id string)
		walk = func(id string) {
			for _, depID := range dependents[id] {
				if visited[depID] {
					continue
				}
				visited[depID] = true
				dep := byID[depID]
				workHours += float64(dep.Duration) / 60.0
				if dep.Deadline != nil && (chainDeadline == nil || dep.Deadline.Before(*chainDeadline.Deadline)) {
					d := dep
					chainDeadline = &d
				}
				walk(depID)
			}
		}
		walk(it.ID)

		asyncCtx := scheduler.AsyncContext{DependentWorkHours: workHours}
		if chainDeadline != nil {
			asyncCtx.ChainDeadline = chainDeadline.Deadline
		}
		out[it.ID] = asyncCtx
	}
	return out
}

func criticalPathByWorkflow(inputs []convert.Input) map[string]int {
	out := make(map[string]int)
	for _, in := range inputs {
		if in.Workflow == nil {
			continue
		}
		out[in.Workflow.ID] = in.Workflow.CriticalPathDuration()
	}
	return out
}

func toScoredNodes(items []domain.ScheduleItem) []graph.Node {
	nodes := make([]graph.Node, 0, len(items))
	for _, it := range items {
		nodes = append(nodes, graph.Node{
			ID:           it.ID,
			DurationMin:  it.Duration,
			Priority:     it.Priority,
			Dependencies: it.Dependencies,
		})
	}
	return nodes
}

func reorder(items []domain.ScheduleItem, order []string) []domain.ScheduleItem {
	byID := make(map[string]domain.ScheduleItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	out := make([]domain.ScheduleItem, 0, len(items))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

func missingDependencyConflict(missing map[string][]string) app.Conflict {
	ids := make([]string, 0, len(missing))
	for id := range missing {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return app.Conflict{
		Type:            domain.ConflictMissingDependency,
		Message:         fmt.Sprintf("%d item(s) reference a dependency not present in the input set", len(missing)),
		AffectedItemIDs: ids,
	}
}

func cycleConflict(result graph.CycleResult) app.Conflict {
	seen := make(map[string]bool)
	var ids []string
	for _, cycle := range result.Cycles {
		for _, id := range cycle {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return app.Conflict{
		Type:            domain.ConflictDependencyCycle,
		Message:         fmt.Sprintf("dependency cycle detected among %d item(s)", len(ids)),
		AffectedItemIDs: ids,
	}
}
