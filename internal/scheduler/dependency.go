package scheduler

import (
	"time"

	"github.com/chronia/scheduler/internal/domain"
)

// dependencySatisfied reports whether a dependency id is satisfied when
// it is in completedIDs (and not still an active isWaitingOnAsync item), or
// when every placed item sharing that id (directly or via OriginalTaskID,
// i.e. a split's parts) has a non-nil EndTime — with a wait block's EndTime
// taking precedence over its parent's body EndTime, since wait blocks carry
// the same id as their parent and represent the true completion instant
// downstream items must wait for.
func dependencySatisfied(depID string, completedIDs map[string]bool, scheduled, remaining []domain.ScheduleItem) bool {
	if completedIDs[depID] {
		for _, r := range remaining {
			if r.ID == depID && r.IsWaitingOnAsync {
				return false
			}
		}
		return true
	}

	var waitEnded, bodyEnded, sawIncomplete, found, sawSplit, sawFinalSplit bool
	for _, s := range scheduled {
		if s.ID != depID && s.OriginalTaskID != depID {
			continue
		}
		found = true
		if s.IsSplit {
			sawSplit = true
			if s.SplitPart != s.SplitTotal {
				// An earlier split part completing never satisfies the
				// dependency on its own; only the final part's end time
				// marks the original task as done.
				continue
			}
			sawFinalSplit = true
		}
		if s.EndTime == nil {
			sawIncomplete = true
			continue
		}
		if s.IsWaitTime {
			waitEnded = true
		} else {
			bodyEnded = true
		}
	}
	if !found {
		return false
	}
	if sawSplit && !sawFinalSplit {
		// The task has been split but its last part hasn't been scheduled
		// yet, so the original task is not yet complete.
		return false
	}
	if waitEnded {
		return true
	}
	if sawIncomplete {
		return false
	}
	return bodyEnded
}

// dependencyEndInstant returns the instant depID actually completes, from
// the placed set: the latest EndTime across placed items carrying that id
// (directly or as split parts of it), with a wait block's end taking
// precedence over the body's — the wait block shares the parent's id and
// marks the true completion instant downstream items must not start before.
// Returns nil when nothing placed carries the id (e.g. the dependency was
// satisfied via completedIDs).
func dependencyEndInstant(depID string, scheduled []domain.ScheduleItem) *time.Time {
	var waitEnd, bodyEnd *time.Time
	for i := range scheduled {
		s := &scheduled[i]
		if s.ID != depID && s.OriginalTaskID != depID {
			continue
		}
		if s.EndTime == nil {
			continue
		}
		if s.IsWaitTime {
			if waitEnd == nil || s.EndTime.After(*waitEnd) {
				waitEnd = s.EndTime
			}
		} else if bodyEnd == nil || s.EndTime.After(*bodyEnd) {
			bodyEnd = s.EndTime
		}
	}
	if waitEnd != nil {
		return waitEnd
	}
	return bodyEnd
}

// itemReady reports whether every dependency of item is satisfied.
func itemReady(item domain.ScheduleItem, completedIDs map[string]bool, scheduled, remaining []domain.ScheduleItem) bool {
	for _, dep := range item.Dependencies {
		if !dependencySatisfied(dep, completedIDs, scheduled, remaining) {
			return false
		}
	}
	return true
}

// unresolvedDependencies returns the subset of item's dependencies that are
// not currently satisfied, for the debug/unscheduled reason message.
func unresolvedDependencies(item domain.ScheduleItem, completedIDs map[string]bool, scheduled, remaining []domain.ScheduleItem) []string {
	var unresolved []string
	for _, dep := range item.Dependencies {
		if !dependencySatisfied(dep, completedIDs, scheduled, remaining) {
			unresolved = append(unresolved, dep)
		}
	}
	return unresolved
}
