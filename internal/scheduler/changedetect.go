package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chronia/scheduler/internal/domain"
)

// TaskKey builds the deterministic content key the change detector uses to detect whether a
// task changed in any way the engine cares about.
func TaskKey(t domain.Task) string {
	return strings.Join([]string{
		t.ID,
		t.Name,
		boolStr(t.Completed),
		string(t.TaskTypeID),
		fmt.Sprintf("%d", t.DurationMin),
		intPtrStr(t.ActualDurationMin),
		intPtrOrZero(t.Urgency),
		intPtrOrZero(t.Importance),
		intPtrOrZero(t.CognitiveComplexity),
		fmt.Sprintf("%d", t.AsyncWaitMin),
		timePtrStr(t.Deadline),
		boolStr(t.Locked),
		timePtrStr(t.LockedStartTime),
		boolStr(t.InActiveSprint),
	}, ":")
}

// StepKey builds the per-step content key workflowKey folds in.
func StepKey(s domain.WorkflowStep) string {
	return strings.Join([]string{
		s.ID,
		string(s.Status),
		s.Name,
		fmt.Sprintf("%d", s.DurationMin),
		intPtrStr(s.ActualDurationMin),
		fmt.Sprintf("%d", s.PercentComplete),
		intPtrOrZero(s.CognitiveComplexity),
		fmt.Sprintf("%d", s.AsyncWaitMin),
		boolStr(s.IsAsyncTrigger),
	}, "/")
}

// WorkflowKey builds the full workflow content key: the workflow-level
// fields through TaskKey's shape, followed by every step's StepKey in
// source order.
func WorkflowKey(w domain.Workflow) string {
	asTask := domain.Task{
		ID:           w.ID,
		Name:         w.Name,
		Importance:   w.Importance,
		Urgency:      w.Urgency,
		Deadline:     w.Deadline,
		DeadlineType: w.DeadlineType,
	}
	stepKeys := make([]string, 0, len(w.Steps))
	for _, s := range w.Steps {
		stepKeys = append(stepKeys, StepKey(s))
	}
	return TaskKey(asTask) + "|" + strings.Join(stepKeys, ",")
}

func boolStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func intPtrStr(v *int) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%d", *v)
}

func intPtrOrZero(v *int) string {
	if v == nil {
		return "0"
	}
	return fmt.Sprintf("%d", *v)
}

func timePtrStr(t *time.Time) string {
	if t == nil {
		return "null"
	}
	return t.UTC().Format(time.RFC3339)
}

// HaveTasksChanged reports whether curr and prev differ: a changed count or
// a changed set of keys both count as "changed"; value-for-value comparison
// beyond the key is explicitly out of scope.
func HaveTasksChanged(curr, prev []domain.Task) bool {
	if len(curr) != len(prev) {
		return true
	}
	return !sameKeySet(mapKeys(curr, TaskKey), mapKeys(prev, TaskKey))
}

// HaveWorkflowsChanged is HaveTasksChanged's workflow-keyed counterpart.
func HaveWorkflowsChanged(curr, prev []domain.Workflow) bool {
	if len(curr) != len(prev) {
		return true
	}
	return !sameKeySet(mapWorkflowKeys(curr), mapWorkflowKeys(prev))
}

func mapKeys(tasks []domain.Task, keyFn func(domain.Task) string) []string {
	keys := make([]string, 0, len(tasks))
	for _, t := range tasks {
		keys = append(keys, keyFn(t))
	}
	return keys
}

func mapWorkflowKeys(workflows []domain.Workflow) []string {
	keys := make([]string, 0, len(workflows))
	for _, w := range workflows {
		keys = append(keys, WorkflowKey(w))
	}
	return keys
}

func sameKeySet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]string(nil), a...)
	sb := append([]string(nil), b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

// HaveWorkSettingsChanged compares the default day shape, default capacity,
// the set of custom-date override keys, and timezone. Nested map values are
// not introspected beyond key-set membership, per contract: callers must
// replace an override wholesale to register as a change.
func HaveWorkSettingsChanged(curr, prev domain.WorkSettings) bool {
	if curr.Timezone != prev.Timezone {
		return true
	}
	if curr.DefaultStartTime != prev.DefaultStartTime || curr.DefaultEndTime != prev.DefaultEndTime {
		return true
	}
	if curr.LunchStartTime != prev.LunchStartTime || curr.LunchDurationMin != prev.LunchDurationMin {
		return true
	}
	if curr.MaxFocusHours != prev.MaxFocusHours || curr.MaxAdminHours != prev.MaxAdminHours {
		return true
	}
	return !sameKeySet(overrideDateKeys(curr), overrideDateKeys(prev))
}

func overrideDateKeys(s domain.WorkSettings) []string {
	keys := make([]string, 0, len(s.CustomDayCapacity))
	for d := range s.CustomDayCapacity {
		keys = append(keys, d.String())
	}
	return keys
}

// HaveActiveSessionsChanged reports true when the session count or the set
// of session ids differs.
func HaveActiveSessionsChanged(curr, prev []domain.ActiveSession) bool {
	if len(curr) != len(prev) {
		return true
	}
	ck := make([]string, 0, len(curr))
	for _, s := range curr {
		ck = append(ck, s.ID)
	}
	pk := make([]string, 0, len(prev))
	for _, s := range prev {
		pk = append(pk, s.ID)
	}
	return !sameKeySet(ck, pk)
}

// FilterSchedulableTasks drops completed tasks.
func FilterSchedulableTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// FilterSchedulableWorkflows keeps workflows with at least one actionable
// step: a step whose status is neither Completed, Skipped nor Waiting. A
// Waiting step counts only through a Pending/InProgress step beside it.
func FilterSchedulableWorkflows(workflows []domain.Workflow) []domain.Workflow {
	out := make([]domain.Workflow, 0, len(workflows))
	for _, w := range workflows {
		if workflowIsActionable(w) {
			out = append(out, w)
		}
	}
	return out
}

func workflowIsActionable(w domain.Workflow) bool {
	for _, s := range w.Steps {
		switch s.Status {
		case domain.StepCompleted, domain.StepSkipped, domain.StepWaiting:
			// Completed/Skipped never make a workflow actionable; a Waiting
			// step only does alongside a Pending/InProgress one, which the
			// default case already reports.
		default:
			return true
		}
	}
	return false
}
