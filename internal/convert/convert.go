// Package convert implements the item converter (C5): turning a mixed bag
// of Tasks, Workflows, and WorkflowSteps into the uniform ScheduleItem the
// rest of the engine operates on.
package convert

import "github.com/chronia/scheduler/internal/domain"

const (
	defaultImportance = 5
	defaultUrgency    = 5
	defaultCognitive  = 3
)

// Input is the tagged union the converter accepts: exactly one of Task or
// Workflow is set per element.
type Input struct {
	Task     *domain.Task
	Workflow *domain.Workflow
}

// Result is the converter's output: the active (schedulable) items and the
// set of ids that were already completed, pulled out of the active set.
type Result struct {
	ActiveItems      []domain.ScheduleItem
	CompletedItemIDs map[string]bool
}

// Convert maps inputs into ScheduleItems, deduplicating by id (the first
// occurrence of a given id wins) and splitting completed items out of the
// active set.
func Convert(inputs []Input) Result {
	result := Result{CompletedItemIDs: make(map[string]bool)}
	seen := make(map[string]bool)

	for _, in := range inputs {
		switch {
		case in.Task != nil:
			item := fromTask(*in.Task)
			addItem(&result, seen, item)
		case in.Workflow != nil:
			for idx, step := range in.Workflow.Steps {
				item := fromStep(*in.Workflow, step, idx)
				addItem(&result, seen, item)
			}
		}
	}

	return result
}

func addItem(result *Result, seen map[string]bool, item domain.ScheduleItem) {
	if seen[item.ID] {
		return
	}
	seen[item.ID] = true

	if item.Completed {
		result.CompletedItemIDs[item.ID] = true
		return
	}
	result.ActiveItems = append(result.ActiveItems, item)
}

func fromTask(t domain.Task) domain.ScheduleItem {
	return domain.ScheduleItem{
		ID:                  t.ID,
		Name:                t.Name,
		Kind:                domain.KindTask,
		Duration:            t.DurationMin,
		Importance:          withDefault(t.Importance, defaultImportance),
		Urgency:             withDefault(t.Urgency, defaultUrgency),
		CognitiveComplexity: withDefault(t.CognitiveComplexity, defaultCognitive),
		TaskTypeID:          t.TaskTypeID,
		Deadline:            t.Deadline,
		DeadlineType:        t.DeadlineType,
		Dependencies:        append([]string(nil), t.Dependencies...),
		AsyncWaitMin:        t.AsyncWaitMin,
		Completed:           t.Completed,
		ProvenanceRef: domain.ProvenanceRef{
			Kind:      domain.KindTask,
			SourceID:  t.ID,
			ProjectID: t.ProjectID,
			Deadline:  t.Deadline,
		},
	}
}

func fromStep(w domain.Workflow, s domain.WorkflowStep, idx int) domain.ScheduleItem {
	importance := s.Importance
	if importance == nil {
		importance = w.Importance
	}
	urgency := s.Urgency
	if urgency == nil {
		urgency = w.Urgency
	}
	completed := s.Completed || s.Status == domain.StepCompleted

	item := domain.ScheduleItem{
		ID:                  s.ID,
		Name:                s.Name,
		Kind:                domain.KindWorkflowStep,
		Duration:            s.DurationMin,
		Importance:          withDefault(importance, defaultImportance),
		Urgency:             withDefault(urgency, defaultUrgency),
		CognitiveComplexity: withDefault(s.CognitiveComplexity, defaultCognitive),
		TaskTypeID:          s.TaskTypeID,
		Deadline:            w.Deadline,
		DeadlineType:        w.DeadlineType,
		Dependencies:        append([]string(nil), s.Dependencies...),
		AsyncWaitMin:        s.AsyncWaitMin,
		IsAsyncTrigger:      s.IsAsyncTrigger,
		Completed:           completed,
		CompletedAt:         s.CompletedAt,
		WorkflowID:          w.ID,
		WorkflowName:        w.Name,
		StepIndex:           idx,
		ProvenanceRef: domain.ProvenanceRef{
			Kind:      domain.KindWorkflowStep,
			SourceID:  s.ID,
			ProjectID: w.ProjectID,
			Deadline:  w.Deadline,
		},
	}

	// A step already Waiting with no recorded async time left to elapse has
	// nothing to wait on — it stays an ordinary active item, never an
	// isWaitingOnAsync placeholder.
	if s.Waiting && s.AsyncWaitMin > 0 {
		item.IsWaitingOnAsync = true
	}

	return item
}

func withDefault(v *int, def int) *int {
	if v != nil {
		return v
	}
	d := def
	return &d
}
