package domain

import "time"

// Task is an atomic, independently schedulable unit of work.
type Task struct {
	ID          string
	Name        string
	DurationMin int

	Importance          *int // 0..10
	Urgency             *int // 0..10
	CognitiveComplexity *int // 1..5
	TaskTypeID          TaskType

	Deadline     *time.Time
	DeadlineType DeadlineType

	Dependencies []string
	AsyncWaitMin int // 0 = no async wait

	Completed bool
	ProjectID string

	// ActualDurationMin, when set, is the observed duration of completed
	// work; it feeds the change detector's content key but never the
	// allocator, which always plans against DurationMin.
	ActualDurationMin *int
	Locked            bool
	LockedStartTime   *time.Time
	InActiveSprint    bool
}

// WorkflowStep is one ordered step of a Workflow's DAG. A step may override
// its parent workflow's Importance/Urgency; anything left nil inherits.
type WorkflowStep struct {
	ID          string
	Name        string
	DurationMin int

	Importance          *int
	Urgency             *int
	CognitiveComplexity *int
	TaskTypeID          TaskType

	Dependencies []string
	AsyncWaitMin int

	Completed bool

	// Waiting marks a step whose async work is already in progress
	// externally; CompletedAt records when that wait started.
	Waiting     bool
	CompletedAt *time.Time

	// IsAsyncTrigger forces async-urgency scoring even when DurationMin is 0.
	IsAsyncTrigger bool

	// Status and PercentComplete feed the change detector's stepKey and
	// filterSchedulableWorkflows; the converter also treats Status ==
	// StepCompleted as completed, and otherwise reads Completed and Waiting.
	Status            StepStatus
	PercentComplete   int
	ActualDurationMin *int
}

// StepStatus is the closed set of workflow-step lifecycle states the change
// detector and schedulability filter read.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepSkipped    StepStatus = "skipped"
	StepWaiting    StepStatus = "waiting"
)

// Workflow owns an ordered DAG of steps and the deadline/importance/urgency
// defaults its steps inherit.
type Workflow struct {
	ID    string
	Name  string
	Steps []WorkflowStep

	Importance *int
	Urgency    *int

	Deadline     *time.Time
	DeadlineType DeadlineType

	ProjectID string
}

// CriticalPathDuration returns the longest duration-weighted dependency path
// through the workflow's own steps (dependencies scoped to step IDs within
// this workflow).
func (w Workflow) CriticalPathDuration() int {
	durations := make(map[string]int, len(w.Steps))
	deps := make(map[string][]string, len(w.Steps))
	for _, s := range w.Steps {
		durations[s.ID] = s.DurationMin
		deps[s.ID] = s.Dependencies
	}
	memo := make(map[string]int, len(w.Steps))
	var longest func(id string) int
	longest = func(id string) int {
		if v, ok := memo[id]; ok {
			return v
		}
		best := 0
		for _, dep := range deps[id] {
			if _, known := durations[dep]; !known {
				continue // dependency outside this workflow
			}
			if v := longest(dep); v > best {
				best = v
			}
		}
		v := durations[id] + best
		memo[id] = v
		return v
	}
	max := 0
	for _, s := range w.Steps {
		if v := longest(s.ID); v > max {
			max = v
		}
	}
	return max
}
