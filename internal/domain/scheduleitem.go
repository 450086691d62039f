package domain

import "time"

// ScheduleItem is the uniform internal representation of anything the
// allocator can place: a standalone task, a workflow step, an async wait
// block, a meeting, a break, or blocked time. It is created once by the
// converter, scored once by the priority engine, and then timed/split by the
// allocator — never reconstructed mid-run.
type ScheduleItem struct {
	ID       string
	Name     string
	Kind     ItemKind
	Duration int // minutes
	Priority float64

	Importance          *int
	Urgency             *int
	CognitiveComplexity *int
	TaskTypeID          TaskType

	StartTime *time.Time
	EndTime   *time.Time

	Deadline     *time.Time
	DeadlineType DeadlineType

	Dependencies []string
	AsyncWaitMin int

	Completed   bool
	CompletedAt *time.Time
	Locked      bool

	// Splitting
	IsSplit           bool
	SplitPart         int
	SplitTotal        int
	OriginalTaskID    string
	RemainingDuration int

	// Workflow provenance
	WorkflowID   string
	WorkflowName string
	StepIndex    int

	// Placement
	BlockID string

	// Async-wait semantics. IsAsyncTrigger forces async-urgency scoring even
	// when Duration or AsyncWaitMin is 0.
	IsWaitTime       bool
	IsFutureWait     bool
	IsWaitingOnAsync bool
	IsAsyncTrigger   bool

	// ProvenanceRef carries just enough of the original input to explain a
	// placement decision without retaining a shared reference to it (see
	// design notes on back-pointers).
	ProvenanceRef ProvenanceRef

	// PriorityBreakdown is attached once the priority engine scores the
	// item; nil until then.
	PriorityBreakdown *PriorityBreakdown
}

// ProvenanceRef is the small immutable record a ScheduleItem carries back to
// its input, instead of a shared pointer to the original Task/Step/Workflow.
type ProvenanceRef struct {
	Kind      ItemKind
	SourceID  string
	ProjectID string
	Deadline  *time.Time
}

// PriorityBreakdown records every additive/multiplicative term the priority
// engine computed for an item, for debugging and the change detector's
// downstream consumers.
type PriorityBreakdown struct {
	Eisenhower           float64
	ImportanceMultiplier float64
	UrgencyMultiplier    float64
	Weighted             float64
	DeadlinePressure     float64
	DeadlineBoost        float64
	AsyncUrgency         float64
	AsyncBoost           float64
	CognitiveMatchFactor float64
	CognitiveMatch       float64
	ContextSwitchPenalty float64
	WorkflowDepthBonus   float64
	Total                float64
}
