package domain

// TaskType identifies the kind of work capacity a task consumes. The set is
// open — callers may use any string — but a handful of values are reserved.
type TaskType string

const (
	TaskFocused  TaskType = "focused"
	TaskAdmin    TaskType = "admin"
	TaskPersonal TaskType = "personal"
	// TaskMixed is a wildcard: it matches the capacity of any Single block
	// and is never itself a Combo allocation key.
	TaskMixed TaskType = "mixed"
)

// DeadlineType distinguishes a deadline the scheduler must never miss from
// one it may miss under enough pressure.
type DeadlineType string

const (
	DeadlineHard DeadlineType = "hard"
	DeadlineSoft DeadlineType = "soft"
)

// ItemKind is the closed set of ScheduleItem kinds.
type ItemKind string

const (
	KindTask         ItemKind = "task"
	KindWorkflowStep ItemKind = "workflow_step"
	KindAsyncWait    ItemKind = "async_wait"
	KindMeeting      ItemKind = "meeting"
	KindBreak        ItemKind = "break"
	KindBlockedTime  ItemKind = "blocked_time"
)

// BlockKind is the closed set of WorkBlock type-configuration shapes.
type BlockKind string

const (
	BlockSystem BlockKind = "system"
	BlockSingle BlockKind = "single"
	BlockCombo  BlockKind = "combo"
)

// OptimizationMode selects which allocation strategy Schedule uses.
type OptimizationMode string

const (
	// ModeRealistic is the default capacity-aware greedy allocator.
	ModeRealistic OptimizationMode = "realistic"
	// ModeConservative is capacity-aware with a haircut on every block,
	// leaving slack for overruns.
	ModeConservative OptimizationMode = "conservative"
	// ModeOptimal ignores capacity; a test/analysis helper, never the
	// default production path.
	ModeOptimal OptimizationMode = "optimal"
)

// CapacityLevel is the cognitive-capacity rating of a productivity window.
type CapacityLevel string

const (
	CapacityPeak     CapacityLevel = "peak"
	CapacityHigh     CapacityLevel = "high"
	CapacityModerate CapacityLevel = "moderate"
	CapacityLow      CapacityLevel = "low"
)

// CapacityLevelRank maps a CapacityLevel to the cognitive-complexity band it
// is an exact match for, per the cognitive-match scoring rules.
var CapacityLevelRank = map[CapacityLevel]int{
	CapacityPeak:     4,
	CapacityHigh:     3,
	CapacityModerate: 2,
	CapacityLow:      1,
}

// ConflictType is the closed set of fatal scheduling-run conflicts.
type ConflictType string

const (
	ConflictDependencyCycle    ConflictType = "DEPENDENCY_CYCLE"
	ConflictMissingDependency  ConflictType = "MISSING_DEPENDENCY"
	ConflictCapacityExceeded   ConflictType = "CAPACITY_EXCEEDED"
	ConflictDeadlineImpossible ConflictType = "DEADLINE_IMPOSSIBLE"
	ConflictResourceConflict   ConflictType = "RESOURCE_CONFLICT"
)

// WarningType is the closed set of non-fatal scheduling warnings.
type WarningType string

const (
	WarningSoftDeadlineRisk  WarningType = "SOFT_DEADLINE_RISK"
	WarningCapacity          WarningType = "CAPACITY_WARNING"
	WarningCognitiveMismatch WarningType = "COGNITIVE_MISMATCH"
	WarningContextSwitch     WarningType = "CONTEXT_SWITCH"
)

// UnscheduledReason is the closed set of reasons an item was left unplaced.
type UnscheduledReason string

const (
	ReasonBlockedByDependencies UnscheduledReason = "BLOCKED_BY_DEPENDENCIES"
	ReasonOverMaxBlockSize      UnscheduledReason = "OVER_MAXIMUM_BLOCK_SIZE"
	ReasonMeetingNoTime         UnscheduledReason = "MEETING_WITH_NO_TIME"
	ReasonNoSlot                UnscheduledReason = "NO_SLOT"
)
