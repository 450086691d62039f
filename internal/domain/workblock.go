package domain

// WorkBlock is a contiguous, typed interval within a single day's pattern.
type WorkBlock struct {
	ID         string
	StartTime  LocalTime
	EndTime    LocalTime // strictly after StartTime
	TypeConfig BlockTypeConfig

	// PrecomputedCapacityMin, when non-nil, overrides the duration-derived
	// total capacity (rare; most blocks compute it from StartTime/EndTime).
	PrecomputedCapacityMin *int
}

// DurationMin returns the block's wall-clock length in minutes.
func (b WorkBlock) DurationMin() int {
	return MinutesBetween(b.StartTime, b.EndTime)
}

// TotalCapacityMin returns the block's total capacity in minutes, honoring
// an explicit precomputed override when present.
func (b WorkBlock) TotalCapacityMin() int {
	if b.PrecomputedCapacityMin != nil {
		return *b.PrecomputedCapacityMin
	}
	return b.DurationMin()
}

// WorkMeeting is a locked interval the scheduler must preserve but never
// moves or fills. If EndTime <= StartTime the meeting crosses midnight and
// its effective end lands on the following calendar day.
type WorkMeeting struct {
	ID        string
	Name      string
	StartTime LocalTime
	EndTime   LocalTime
}

// CrossesMidnight reports whether the meeting's end is on the next day.
func (m WorkMeeting) CrossesMidnight() bool {
	return CompareLocalTime(m.EndTime, m.StartTime) <= 0
}

// DailyWorkPattern describes one calendar day's blocks and meetings. Blocks
// are expected to be pairwise disjoint within the day.
type DailyWorkPattern struct {
	Date     LocalDate
	Blocks   []WorkBlock
	Meetings []WorkMeeting
}
