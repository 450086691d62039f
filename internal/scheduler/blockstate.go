package scheduler

import (
	"sort"
	"time"

	"github.com/chronia/scheduler/internal/capacity"
	"github.com/chronia/scheduler/internal/domain"
)

// placement is one item actually occupying time within a blockState —
// either real work or a meeting. Wait blocks are never recorded in a
// blockState because they never consume capacity and never collide with
// placements.
type placement struct {
	itemID string
	start  time.Time
	end    time.Time
	typeID domain.TaskType
	isMeet bool
}

// blockState is the runtime capacity tracker for one WorkBlock on one day
// (domain.BlockCapacity's behavior, kept unexported since it's pure
// allocator bookkeeping).
type blockState struct {
	block         domain.WorkBlock
	date          domain.LocalDate
	startInstant  time.Time
	endInstant    time.Time
	totalMin      int
	usedMin       int
	usedByType    map[domain.TaskType]int
	placements    []placement
	haircutFactor float64 // 1.0 normally; < 1.0 under ModeConservative
}

func newBlockState(block domain.WorkBlock, date domain.LocalDate, loc *time.Location, haircut float64) *blockState {
	start := instantFor(date, block.StartTime, loc)
	end := instantFor(date, block.EndTime, loc)
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return &blockState{
		block:         block,
		date:          date,
		startInstant:  start,
		endInstant:    end,
		totalMin:      block.TotalCapacityMin(),
		usedByType:    make(map[domain.TaskType]int),
		haircutFactor: haircut,
	}
}

func instantFor(date domain.LocalDate, t domain.LocalTime, loc *time.Location) time.Time {
	d := date.ToTime(loc)
	return d.Add(time.Duration(t.ToMinutes()) * time.Minute)
}

// addMeeting occupies the block's timeline with a locked meeting interval so
// work is never placed over it. Meetings crossing midnight are handled by
// the caller supplying the already-resolved absolute instants.
func (b *blockState) addMeeting(id string, start, end time.Time) {
	b.placements = append(b.placements, placement{itemID: id, start: start, end: end, isMeet: true})
	b.sortPlacements()
	b.usedMin += int(end.Sub(start).Minutes())
}

func (b *blockState) sortPlacements() {
	sort.Slice(b.placements, func(i, j int) bool { return b.placements[i].start.Before(b.placements[j].start) })
}

// typeCapacityMin returns the effective (haircut-applied) capacity minutes
// this block offers typeID.
func (b *blockState) typeCapacityMin(typeID domain.TaskType) float64 {
	return capacity.ForTaskType(b.block, typeID) * b.haircutFactor
}

// fitResult is the outcome of a fit check against one block.
type fitResult struct {
	canFit          bool
	canPartiallyFit bool
	start           time.Time
	availableMin    int
}

const minSplitMinutes = 30
const partialFitThresholdMinutes = 30

// canFit checks whether item fits (wholly or partially) into b, starting no
// earlier than earliestStart (the caller passes currentTime on the first
// day, the day's first block start otherwise, raised to the end of any
// already-placed dependency).
func canFit(b *blockState, item domain.ScheduleItem, earliestStart time.Time) fitResult {
	if !capacity.Accepts(b.block, item.TaskTypeID) {
		return fitResult{}
	}

	start := b.startInstant
	if earliestStart.After(start) {
		start = earliestStart
	}

	// Walk placements (work items and meetings alike) in start order: push
	// start past anything overlapping it, and note the start of the first
	// placement still ahead of it — a mid-block meeting must bound the
	// window just like blockEnd does, not just the placements that happen
	// to already overlap the candidate point.
	windowEnd := b.endInstant
	for _, p := range b.placements {
		if !p.start.After(start) && p.end.After(start) {
			start = p.end
			continue
		}
		if p.start.After(start) && p.start.Before(windowEnd) {
			windowEnd = p.start
		}
	}
	if !start.Before(windowEnd) {
		return fitResult{}
	}

	remaining := int(windowEnd.Sub(start).Minutes())

	var available int
	if b.block.TypeConfig.Kind == domain.BlockCombo {
		typeCap := b.typeCapacityMin(item.TaskTypeID)
		used := b.usedByType[item.TaskTypeID]
		available = int(typeCap) - used
	} else {
		available = int(float64(b.totalMin)*b.haircutFactor) - b.usedMin
	}
	if available > remaining {
		available = remaining
	}
	if available <= 0 {
		return fitResult{}
	}

	if available >= item.Duration {
		return fitResult{canFit: true, start: start, availableMin: available}
	}
	if available >= partialFitThresholdMinutes {
		return fitResult{canPartiallyFit: true, start: start, availableMin: available}
	}
	return fitResult{}
}

// place records item occupying [start, start+duration) in b and updates
// used-minute bookkeeping.
func (b *blockState) place(itemID string, typeID domain.TaskType, start time.Time, durationMin int) (end time.Time) {
	end = start.Add(time.Duration(durationMin) * time.Minute)
	b.placements = append(b.placements, placement{itemID: itemID, start: start, end: end, typeID: typeID})
	b.sortPlacements()
	b.usedMin += durationMin
	b.usedByType[typeID] += durationMin
	return end
}

// prospectiveTypeCapacity returns the total minutes of typeID capacity a
// block would offer on a day nothing has been placed on yet — used for
// multi-day split lookahead where materializing a full blockState would be
// wasted work if the slot is never actually used.
func prospectiveTypeCapacity(block domain.WorkBlock, typeID domain.TaskType, haircut float64) int {
	return int(capacity.ForTaskType(block, typeID) * haircut)
}
