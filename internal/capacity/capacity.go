// Package capacity implements the block-type capacity model: how many
// minutes of a given task type a work block actually offers.
package capacity

import "github.com/chronia/scheduler/internal/domain"

// TypeRatioInBlock returns the fraction of cfg's total minutes available to
// typeID: 0 for System blocks, 1 for a matching Single block (or any Single
// block when typeID is the mixed wildcard), and the configured ratio for a
// Combo block's matching allocation (0 for mixed, which has no allocation).
func TypeRatioInBlock(typeID domain.TaskType, cfg domain.BlockTypeConfig) float64 {
	switch cfg.Kind {
	case domain.BlockSystem:
		return 0
	case domain.BlockSingle:
		if cfg.SingleType == typeID || typeID == domain.TaskMixed {
			return 1
		}
		return 0
	case domain.BlockCombo:
		if typeID == domain.TaskMixed {
			// A mixed-type task does not receive a free ride across every
			// combo allocation; it must match one explicitly like any
			// other type would. Combo blocks have no single "full" ratio.
			return 0
		}
		return cfg.RatioFor(typeID)
	default:
		return 0
	}
}

// ForTaskType returns the number of minutes of block's total capacity
// available to typeID.
func ForTaskType(block domain.WorkBlock, typeID domain.TaskType) float64 {
	ratio := TypeRatioInBlock(typeID, block.TypeConfig)
	return ratio * float64(block.TotalCapacityMin())
}

// Accepts reports whether block can ever hold any minutes of typeID (used
// as the first filter in the allocator's fit check).
func Accepts(block domain.WorkBlock, typeID domain.TaskType) bool {
	return TypeRatioInBlock(typeID, block.TypeConfig) > 0
}
