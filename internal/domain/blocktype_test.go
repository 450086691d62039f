package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatioFor_Combo(t *testing.T) {
	cfg := NewComboBlockType(
		Allocation{TypeID: TaskFocused, Ratio: 0.7},
		Allocation{TypeID: TaskAdmin, Ratio: 0.3},
	)
	assert.Equal(t, 0.7, cfg.RatioFor(TaskFocused))
	assert.Equal(t, 0.3, cfg.RatioFor(TaskAdmin))
	assert.Equal(t, 0.0, cfg.RatioFor(TaskPersonal))
}

func TestNewSingleBlockType(t *testing.T) {
	cfg := NewSingleBlockType(TaskFocused)
	assert.Equal(t, BlockSingle, cfg.Kind)
	assert.Equal(t, TaskFocused, cfg.SingleType)
}
