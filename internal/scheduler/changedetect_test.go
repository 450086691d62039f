package scheduler

import (
	"testing"

	"github.com/chronia/scheduler/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleTask() domain.Task {
	return domain.Task{ID: "t1", Name: "Write report", DurationMin: 60, TaskTypeID: domain.TaskFocused}
}

func TestHaveTasksChanged_IdenticalInputsFalse(t *testing.T) {
	a := []domain.Task{sampleTask()}
	b := []domain.Task{sampleTask()}
	assert.False(t, HaveTasksChanged(a, b))
}

func TestHaveTasksChanged_FieldMutationFlipsToTrue(t *testing.T) {
	a := []domain.Task{sampleTask()}
	mutated := sampleTask()
	mutated.Name = "Write report v2"
	b := []domain.Task{mutated}
	assert.True(t, HaveTasksChanged(a, b))
}

func TestHaveTasksChanged_LengthDifference(t *testing.T) {
	a := []domain.Task{sampleTask(), sampleTask()}
	b := []domain.Task{sampleTask()}
	assert.True(t, HaveTasksChanged(a, b))
}

func TestHaveWorkflowsChanged_StepMutationFlipsToTrue(t *testing.T) {
	wf := func(dur int) domain.Workflow {
		return domain.Workflow{ID: "w1", Name: "Launch", Steps: []domain.WorkflowStep{
			{ID: "s1", Name: "step", DurationMin: dur},
		}}
	}
	assert.False(t, HaveWorkflowsChanged([]domain.Workflow{wf(30)}, []domain.Workflow{wf(30)}))
	assert.True(t, HaveWorkflowsChanged([]domain.Workflow{wf(30)}, []domain.Workflow{wf(45)}))
}

func TestHaveWorkSettingsChanged_TimezoneDiffers(t *testing.T) {
	a := domain.WorkSettings{Timezone: "UTC"}
	b := domain.WorkSettings{Timezone: "America/New_York"}
	assert.True(t, HaveWorkSettingsChanged(a, b))
}

func TestHaveWorkSettingsChanged_Identical(t *testing.T) {
	s := domain.WorkSettings{
		DefaultStartTime: domain.MustLocalTime("09:00"),
		DefaultEndTime:   domain.MustLocalTime("17:00"),
		MaxFocusHours:    4,
		MaxAdminHours:    2,
		Timezone:         "UTC",
	}
	assert.False(t, HaveWorkSettingsChanged(s, s))
}

func TestHaveActiveSessionsChanged(t *testing.T) {
	a := []domain.ActiveSession{{ID: "s1"}}
	b := []domain.ActiveSession{{ID: "s2"}}
	assert.True(t, HaveActiveSessionsChanged(a, b))
	assert.False(t, HaveActiveSessionsChanged(a, a))
}

func TestFilterSchedulableTasks_DropsCompleted(t *testing.T) {
	tasks := []domain.Task{
		{ID: "t1", Completed: true},
		{ID: "t2", Completed: false},
	}
	out := FilterSchedulableTasks(tasks)
	assert.Len(t, out, 1)
	assert.Equal(t, "t2", out[0].ID)
}

func TestFilterSchedulableWorkflows_KeepsActionable(t *testing.T) {
	workflows := []domain.Workflow{
		{ID: "w1", Steps: []domain.WorkflowStep{{ID: "s1", Status: domain.StepCompleted}, {ID: "s2", Status: domain.StepSkipped}}},
		{ID: "w2", Steps: []domain.WorkflowStep{{ID: "s1", Status: domain.StepPending}}},
		{ID: "w3", Steps: []domain.WorkflowStep{{ID: "s1", Status: domain.StepWaiting}, {ID: "s2", Status: domain.StepInProgress}}},
	}
	out := FilterSchedulableWorkflows(workflows)
	ids := make([]string, 0, len(out))
	for _, w := range out {
		ids = append(ids, w.ID)
	}
	assert.ElementsMatch(t, []string{"w2", "w3"}, ids)
}
