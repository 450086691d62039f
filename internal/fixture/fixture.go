// Package fixture loads YAML scenario files for the cmd/scheduler demo
// harness and test helpers: a human-writable description of tasks,
// workflows, a week of work patterns, and run configuration, decoded via
// gopkg.in/yaml.v3 and converted into the engine's domain types. It exists
// to exercise the engine by hand — it is not part of the engine's own
// public contract.
package fixture

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/chronia/scheduler/internal/app"
	"github.com/chronia/scheduler/internal/convert"
	"github.com/chronia/scheduler/internal/domain"
)

// Scenario is the root YAML shape.
type Scenario struct {
	CurrentTime  string           `yaml:"current_time"`
	StartDate    string           `yaml:"start_date"`
	Timezone     string           `yaml:"timezone"`
	WorkSettings workSettingsYAML `yaml:"work_settings"`
	Tasks        []taskYAML       `yaml:"tasks"`
	Workflows    []workflowYAML   `yaml:"workflows"`
	Patterns     []patternYAML    `yaml:"patterns"`
	Config       configYAML       `yaml:"config"`
}

type workSettingsYAML struct {
	DefaultStartTime string  `yaml:"default_start_time"`
	DefaultEndTime   string  `yaml:"default_end_time"`
	LunchStartTime   string  `yaml:"lunch_start_time"`
	LunchDurationMin int     `yaml:"lunch_duration_min"`
	MaxFocusHours    float64 `yaml:"max_focus_hours"`
	MaxAdminHours    float64 `yaml:"max_admin_hours"`
}

type taskYAML struct {
	ID                  string   `yaml:"id"`
	Name                string   `yaml:"name"`
	DurationMin         int      `yaml:"duration_min"`
	Importance          *int     `yaml:"importance"`
	Urgency             *int     `yaml:"urgency"`
	CognitiveComplexity *int     `yaml:"cognitive_complexity"`
	TaskType            string   `yaml:"task_type"`
	Deadline            string   `yaml:"deadline"`
	DeadlineType        string   `yaml:"deadline_type"`
	Dependencies        []string `yaml:"dependencies"`
	AsyncWaitMin        int      `yaml:"async_wait_min"`
	Completed           bool     `yaml:"completed"`
	ProjectID           string   `yaml:"project_id"`
}

type workflowYAML struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name"`
	Importance *int       `yaml:"importance"`
	Urgency    *int       `yaml:"urgency"`
	Deadline   string     `yaml:"deadline"`
	ProjectID  string     `yaml:"project_id"`
	Steps      []stepYAML `yaml:"steps"`
}

type stepYAML struct {
	ID                  string   `yaml:"id"`
	Name                string   `yaml:"name"`
	DurationMin         int      `yaml:"duration_min"`
	Importance          *int     `yaml:"importance"`
	Urgency             *int     `yaml:"urgency"`
	CognitiveComplexity *int     `yaml:"cognitive_complexity"`
	TaskType            string   `yaml:"task_type"`
	Dependencies        []string `yaml:"dependencies"`
	AsyncWaitMin        int      `yaml:"async_wait_min"`
	IsAsyncTrigger      bool     `yaml:"is_async_trigger"`
	Completed           bool     `yaml:"completed"`
	Waiting             bool     `yaml:"waiting"`
	Status              string   `yaml:"status"`
}

type patternYAML struct {
	Date     string        `yaml:"date"`
	Blocks   []blockYAML   `yaml:"blocks"`
	Meetings []meetingYAML `yaml:"meetings"`
}

type blockYAML struct {
	ID         string      `yaml:"id"`
	StartTime  string      `yaml:"start_time"`
	EndTime    string      `yaml:"end_time"`
	Kind       string      `yaml:"kind"` // system | single | combo
	SingleType string      `yaml:"single_type"`
	Combo      []allocYAML `yaml:"combo"`
}

type allocYAML struct {
	TaskType string  `yaml:"task_type"`
	Ratio    float64 `yaml:"ratio"`
}

type meetingYAML struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	StartTime string `yaml:"start_time"`
	EndTime   string `yaml:"end_time"`
}

type configYAML struct {
	IncludeWeekends    bool   `yaml:"include_weekends"`
	AllowTaskSplitting *bool  `yaml:"allow_task_splitting"`
	RespectMeetings    *bool  `yaml:"respect_meetings"`
	OptimizationMode   string `yaml:"optimization_mode"`
	DebugMode          bool   `yaml:"debug_mode"`
	MaxDays            int    `yaml:"max_days"`
}

// Load reads and decodes a scenario file from path.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("reading fixture %s: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("decoding fixture %s: %w", path, err)
	}
	return s, nil
}

// Build converts a Scenario into the engine's Input slice plus the
// ScheduleContext/ScheduleConfig Schedule needs. IDs left blank in the YAML
// are stamped with a fresh uuid so scenario authors can omit them for
// throwaway items.
func Build(s Scenario) ([]convert.Input, app.ScheduleContext, app.ScheduleConfig, error) {
	loc := time.Local
	if s.Timezone != "" {
		if l, err := time.LoadLocation(s.Timezone); err == nil {
			loc = l
		}
	}

	var inputs []convert.Input
	for _, t := range s.Tasks {
		task, err := buildTask(t, loc)
		if err != nil {
			return nil, app.ScheduleContext{}, app.ScheduleConfig{}, err
		}
		inputs = append(inputs, convert.Input{Task: &task})
	}
	for _, w := range s.Workflows {
		wf, err := buildWorkflow(w, loc)
		if err != nil {
			return nil, app.ScheduleContext{}, app.ScheduleConfig{}, err
		}
		inputs = append(inputs, convert.Input{Workflow: &wf})
	}

	patterns := make([]domain.DailyWorkPattern, 0, len(s.Patterns))
	for _, p := range s.Patterns {
		pattern, err := buildPattern(p)
		if err != nil {
			return nil, app.ScheduleContext{}, app.ScheduleConfig{}, err
		}
		patterns = append(patterns, pattern)
	}

	startTime, err := domain.ParseLocalTime(s.WorkSettings.DefaultStartTime)
	if err != nil {
		return nil, app.ScheduleContext{}, app.ScheduleConfig{}, err
	}
	endTime, err := domain.ParseLocalTime(s.WorkSettings.DefaultEndTime)
	if err != nil {
		return nil, app.ScheduleContext{}, app.ScheduleConfig{}, err
	}
	lunchTime := domain.LocalTime{}
	if s.WorkSettings.LunchStartTime != "" {
		lunchTime, err = domain.ParseLocalTime(s.WorkSettings.LunchStartTime)
		if err != nil {
			return nil, app.ScheduleContext{}, app.ScheduleConfig{}, err
		}
	}

	workSettings := domain.WorkSettings{
		DefaultStartTime: startTime,
		DefaultEndTime:   endTime,
		LunchStartTime:   lunchTime,
		LunchDurationMin: s.WorkSettings.LunchDurationMin,
		MaxFocusHours:    s.WorkSettings.MaxFocusHours,
		MaxAdminHours:    s.WorkSettings.MaxAdminHours,
		Timezone:         s.Timezone,
	}

	var currentTime time.Time
	if s.CurrentTime != "" {
		currentTime, err = time.ParseInLocation(time.RFC3339, s.CurrentTime, loc)
		if err != nil {
			return nil, app.ScheduleContext{}, app.ScheduleConfig{}, fmt.Errorf("parsing current_time: %w", err)
		}
	}

	startDate, err := domain.NewLocalDate(s.StartDate)
	if err != nil {
		return nil, app.ScheduleContext{}, app.ScheduleConfig{}, err
	}

	sctx := app.ScheduleContext{
		StartDate:             startDate,
		WorkPatterns:          patterns,
		SchedulingPreferences: domain.DefaultSchedulingPreferences(),
		WorkSettings:          workSettings,
		CurrentTime:           currentTime,
	}

	cfg := app.ScheduleConfig{
		StartDate:          startDate,
		IncludeWeekends:    s.Config.IncludeWeekends,
		AllowTaskSplitting: s.Config.AllowTaskSplitting,
		RespectMeetings:    s.Config.RespectMeetings,
		OptimizationMode:   domain.OptimizationMode(nonEmpty(s.Config.OptimizationMode, string(domain.ModeRealistic))),
		DebugMode:          s.Config.DebugMode,
		MaxDays:            s.Config.MaxDays,
	}

	return inputs, sctx, cfg, nil
}

func buildTask(t taskYAML, loc *time.Location) (domain.Task, error) {
	id := t.ID
	if id == "" {
		id = uuid.NewString()
	}
	var deadline *time.Time
	if t.Deadline != "" {
		d, err := time.ParseInLocation(time.RFC3339, t.Deadline, loc)
		if err != nil {
			return domain.Task{}, fmt.Errorf("task %s: parsing deadline: %w", id, err)
		}
		deadline = &d
	}
	return domain.Task{
		ID:                  id,
		Name:                t.Name,
		DurationMin:         t.DurationMin,
		Importance:          t.Importance,
		Urgency:             t.Urgency,
		CognitiveComplexity: t.CognitiveComplexity,
		TaskTypeID:          domain.TaskType(nonEmpty(t.TaskType, string(domain.TaskFocused))),
		Deadline:            deadline,
		DeadlineType:        domain.DeadlineType(nonEmpty(t.DeadlineType, string(domain.DeadlineSoft))),
		Dependencies:        t.Dependencies,
		AsyncWaitMin:        t.AsyncWaitMin,
		Completed:           t.Completed,
		ProjectID:           t.ProjectID,
	}, nil
}

func buildWorkflow(w workflowYAML, loc *time.Location) (domain.Workflow, error) {
	id := w.ID
	if id == "" {
		id = uuid.NewString()
	}
	var deadline *time.Time
	if w.Deadline != "" {
		d, err := time.ParseInLocation(time.RFC3339, w.Deadline, loc)
		if err != nil {
			return domain.Workflow{}, fmt.Errorf("workflow %s: parsing deadline: %w", id, err)
		}
		deadline = &d
	}

	steps := make([]domain.WorkflowStep, 0, len(w.Steps))
	for _, s := range w.Steps {
		sid := s.ID
		if sid == "" {
			sid = uuid.NewString()
		}
		steps = append(steps, domain.WorkflowStep{
			ID:                  sid,
			Name:                s.Name,
			DurationMin:         s.DurationMin,
			Importance:          s.Importance,
			Urgency:             s.Urgency,
			CognitiveComplexity: s.CognitiveComplexity,
			TaskTypeID:          domain.TaskType(nonEmpty(s.TaskType, string(domain.TaskFocused))),
			Dependencies:        s.Dependencies,
			AsyncWaitMin:        s.AsyncWaitMin,
			IsAsyncTrigger:      s.IsAsyncTrigger,
			Completed:           s.Completed,
			Waiting:             s.Waiting,
			Status:              domain.StepStatus(nonEmpty(s.Status, string(domain.StepPending))),
		})
	}

	return domain.Workflow{
		ID:         id,
		Name:       w.Name,
		Steps:      steps,
		Importance: w.Importance,
		Urgency:    w.Urgency,
		Deadline:   deadline,
		ProjectID:  w.ProjectID,
	}, nil
}

func buildPattern(p patternYAML) (domain.DailyWorkPattern, error) {
	date, err := domain.NewLocalDate(p.Date)
	if err != nil {
		return domain.DailyWorkPattern{}, err
	}

	blocks := make([]domain.WorkBlock, 0, len(p.Blocks))
	for _, b := range p.Blocks {
		start, err := domain.ParseLocalTime(b.StartTime)
		if err != nil {
			return domain.DailyWorkPattern{}, err
		}
		end, err := domain.ParseLocalTime(b.EndTime)
		if err != nil {
			return domain.DailyWorkPattern{}, err
		}

		var cfg domain.BlockTypeConfig
		switch domain.BlockKind(nonEmpty(b.Kind, string(domain.BlockSingle))) {
		case domain.BlockSystem:
			cfg = domain.NewSystemBlockType(b.SingleType)
		case domain.BlockCombo:
			allocs := make([]domain.Allocation, 0, len(b.Combo))
			for _, a := range b.Combo {
				allocs = append(allocs, domain.Allocation{TypeID: domain.TaskType(a.TaskType), Ratio: a.Ratio})
			}
			cfg = domain.NewComboBlockType(allocs...)
		default:
			cfg = domain.NewSingleBlockType(domain.TaskType(nonEmpty(b.SingleType, string(domain.TaskFocused))))
		}

		id := b.ID
		if id == "" {
			id = uuid.NewString()
		}
		blocks = append(blocks, domain.WorkBlock{ID: id, StartTime: start, EndTime: end, TypeConfig: cfg})
	}

	meetings := make([]domain.WorkMeeting, 0, len(p.Meetings))
	for _, m := range p.Meetings {
		start, err := domain.ParseLocalTime(m.StartTime)
		if err != nil {
			return domain.DailyWorkPattern{}, err
		}
		end, err := domain.ParseLocalTime(m.EndTime)
		if err != nil {
			return domain.DailyWorkPattern{}, err
		}
		id := m.ID
		if id == "" {
			id = uuid.NewString()
		}
		meetings = append(meetings, domain.WorkMeeting{ID: id, Name: m.Name, StartTime: start, EndTime: end})
	}

	return domain.DailyWorkPattern{Date: date, Blocks: blocks, Meetings: meetings}, nil
}

func nonEmpty(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
