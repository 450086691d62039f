// Command scheduler is a thin demo harness for the engine: it loads a YAML
// scenario file and prints the resulting placement. It exists to exercise
// internal/engine by hand; it is not a product CLI (no persistence, no TUI,
// no IPC — those remain external collaborators per the engine's contract).
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/chronia/scheduler/internal/engine"
	"github.com/chronia/scheduler/internal/fixture"
	"github.com/chronia/scheduler/internal/scheduler"
	"github.com/chronia/scheduler/internal/timeprovider"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "scheduler <fixture.yaml>",
		Short: "Run the engine against a YAML scenario file and print the placement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], debug)
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "include per-block utilization and deadline analysis")
	return cmd
}

func run(path string, debug bool) error {
	log.Printf("loading scenario %s", path)
	scenario, err := fixture.Load(path)
	if err != nil {
		return err
	}

	inputs, sctx, cfg, err := fixture.Build(scenario)
	if err != nil {
		return err
	}
	cfg.DebugMode = debug || cfg.DebugMode

	// Scenario files may omit current_time; fall back to the wall clock.
	if sctx.CurrentTime.IsZero() {
		clock := timeprovider.New(scheduler.Location(sctx.WorkSettings.Timezone))
		sctx.CurrentTime = clock.Now()
		log.Printf("no current_time in scenario, using %s (%s)",
			sctx.CurrentTime.Format("2006-01-02 15:04"), clock.LocalDateString(sctx.CurrentTime))
	}

	result := engine.Schedule(inputs, sctx, cfg)

	if len(result.Conflicts) > 0 {
		for _, c := range result.Conflicts {
			fmt.Printf("CONFLICT [%s]: %s (%v)\n", c.Type, c.Message, c.AffectedItemIDs)
		}
		return nil
	}

	fmt.Printf("scheduled %d item(s), %d unscheduled\n", len(result.Scheduled), len(result.Unscheduled))
	for _, item := range result.Scheduled {
		start := "?"
		if item.StartTime != nil {
			start = item.StartTime.Format("2006-01-02 15:04")
		}
		fmt.Printf("  [%s] %-30s start=%s dur=%dm priority=%.1f\n", item.Kind, item.Name, start, item.Duration, item.Priority)
	}
	for _, item := range result.Unscheduled {
		fmt.Printf("  UNSCHEDULED %-30s\n", item.Name)
	}
	for _, w := range result.Warnings {
		fmt.Printf("  warning [%s] %s (%s)\n", w.Type, w.Message, w.ItemID)
	}

	if debug && result.Metrics != nil {
		m := result.Metrics
		fmt.Printf("\nmetrics: workdays=%d capacityUtil=%.2f deadlineRisk=%.2f criticalPath=%dm\n",
			m.TotalWorkDays, m.CapacityUtilization, m.DeadlineRiskScore, m.CriticalPathLength)
	}

	log.Printf("done")
	return nil
}
