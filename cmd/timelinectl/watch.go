package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"surge-timeline/internal/timeline"
	"surge-timeline/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Drive a synthetic workload while rendering a live per-stream view",
	RunE:  watchWorkload,
}

func init() {
	watchCmd.Flags().Int("goroutines", 4, "number of concurrent writer goroutines")
	watchCmd.Flags().Int("events", 2000, "events emitted per writer goroutine")
	watchCmd.Flags().String("workload-streams", "GC,Isolate,VM,API", "comma-separated streams the workload writes to")
	watchCmd.Flags().Duration("refresh", 150*time.Millisecond, "viewer poll interval")
}

// watchWorkload wires ui.NewWatchModel to a live *timeline.Timeline: a
// background goroutine drives the same synthetic workload run.go uses
// while a tea.Program polls Flags/Snapshot on a timer and renders the
// per-stream fill. It falls back to a plain textual summary when stdout
// isn't a terminal, matching the run command's own "-" output behavior
// for environments a full-screen viewer can't attach to.
func watchWorkload(cmd *cobra.Command, args []string) error {
	traceCleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer traceCleanup()

	profCleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer profCleanup()

	cfg, err := buildTimelineConfig(cmd)
	if err != nil {
		return err
	}

	goroutines, err := cmd.Flags().GetInt("goroutines")
	if err != nil {
		return err
	}
	events, err := cmd.Flags().GetInt("events")
	if err != nil {
		return err
	}
	streamNames, err := cmd.Flags().GetString("workload-streams")
	if err != nil {
		return err
	}
	refresh, err := cmd.Flags().GetDuration("refresh")
	if err != nil {
		return err
	}
	if cfg.TimelineStreams == "" {
		cfg.TimelineStreams = streamNames
	}

	tl := timeline.New()
	if err := tl.Init(cfg); err != nil {
		return fmt.Errorf("timeline init: %w", err)
	}
	defer tl.Cleanup()

	names := splitNonEmpty(streamNames)
	if len(names) == 0 {
		names = []string{"GC"}
	}

	source := func() ui.Tick {
		snap := tl.Snapshot(timeline.NewFilter())
		flags := tl.Flags()

		counts := make(map[string]int, len(names))
		for _, e := range snap.Events {
			counts[e.StreamName()]++
		}
		enabled := make(map[string]bool, len(flags.EnabledStreams))
		for _, n := range flags.EnabledStreams {
			enabled[n] = true
		}

		rows := make([]ui.StreamStat, 0, len(flags.AvailableStream))
		for _, n := range flags.AvailableStream {
			rows = append(rows, ui.StreamStat{Name: n, Enabled: enabled[n], Count: counts[n]})
		}
		return ui.Tick{RecorderName: flags.RecorderName, Streams: rows, Total: len(snap.Events)}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if !isTerminal(os.Stdout) {
		runSyntheticWorkload(ctx, tl, names, goroutines, events)
		snap := tl.Snapshot(timeline.NewFilter())
		fmt.Fprintf(cmd.OutOrStdout(), "recorder=%s events=%d\n", tl.Flags().RecorderName, len(snap.Events))
		return nil
	}

	program := tea.NewProgram(ui.NewWatchModel("timelinectl watch", source, refresh))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runSyntheticWorkload(ctx, tl, names, goroutines, events)
		program.Send(ui.DoneMsg{})
	}()

	_, runErr := program.Run()
	cancel()
	wg.Wait()
	return runErr
}
