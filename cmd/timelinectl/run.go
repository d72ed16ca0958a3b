package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"surge-timeline/internal/timeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive a synthetic workload through the timeline recorder and dump what it captured",
	RunE:  runWorkload,
}

func init() {
	runCmd.Flags().Int("goroutines", 4, "number of concurrent writer goroutines")
	runCmd.Flags().Int("events", 200, "events emitted per writer goroutine")
	runCmd.Flags().String("output", "-", `where to write the result ("-" for stdout)`)
	runCmd.Flags().String("format", "service", "output shape: service|file")
	runCmd.Flags().String("workload-streams", "GC,Isolate,VM,API", "comma-separated streams the workload writes to")
}

func runWorkload(cmd *cobra.Command, args []string) error {
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
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "service" && format != "file" {
		return fmt.Errorf("unsupported --format %q (must be service or file)", format)
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

	runSyntheticWorkload(cmd.Context(), tl, names, goroutines, events)

	var out = cmd.OutOrStdout()
	var closer func() error
	if outputPath != "-" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("run: failed to open %s: %w", outputPath, err)
		}
		out = f
		closer = f.Close
	}

	snap := tl.Snapshot(timeline.NewFilter())
	var writeErr error
	switch format {
	case "service":
		writeErr = tl.WriteServiceJSON(out, timeline.NewFilter())
	case "file":
		writeErr = timeline.WriteFileJSON(out, snap, int64(os.Getpid()))
	}
	if closer != nil {
		if cerr := closer(); writeErr == nil {
			writeErr = cerr
		}
	}
	if writeErr != nil {
		return fmt.Errorf("run: failed to write output: %w", writeErr)
	}

	printer := message.NewPrinter(language.English)
	printer.Fprintf(cmd.ErrOrStderr(), "recorder=%s events=%d threads=%d\n", tl.Recorder().Name(), len(snap.Events), len(snap.ThreadNames))
	return nil
}

// runSyntheticWorkload fans writer goroutines out across the named
// streams, each emitting a mix of instant, duration, counter, and flow
// events (the Instant, Duration, Counter, FlowBegin and FlowStep
// constructors).
func runSyntheticWorkload(ctx context.Context, tl *timeline.Timeline, streamNames []string, goroutines, events int) {
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		g := g
		wg.Add(1)
		go func() {
			defer wg.Done()
			stream := tl.Stream(streamNames[g%len(streamNames)])
			if stream == nil {
				return
			}
			tl.ThreadRegistry().Current().SetName(fmt.Sprintf("writer-%d", g))
			rng := rand.New(rand.NewSource(int64(g) + 1))
			flowID := int64(g)*1000 + 1
			writeWorkloadEvents(ctx, stream, rng, events, flowID)
		}()
	}
	wg.Wait()
}

func writeWorkloadEvents(ctx context.Context, stream *timeline.Stream, rng *rand.Rand, events int, flowID int64) {
	for i := 0; i < events; i++ {
		ev := stream.StartEvent(ctx)
		if ev == nil {
			return
		}
		switch i % 4 {
		case 0:
			ev.Instant(fmt.Sprintf("tick-%d", i), 0)
		case 1:
			start := timeline.NowMicros()
			time.Sleep(time.Duration(rng.Intn(50)) * time.Microsecond)
			ev.Duration(fmt.Sprintf("work-%d", i), start, timeline.NowMicros(), timeline.NoThreadCPUTime, timeline.NoThreadCPUTime)
		case 2:
			ev.Counter(fmt.Sprintf("gauge-%d", i), 0)
			ev.Args().SetLen(1)
			ev.Args().Formatf(0, "value", "%d", rng.Intn(100))
		case 3:
			if i == 3 {
				ev.FlowBegin("pipeline", flowID, 0)
			} else {
				ev.FlowStep("pipeline", flowID, 0)
			}
		}
		ev.Complete()
	}
}

func splitNonEmpty(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if tok := s[start:i]; tok != "" {
				out = append(out, tok)
			}
			start = i + 1
		}
	}
	return out
}
