package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"surge-timeline/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "timelinectl",
	Short: "Drive and inspect an in-process Chrome Trace Event recorder",
	Long:  `timelinectl runs synthetic workloads against the timeline package's recorder strategies and renders what they captured.`,
}

// main registers subcommands and persistent flags, then executes the root
// command. If command execution returns an error, the process exits with
// status code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(flagsCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("config", "", "path to a timelinectl.toml config file")

	rootCmd.PersistentFlags().Bool("complete_timeline", false, "force the endless recorder and enable every stream")
	rootCmd.PersistentFlags().Bool("startup_timeline", false, "force the startup recorder and enable every stream")
	rootCmd.PersistentFlags().Bool("systrace_timeline", false, "route events to the platform tracing sink instead of retaining them")
	rootCmd.PersistentFlags().String("timeline_dir", "", "flush a bare-array JSON file here on cleanup")
	rootCmd.PersistentFlags().String("timeline_streams", "", `comma-separated substrings of stream names to enable, or "all"`)
	rootCmd.PersistentFlags().String("timeline_recorder", "ring", "recorder strategy: ring|endless|startup|systrace|file[:path]")
	rootCmd.PersistentFlags().Int("timeline_block_size", 0, "events per block (0 = package default)")
	rootCmd.PersistentFlags().Int("timeline_ring_capacity", 0, "blocks retained by the ring recorder (0 = package default)")
	rootCmd.PersistentFlags().Int("timeline_startup_capacity", 0, "blocks retained by the startup recorder (0 = package default)")

	rootCmd.PersistentFlags().String("trace", "", "self-diagnostic trace output path (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "self-diagnostic trace level: off|error|phase|detail|debug")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "self-diagnostic trace storage mode: stream|ring|both")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "self-diagnostic ring tracer capacity")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "self-diagnostic heartbeat interval (0 = disabled)")

	rootCmd.PersistentFlags().String("cpu-profile", "", "write a pprof CPU profile here")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a pprof heap profile here")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime/trace execution trace here")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
