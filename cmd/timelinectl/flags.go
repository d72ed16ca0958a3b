package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"surge-timeline/internal/timeline"
)

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Initialize a recorder from the current flags and print its FlagsSnapshot",
	RunE:  printFlags,
}

func init() {
	flagsCmd.Flags().String("format", "json", "output format: json|text")
}

// printFlags mirrors the original's Timeline::PrintFlagsToJSON service
// endpoint: it initializes a Timeline from the same recorder flags run
// and watch use, reads back its FlagsSnapshot, and exits without ever
// recording a workload.
func printFlags(cmd *cobra.Command, args []string) error {
	cfg, err := buildTimelineConfig(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "json" && format != "text" {
		return fmt.Errorf("unsupported --format %q (must be json or text)", format)
	}

	tl := timeline.New()
	if err := tl.Init(cfg); err != nil {
		return fmt.Errorf("timeline init: %w", err)
	}
	defer tl.Cleanup()

	snap := tl.Flags()
	if format == "text" {
		fmt.Fprintf(cmd.OutOrStdout(), "recorder: %s\n", snap.RecorderName)
		fmt.Fprintf(cmd.OutOrStdout(), "available: %v\n", snap.AvailableStream)
		fmt.Fprintf(cmd.OutOrStdout(), "enabled: %v\n", snap.EnabledStreams)
		return nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
