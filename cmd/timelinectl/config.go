package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"surge-timeline/internal/timeline"
	"surge-timeline/internal/trace"
)

// fileDefaults is the shape of a timelinectl.toml config file: every field
// is optional and only overrides a flag the user left at its zero value.
type fileDefaults struct {
	CompleteTimeline bool   `toml:"complete_timeline"`
	StartupTimeline  bool   `toml:"startup_timeline"`
	SystraceTimeline bool   `toml:"systrace_timeline"`
	TimelineDir      string `toml:"timeline_dir"`
	TimelineStreams  string `toml:"timeline_streams"`
	TimelineRecorder string `toml:"timeline_recorder"`
	BlockSize        int    `toml:"timeline_block_size"`
	RingCapacity     int    `toml:"timeline_ring_capacity"`
	StartupCapacity  int    `toml:"timeline_startup_capacity"`
}

func loadFileDefaults(path string) (fileDefaults, error) {
	var d fileDefaults
	if path == "" {
		return d, nil
	}
	if _, err := os.Stat(path); err != nil {
		return d, fmt.Errorf("config: %w", err)
	}
	if _, err := toml.DecodeFile(path, &d); err != nil {
		return d, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return d, nil
}

// buildTimelineConfig reads the persistent recorder flags, overlays any
// timelinectl.toml defaults the flags didn't already set, and returns the
// timeline.Config ready for Init.
func buildTimelineConfig(cmd *cobra.Command) (timeline.Config, error) {
	flags := cmd.Root().PersistentFlags()

	path, err := flags.GetString("config")
	if err != nil {
		return timeline.Config{}, err
	}
	defaults, err := loadFileDefaults(path)
	if err != nil {
		return timeline.Config{}, err
	}

	cfg := timeline.Config{Warn: cliWarn}

	if cfg.CompleteTimeline, err = flags.GetBool("complete_timeline"); err != nil {
		return cfg, err
	}
	if cfg.StartupTimeline, err = flags.GetBool("startup_timeline"); err != nil {
		return cfg, err
	}
	if cfg.SystraceTimeline, err = flags.GetBool("systrace_timeline"); err != nil {
		return cfg, err
	}
	if cfg.TimelineDir, err = flags.GetString("timeline_dir"); err != nil {
		return cfg, err
	}
	if cfg.TimelineStreams, err = flags.GetString("timeline_streams"); err != nil {
		return cfg, err
	}
	if cfg.TimelineRecorder, err = flags.GetString("timeline_recorder"); err != nil {
		return cfg, err
	}
	if cfg.BlockSize, err = flags.GetInt("timeline_block_size"); err != nil {
		return cfg, err
	}
	if cfg.RingCapacity, err = flags.GetInt("timeline_ring_capacity"); err != nil {
		return cfg, err
	}
	if cfg.StartupCapacity, err = flags.GetInt("timeline_startup_capacity"); err != nil {
		return cfg, err
	}

	cfg.CompleteTimeline = cfg.CompleteTimeline || defaults.CompleteTimeline
	cfg.StartupTimeline = cfg.StartupTimeline || defaults.StartupTimeline
	cfg.SystraceTimeline = cfg.SystraceTimeline || defaults.SystraceTimeline
	if cfg.TimelineDir == "" {
		cfg.TimelineDir = defaults.TimelineDir
	}
	if cfg.TimelineStreams == "" {
		cfg.TimelineStreams = defaults.TimelineStreams
	}
	if cfg.TimelineRecorder == "" || cfg.TimelineRecorder == "ring" {
		if defaults.TimelineRecorder != "" {
			cfg.TimelineRecorder = defaults.TimelineRecorder
		}
	}
	if cfg.BlockSize == 0 {
		cfg.BlockSize = defaults.BlockSize
	}
	if cfg.RingCapacity == 0 {
		cfg.RingCapacity = defaults.RingCapacity
	}
	if cfg.StartupCapacity == 0 {
		cfg.StartupCapacity = defaults.StartupCapacity
	}

	level, err := traceLevelFromFlags(flags)
	if err != nil {
		return cfg, err
	}
	cfg.TraceTimeline = level != trace.LevelOff

	return cfg, nil
}
