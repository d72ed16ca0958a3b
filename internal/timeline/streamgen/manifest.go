// Package streamgen ships the stream registry manifest — name,
// default-enabled, platform alias — as a binary artifact tooling can
// read without running the recorder process, per SPEC_FULL.md's domain
// stack entry for github.com/vmihailenco/msgpack/v5. It is a static
// config-shaped artifact, never used to persist Event records: that
// stays explicitly out of scope (spec.md §1 Non-goals).
package streamgen

import (
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// StreamInfo describes one statically declared stream the way
// internal/timeline.StreamNames enumerates them, plus the metadata a
// manifest consumer cares about that the live Stream type doesn't bother
// exposing (it only matters before the process starts).
type StreamInfo struct {
	Name            string `msgpack:"name"`
	DefaultEnabled  bool   `msgpack:"default_enabled"`
	PlatformAlias   string `msgpack:"platform_alias,omitempty"`
	HasStaticLabels bool   `msgpack:"has_static_labels"`
}

// Manifest is the top-level shape encoded to/from the sidecar file.
type Manifest struct {
	Streams []StreamInfo `msgpack:"streams"`
}

// DefaultManifest describes this module's built-in stream table
// (internal/timeline.StreamNames) with every stream marked
// default-disabled except "Dart". internal/timeline does not read this
// manifest: its Timeline.Init enables no stream, "Dart" included, unless
// a flag selects it.
func DefaultManifest() Manifest {
	names := []string{
		"API", "Compiler", "CompilerVerbose", "Dart", "Debugger",
		"Embedder", "GC", "Isolate", "VM",
	}
	m := Manifest{Streams: make([]StreamInfo, 0, len(names))}
	for _, n := range names {
		m.Streams = append(m.Streams, StreamInfo{
			Name:           n,
			DefaultEnabled: n == "Dart",
		})
	}
	return m
}

// Encode msgpack-encodes m.
func Encode(m Manifest) ([]byte, error) {
	return msgpack.Marshal(m)
}

// Decode parses a msgpack-encoded manifest.
func Decode(data []byte) (Manifest, error) {
	var m Manifest
	err := msgpack.Unmarshal(data, &m)
	return m, err
}

// WriteFile writes m's msgpack encoding to path.
func WriteFile(path string, m Manifest) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads and decodes a manifest previously written by WriteFile.
func ReadFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	return Decode(data)
}
