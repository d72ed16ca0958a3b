package streamgen

import (
	"path/filepath"
	"testing"
)

func TestDefaultManifestEnablesOnlyDart(t *testing.T) {
	m := DefaultManifest()
	if len(m.Streams) == 0 {
		t.Fatal("DefaultManifest() returned no streams")
	}
	for _, s := range m.Streams {
		want := s.Name == "Dart"
		if s.DefaultEnabled != want {
			t.Fatalf("stream %s: DefaultEnabled = %v, want %v", s.Name, s.DefaultEnabled, want)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := DefaultManifest()
	data, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(got.Streams) != len(m.Streams) {
		t.Fatalf("round trip len = %d, want %d", len(got.Streams), len(m.Streams))
	}
	for i, s := range m.Streams {
		if got.Streams[i] != s {
			t.Fatalf("round trip stream %d = %+v, want %+v", i, got.Streams[i], s)
		}
	}
}

func TestWriteFileReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.msgpack")

	m := DefaultManifest()
	if err := WriteFile(path, m); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if len(got.Streams) != len(m.Streams) {
		t.Fatalf("ReadFile len = %d, want %d", len(got.Streams), len(m.Streams))
	}
}
