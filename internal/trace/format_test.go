package trace

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func sampleEvent() Event {
	return Event{
		Time:   time.Unix(1700000000, 0),
		Seq:    42,
		Kind:   KindSpanBegin,
		Scope:  ScopeRecorder,
		SpanID: 7,
		GID:    3,
		Name:   "ring.rotate",
		Detail: "block=12",
	}
}

func TestFormatEventText(t *testing.T) {
	data := FormatEvent(sampleEvent(), FormatText)
	s := string(data)
	if !strings.Contains(s, "ring.rotate") {
		t.Fatalf("text format missing event name: %q", s)
	}
	if !strings.Contains(s, "(block=12)") {
		t.Fatalf("text format missing detail: %q", s)
	}
}

func TestFormatEventNDJSON(t *testing.T) {
	data := FormatEvent(sampleEvent(), FormatNDJSON)
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("FormatEvent NDJSON output is not valid JSON: %v (%s)", err, data)
	}
	if decoded["name"] != "ring.rotate" {
		t.Fatalf("decoded name = %v, want ring.rotate", decoded["name"])
	}
	if decoded["scope"] != "recorder" {
		t.Fatalf("decoded scope = %v, want recorder", decoded["scope"])
	}
}

func TestFormatEventChrome(t *testing.T) {
	data := FormatEvent(sampleEvent(), FormatChrome)
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("FormatEvent Chrome output is not valid JSON: %v (%s)", err, data)
	}
	if decoded["ph"] != "B" {
		t.Fatalf("decoded ph = %v, want B", decoded["ph"])
	}
	if decoded["cat"] != "recorder" {
		t.Fatalf("decoded cat = %v, want recorder", decoded["cat"])
	}
}

func TestFormatEventAutoFallsBackToText(t *testing.T) {
	got := FormatEvent(sampleEvent(), FormatAuto)
	want := FormatEvent(sampleEvent(), FormatText)
	if string(got) != string(want) {
		t.Fatalf("FormatAuto = %q, want %q", got, want)
	}
}
