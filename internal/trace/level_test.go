package trace

import "testing"

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input string
		want  Level
	}{
		{"off", LevelOff},
		{"ERROR", LevelError},
		{"phase", LevelPhase},
		{"DETAIL", LevelDetail},
		{"debug", LevelDebug},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.input)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("ParseLevel(\"verbose\") should have errored")
	}
}

func TestLevelShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeFacade, false},
		{LevelPhase, ScopeFacade, true},
		{LevelPhase, ScopeRecorder, true},
		{LevelPhase, ScopeReclaim, false},
		{LevelDetail, ScopeReclaim, true},
		{LevelDetail, ScopeBlock, false},
		{LevelDebug, ScopeBlock, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Fatalf("%v.ShouldEmit(%v) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}
