package main

import (
	"reflect"
	"testing"
)

func TestSplitNonEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"GC", []string{"GC"}},
		{"GC,Isolate,VM", []string{"GC", "Isolate", "VM"}},
		{"GC,,VM", []string{"GC", "VM"}},
		{",GC,", []string{"GC"}},
	}
	for _, tc := range cases {
		got := splitNonEmpty(tc.input)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("splitNonEmpty(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}
