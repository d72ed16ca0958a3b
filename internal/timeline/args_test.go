package timeline

import "testing"

func TestArgumentsSetLenGrowAndShrink(t *testing.T) {
	var a Arguments
	a.SetLen(3)
	if a.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", a.Len())
	}
	a.Set(0, "k0", "v0")
	a.Set(1, "k1", "v1")
	a.SetLen(1)
	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after shrink", a.Len())
	}
	name, value := a.At(0)
	if name != "k0" || value != "v0" {
		t.Fatalf("shrinking must preserve leading entries, got %q=%q", name, value)
	}
}

func TestArgumentsSteal(t *testing.T) {
	var src, dst Arguments
	src.SetLen(1)
	src.Set(0, "k", "v")
	src.Steal(&dst)
	if src.Len() != 0 {
		t.Fatal("Steal must empty the source")
	}
	if dst.Len() != 1 {
		t.Fatal("Steal must transfer the buffer to dst")
	}
	_, value := dst.At(0)
	if value != "v" {
		t.Fatalf("dst value = %q, want v", value)
	}
}

func TestArgumentsFormatf(t *testing.T) {
	var a Arguments
	a.SetLen(1)
	a.Formatf(0, "k", "n=%d", 42)
	_, value := a.At(0)
	if value != "n=42" {
		t.Fatalf("Formatf value = %q, want n=42", value)
	}
}
