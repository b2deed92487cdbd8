package cli

import (
	"testing"
	"time"
)

func TestOptionalDuration(t *testing.T) {
	var d OptionalDuration
	if _, set := d.Value(); set {
		t.Fatalf("expected unset before Set")
	}
	if d.String() != "" {
		t.Fatalf("unset flag must render empty, got %q", d.String())
	}

	if err := d.Set("45s"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, set := d.Value()
	if !set || v != 45*time.Second {
		t.Fatalf("expected 45s set, got %s/%v", v, set)
	}

	if err := d.Set("not-a-duration"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOptionalInt(t *testing.T) {
	var n OptionalInt
	if err := n.Set("12"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, set := n.Value()
	if !set || v != 12 {
		t.Fatalf("expected 12 set, got %d/%v", v, set)
	}
	if err := n.Set("twelve"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOptionalString(t *testing.T) {
	var s OptionalString
	if err := s.Set(""); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, set := s.Value()
	if !set || v != "" {
		t.Fatalf("empty string is still an explicit value, got %q/%v", v, set)
	}
}

func TestOptionalBool(t *testing.T) {
	var b OptionalBool
	if !b.IsBoolFlag() {
		t.Fatalf("expected bool flag semantics")
	}
	if err := b.Set("true"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, set := b.Value()
	if !set || !v {
		t.Fatalf("expected true set, got %v/%v", v, set)
	}
	if b.String() != "true" {
		t.Fatalf("expected 'true', got %q", b.String())
	}
	if err := b.Set("maybe"); err == nil {
		t.Fatalf("expected parse error")
	}
}
