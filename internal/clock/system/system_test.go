// Package system exercises the wall clock adapters.
package system

import (
	"testing"
	"time"
)

// TestClockNowUTC ensures the default clock returns UTC timestamps.
func TestClockNowUTC(t *testing.T) {
	t.Parallel()

	clk := New(nil)
	before := time.Now().UTC().Add(-time.Second)
	got := clk.Now()
	after := time.Now().UTC().Add(time.Second)

	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
	if got.Before(before) || got.After(after) {
		t.Fatalf("expected %v to be between %v and %v", got, before, after)
	}
}

// TestNewInZone checks zone resolution and rejection of unknown zones.
func TestNewInZone(t *testing.T) {
	t.Parallel()

	clk, err := NewInZone("")
	if err != nil {
		t.Fatalf("NewInZone(\"\") error = %v", err)
	}
	if clk.Now().Location() != time.UTC {
		t.Fatal("expected empty zone to mean UTC")
	}
	if _, err := NewInZone("Mars/Olympus_Mons"); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}

// TestFixedClock returns the frozen instant on every call.
func TestFixedClock(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)
	clk := Fixed(at)
	if !clk.Now().Equal(at) || !clk.Now().Equal(clk.Now()) {
		t.Fatalf("expected %v, got %v", at, clk.Now())
	}
}
