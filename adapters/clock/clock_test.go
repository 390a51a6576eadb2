package clock_test

import (
	"testing"
	"time"

	"github.com/artpar/judegen/adapters/clock"
)

func TestReal_Now(t *testing.T) {
	c := clock.Real{}

	before := time.Now()
	got := c.Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("Now() = %v, expected between %v and %v", got, before, after)
	}
}

func TestStepping(t *testing.T) {
	start := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	c := clock.NewStepping(start, 250*time.Millisecond)

	first := c.Now()
	second := c.Now()

	if !first.Equal(start) {
		t.Errorf("first read = %v, want %v", first, start)
	}
	if d := second.Sub(first); d != 250*time.Millisecond {
		t.Errorf("step = %v, want 250ms", d)
	}
}
