package engine

import (
	"testing"
	"time"
)

func TestRoundCoarseMillis(t *testing.T) {
	tests := []struct {
		name       string
		msec       int
		intervalMs int
		want       int
	}{
		{"exact second boundary low", 5, 1000, 0},
		{"exact second boundary high", 997, 1000, 1000},
		{"snaps to 500 boundary", 480, 1000, 500},
		{"snaps to 250 boundary", 248, 250, 250},
		{"snaps to 200 boundary", 195, 200, 200},
		{"multiple of 500 and >=5000 rounds within window", 300, 5000, 50},
		{"sub-50ms bit-shift rounding", 13, 30, 12},
		{"50-99ms bit-shift rounding", 74, 70, 76},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundCoarseMillis(tt.msec, tt.intervalMs)
			if got != tt.want {
				t.Errorf("roundCoarseMillis(%d, %d) = %d, want %d", tt.msec, tt.intervalMs, got, tt.want)
			}
		})
	}
}

func TestResolveClassByInterval(t *testing.T) {
	tests := []struct {
		interval time.Duration
		want     Class
	}{
		{5 * time.Millisecond, ClassPrecise},
		{20 * time.Millisecond, ClassPrecise},
		{500 * time.Millisecond, ClassCoarse},
		{20 * time.Second, ClassVeryCoarse},
		{time.Minute, ClassVeryCoarse},
	}

	for _, tt := range tests {
		got := resolve(ClassCoarse, tt.interval)
		if got != tt.want {
			t.Errorf("resolve(ClassCoarse, %v) = %v, want %v", tt.interval, got, tt.want)
		}
	}
}

func TestNextPreciseAdvancesByInterval(t *testing.T) {
	now := time.Now()
	prev := now.Add(-5 * time.Millisecond)
	got := nextPrecise(prev, now, 10*time.Millisecond)
	want := prev.Add(10 * time.Millisecond)
	if !got.Equal(want) {
		t.Errorf("nextPrecise = %v, want %v", got, want)
	}
}

func TestNextPreciseCatchesUpWhenBehind(t *testing.T) {
	now := time.Now()
	prev := now.Add(-time.Hour)
	got := nextPrecise(prev, now, 10*time.Millisecond)
	if got.Before(now) {
		t.Errorf("nextPrecise returned a deadline in the past: %v (now=%v)", got, now)
	}
}

func TestTimerHeapOrdersByDeadline(t *testing.T) {
	h := timerHeap{
		&Timer{when: time.Unix(0, 3)},
		&Timer{when: time.Unix(0, 1)},
		&Timer{when: time.Unix(0, 2)},
	}
	if !h.Less(1, 0) {
		t.Fatal("expected index 1 (t=1) to sort before index 0 (t=3)")
	}
}
