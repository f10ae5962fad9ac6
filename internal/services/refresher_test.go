package services

import (
	"testing"
	"time"
)

func TestRefresherStartStopLifecycle(t *testing.T) {
	r := NewLeaderboardRefresher(newTestLogger(t), &fakeLeaderboard{}, time.Hour)
	defer r.Stop()

	if r.Running() {
		t.Fatalf("refresher must not run before Start")
	}
	if !r.Start() {
		t.Fatalf("first Start must report a state change")
	}
	if r.Start() {
		t.Fatalf("second Start must be a no-op")
	}
	if !r.Running() {
		t.Fatalf("refresher must report running after Start")
	}
	if !r.Stop() {
		t.Fatalf("Stop on a running refresher must report a state change")
	}
	if r.Running() {
		t.Fatalf("refresher must not report running after Stop")
	}
	if r.Stop() {
		t.Fatalf("second Stop must be a no-op")
	}
}

func TestRefresherIntervalDefault(t *testing.T) {
	r := NewLeaderboardRefresher(newTestLogger(t), &fakeLeaderboard{}, 0)
	if r.Interval() != 5*time.Minute {
		t.Fatalf("interval = %s, want the 5m default", r.Interval())
	}
	custom := NewLeaderboardRefresher(newTestLogger(t), &fakeLeaderboard{}, 90*time.Second)
	if custom.Interval() != 90*time.Second {
		t.Fatalf("interval = %s, want 90s", custom.Interval())
	}
}
