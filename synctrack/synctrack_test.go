package synctrack

import (
	"errors"
	"math"
	"testing"
)

func fourEventTrack(t *testing.T) Track {
	t.Helper()
	names := []string{"a", "b", "c", "d"}
	starts := []float32{0, 0.25, 0.5, 0.75}
	durs := []float32{0.25, 0.25, 0.25, 0.25}
	tr, err := New(names, starts, durs)
	if err != nil {
 t.Fatalf("New: %v", err)
	}
	return tr
}

func TestGetTimeRoundTripsThroughGetPercentageThrough(t *testing.T) {
	tr := fourEventTrack(t)
	for _, p := range []float32{0, 0.1, 0.25, 0.4, 0.5, 0.75, 0.9, 0.999} {
 st, loops := tr.GetTime(p)
 if loops != 0 {
 t.Fatalf("GetTime(%v) loops = %d, want 0", p, loops)
 }
 got := tr.GetPercentageThrough(st)
 if math.Abs(float64(got-p)) > 1e-5 {
 t.Fatalf("round trip failed for p=%v: got %v", p, got)
 }
	}
}

func TestGetTimeLoopsCount(t *testing.T) {
	tr := Default
	st, loops := tr.GetTime(2.3)
	if loops != 2 {
 t.Fatalf("loops = %d, want 2", loops)
	}
	if math.Abs(float64(st.Percent-0.3)) > 1e-5 {
 t.Fatalf("percent = %v, want ~0.3", st.Percent)
	}
}

func TestBlendLerpsDurationsAndPicksNameByWeight(t *testing.T) {
	a := Default
	b := Default
	blended, err := Blend(a, b, 0.3)
	if err != nil {
 t.Fatalf("Blend: %v", err)
	}
	if blended.EventCount() != 1 {
 t.Fatalf("EventCount = %d, want 1", blended.EventCount())
	}

	src, err := New([]string{"a0", "a1"}, []float32{0, 0.5}, []float32{0.5, 0.5})
	if err != nil {
 t.Fatalf("New: %v", err)
	}
	dst, err := New([]string{"b0", "b1"}, []float32{0, 0.25}, []float32{0.25, 0.75})
	if err != nil {
 t.Fatalf("New: %v", err)
	}
	low, err := Blend(src, dst, 0.3)
	if err != nil {
 t.Fatalf("Blend: %v", err)
	}
	for i, want := range []float32{0.425, 0.575} {
 if got := low.events[i].durationPercent; math.Abs(float64(got-want)) > 1e-5 {
 t.Fatalf("event %d duration = %v, want %v", i, got, want)
 }
	}
	if low.EventName(0) != "a0" || low.EventName(1) != "a1" {
 t.Fatalf("names at w=0.3 = %q, %q, want a0, a1", low.EventName(0), low.EventName(1))
	}
	high, err := Blend(src, dst, 0.7)
	if err != nil {
 t.Fatalf("Blend: %v", err)
	}
	if high.EventName(0) != "b0" || high.EventName(1) != "b1" {
 t.Fatalf("names at w=0.7 = %q, %q, want b0, b1", high.EventName(0), high.EventName(1))
	}
}

func TestBlendRejectsUnequalEventCounts(t *testing.T) {
	a := fourEventTrack(t)
	b := Default
	_, err := Blend(a, b, 0.5)
	if !errors.Is(err, ErrUnequalEventCounts) {
 t.Fatalf("Blend err = %v, want ErrUnequalEventCounts", err)
	}
}

func TestCalculateSynchronizedTrackDurationMatchesScenario3(t *testing.T) {
	syncA := fourEventTrack(t)
	syncB := fourEventTrack(t)
	syncBlended, err := Blend(syncA, syncB, 0.5)
	if err != nil {
 t.Fatalf("Blend: %v", err)
	}
	got := CalculateSynchronizedTrackDuration(2.0, 1.0, syncA, syncB, syncBlended, 0.5)
	want := float32(1.5)
	if math.Abs(float64(got-want)) > 1e-5 {
 t.Fatalf("CalculateSynchronizedTrackDuration = %v, want %v", got, want)
	}
}
