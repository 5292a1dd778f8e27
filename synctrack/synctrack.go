// Package synctrack implements the sync-track alignment mechanism that
// makes synchronized blending between clips of different durations
// meaningful: an ordered sequence of named events, each occupying a
// percentage-of-track window, plus conversions between wall-clock
// progress and the (event index, percent-within-event) sync-time pair.
//
// Grounded on original_source/src/anim/include/anim/sync_track.hpp, which
// implements GetTime/GetPercentageThrough/Blend/
// CalculateSynchronizedTrackDuration but explicitly marks looping as a
// TODO ("Handle looping"); this package completes that
package synctrack

import (
	"fmt"
	"math"
)

// InvalidIndex marks an unresolved event index, matching the sentinel
// used throughout the rest of the module.
const InvalidIndex uint32 = 0xFFFFFFFF

// Time is a position on a sync track: an event index plus the percentage
// of the way through that event, the pair calls "sync time".
type Time struct {
	EventIndex uint32
	Percent float32
}

// ToFloat collapses the pair into a single float for ordering/comparison
// purposes: eventIndex + percent.
func (t Time) ToFloat() float64 {
	return float64(t.EventIndex) + float64(t.Percent)
}

// TimeRange is a begin/end pair of sync times, the window a synchronized
// PoseNode.Update call is asked to cover.
type TimeRange struct {
	Begin Time
	End Time
}

// event is one named window of a Track, occupying [startPercent,
// startPercent+durationPercent) of the track's overall span.
type event struct {
	name string
	startPercent float32
	durationPercent float32
}

// Track is an ordered, contiguous, non-overlapping sequence of named sync
// events whose durationPercent values sum to 1. The zero value is not
// usable; use Default or New.
type Track struct {
	events []event
}

// Default is a single-event track spanning the whole clip — the sync
// track every leaf AnimationClip node starts with absent explicit
// authored sync events, matching the original's default-constructed
// SyncTrack (one implicit event over [0,1)).
var Default = Track{events: []event{{name: "", startPercent: 0, durationPercent: 1}}}

// New builds a Track from caller-supplied events, which must already be
// contiguous, non-overlapping, and sum to 1 in duration. It is the
// caller's responsibility (typically graph definition decoding) to
// satisfy this invariant; New does not re-validate it beyond a basic
// sanity check, to keep hot-path construction (e.g. Blend) allocation-free
// of error handling.
func New(names []string, startPercents, durationPercents []float32) (Track, error) {
	if len(names) != len(startPercents) || len(names) != len(durationPercents) {
 return Track{}, fmt.Errorf("synctrack: mismatched event slice lengths (%d names, %d starts, %d durations)", len(names), len(startPercents), len(durationPercents))
	}
	if len(names) == 0 {
 return Track{}, fmt.Errorf("synctrack: a track must have at least one event")
	}
	events := make([]event, len(names))
	for i := range names {
 events[i] = event{name: names[i], startPercent: startPercents[i], durationPercent: durationPercents[i]}
	}
	return Track{events: events}, nil
}

// EventCount returns the number of events in the track.
func (t Track) EventCount() int {
	return len(t.events)
}

// EventName returns the name of the event at idx.
func (t Track) EventName(idx uint32) string {
	return t.events[idx].name
}

// Blend produces a new track by blending source and target at weight w
// (clamped to [0,1] by the caller — this matches the original's assert,
// made a checked error here instead of a crash). Per-event durations are
// Lerp'd; each event's name takes the source's or target's side based on
// w <= 0.5. Both tracks must have the same event count — the
// open question (unequal event counts) is surfaced as an error rather
// than guessed at.
func Blend(source, target Track, w float32) (Track, error) {
	if w < 0 || w > 1 {
 return Track{}, fmt.Errorf("synctrack: blend weight %v out of [0,1]", w)
	}
	if source.EventCount() != target.EventCount() {
 return Track{}, fmt.Errorf("synctrack: %w (source has %d events, target has %d)", ErrUnequalEventCounts, source.EventCount(), target.EventCount())
	}

	n := source.EventCount()
	blended := make([]event, n)
	for i := 0; i < n; i++ {
 s, tt := source.events[i], target.events[i]
 name := s.name
 if w > 0.5 {
 name = tt.name
 }
 blended[i] = event{
 name: name,
 startPercent: s.startPercent + (tt.startPercent-s.startPercent)*w,
 durationPercent: s.durationPercent + (tt.durationPercent-s.durationPercent)*w,
 }
	}
	return Track{events: blended}, nil
}

// ErrUnequalEventCounts is returned by Blend when the two source tracks
// don't share an event count. The original C++ simply asserts this can't
// happen; flags it as an open question rather than a decidable
// behavior, so this port surfaces it as an error instead of guessing a
// resampling strategy.
var ErrUnequalEventCounts = fmt.Errorf("synctrack: event counts differ")

// GetTime converts a progress fraction into a sync time, looping progress
// into [0,1) first. loopCount reports how many full loops were discarded
// — the original leaves this as a TODO ("Handle looping"); this is
// the completion of it ("p -= floor(p)", loopCount incremented
// per discarded integer part).
func (t Track) GetTime(progress float32) (time Time, loopCount uint32) {
	whole := float32(math.Floor(float64(progress)))
	p := progress - whole
	loopCount = uint32(whole)
	if p < 0 {
 // Guard against negative progress (e.g. rewinding): wrap into
 // [0,1) rather than leaving p negative, and count it as a
 // (negative) loop fold the same way floor does for math.Mod.
 p += 1
 loopCount--
	}

	for idx, e := range t.events {
 if e.startPercent+e.durationPercent > p {
 pct := (p - e.startPercent) / e.durationPercent
 return Time{EventIndex: uint32(idx), Percent: pct}, loopCount
 }
	}
	// Floating point can leave p fractionally past the last event's end;
	// clamp into the final event rather than returning InvalidIndex.
	last := len(t.events) - 1
	return Time{EventIndex: uint32(last), Percent: 1}, loopCount
}

// GetPercentageThrough is the inverse of GetTime: given a sync time,
// returns the overall progress fraction within [0,1) it corresponds to.
func (t Track) GetPercentageThrough(time Time) float32 {
	e := t.events[time.EventIndex]
	return e.startPercent + e.durationPercent*time.Percent
}

// CalculateSynchronizedTrackDuration implements the formula
// verbatim: each source's duration is scaled by the ratio of the blended
// track's event count to that source's event count, then the two scaled
// durations are Lerp'd by w.
func CalculateSynchronizedTrackDuration(durA, durB float32, syncA, syncB, syncBlended Track, w float32) float32 {
	scaledA := durA * (float32(syncBlended.EventCount()) / float32(syncA.EventCount()))
	scaledB := durB * (float32(syncBlended.EventCount()) / float32(syncB.EventCount()))
	return scaledA + (scaledB-scaledA)*w
}
