package event

import "testing"

func TestBufferAppendAndSlice(t *testing.T) {
	b := NewBuffer(4)
	r1 := b.Append(SampledEvent{SourceClipName: "walk", Weight: 1})
	r2 := b.Append(SampledEvent{SourceClipName: "run", Weight: 1})
	if r1.Len() != 1 || r2.Len() != 1 {
 t.Fatalf("expected single-event ranges, got %v %v", r1, r2)
	}
	merged := Merge(r1, r2)
	if merged.Len() != 2 {
 t.Fatalf("merged range len = %d, want 2", merged.Len())
	}
	events := b.Slice(merged)
	if len(events) != 2 || events[0].SourceClipName != "walk" || events[1].SourceClipName != "run" {
 t.Fatalf("unexpected slice contents: %+v", events)
	}
}

func TestResetInvalidatesRanges(t *testing.T) {
	b := NewBuffer(2)
	b.Append(SampledEvent{SourceClipName: "walk"})
	b.Reset()
	if len(b.All()) != 0 {
 t.Fatalf("expected empty buffer after Reset, got %d events", len(b.All()))
	}
}

func TestAttenuateRangeScalesWeight(t *testing.T) {
	b := NewBuffer(1)
	r := b.Append(SampledEvent{Weight: 1.0})
	b.AttenuateRange(r, 0.5)
	if got := b.Slice(r)[0].Weight; got != 0.5 {
 t.Fatalf("Weight = %v, want 0.5", got)
	}
}

func TestMarkInactiveRangeSetsFlag(t *testing.T) {
	b := NewBuffer(1)
	r := b.Append(SampledEvent{})
	b.MarkInactiveRange(r)
	if !b.Slice(r)[0].FromInactiveBranch {
 t.Fatalf("expected FromInactiveBranch to be set")
	}
}
