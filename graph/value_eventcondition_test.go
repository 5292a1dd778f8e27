package graph

import (
	"testing"

	"github.com/oxygraph/animgraph/event"
)

func TestEventConditionNodeMatchesSampledEvent(t *testing.T) {
	buf := event.NewBuffer(4)
	ctx := &Context{Events: buf, UpdateID: 1}

	buf.Append(event.SampledEvent{
 Event: event.AnimationEvent{Type: event.Immediate, Name: "footstep"},
 Weight: 1,
	})

	n := newEventConditionNode(0, EventConditionSettings{EventName: "footstep", MinWeight: 0.5})
	if !n.GetBool(ctx) {
 t.Fatal("expected GetBool to find the sampled footstep event")
	}
}

func TestEventConditionNodeRejectsBelowMinWeight(t *testing.T) {
	buf := event.NewBuffer(4)
	ctx := &Context{Events: buf, UpdateID: 1}

	buf.Append(event.SampledEvent{
 Event: event.AnimationEvent{Type: event.Immediate, Name: "footstep"},
 Weight: 0.1,
	})

	n := newEventConditionNode(0, EventConditionSettings{EventName: "footstep", MinWeight: 0.5})
	if n.GetBool(ctx) {
 t.Fatal("expected GetBool to reject an event below MinWeight")
	}
}

func TestEventConditionNodeRequiresDurableWhenOnlyDurableSet(t *testing.T) {
	buf := event.NewBuffer(4)
	ctx := &Context{Events: buf, UpdateID: 1}

	buf.Append(event.SampledEvent{
 Event: event.AnimationEvent{Type: event.Immediate, Name: "attack-window"},
 Weight: 1,
	})

	n := newEventConditionNode(0, EventConditionSettings{EventName: "attack-window", OnlyDurable: true})
	if n.GetBool(ctx) {
 t.Fatal("expected GetBool to reject an Immediate event when OnlyDurable is set")
	}
}

func TestEventConditionNodeCachesPerUpdateID(t *testing.T) {
	buf := event.NewBuffer(4)
	ctx := &Context{Events: buf, UpdateID: 1}

	n := newEventConditionNode(0, EventConditionSettings{EventName: "footstep"})
	if n.GetBool(ctx) {
 t.Fatal("expected no match before the event is sampled")
	}

	// Sampled mid-frame, after this node already cached a false answer for
	// update_id 1 — the cached answer must stick until the next update_id,
	// idempotence requirement.
	buf.Append(event.SampledEvent{Event: event.AnimationEvent{Name: "footstep"}, Weight: 1})
	if n.GetBool(ctx) {
 t.Fatal("expected the cached (stale) false answer within the same update_id")
	}

	ctx.UpdateID = 2
	if !n.GetBool(ctx) {
 t.Fatal("expected a fresh scan on the next update_id to find the event")
	}
}
