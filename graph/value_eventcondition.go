package graph

import "github.com/oxygraph/animgraph/event"

// eventConditionNode scans the sampled-events buffer for a state event
// matching a settings-declared name, scenario 6. It
// caches its result for the duration of one update_id — "idempotent across
// the same update_id" — since the sampled-events buffer only grows, never
// shrinks, during a single Evaluate's walk, so re-scanning mid-frame could
// see a different (strictly larger) answer than an earlier call in the same
// frame would have; caching keeps every caller within one Evaluate seeing
// the same answer calls for.
type eventConditionNode struct {
	index NodeIndex
	settings EventConditionSettings

	cachedUpdateID uint32
	cachedValue bool
	hasCached bool
}

func newEventConditionNode(idx NodeIndex, settings EventConditionSettings) *eventConditionNode {
	return &eventConditionNode{index: idx, settings: settings}
}

func (n *eventConditionNode) Index() NodeIndex { return n.index }
func (n *eventConditionNode) Initialize(ctx *Context) error { n.hasCached = false; return nil }
func (n *eventConditionNode) Shutdown(ctx *Context) {}

func (n *eventConditionNode) GetBool(ctx *Context) bool {
	if n.hasCached && n.cachedUpdateID == ctx.UpdateID {
 return n.cachedValue
	}
	found := false
	for _, e := range ctx.Events.All() {
 if e.Event.Name != n.settings.EventName {
 continue
 }
 if n.settings.OnlyDurable && e.Event.Type != event.Durable {
 continue
 }
 if e.Weight < n.settings.MinWeight {
 continue
 }
 found = true
 break
	}
	n.cachedValue = found
	n.cachedUpdateID = ctx.UpdateID
	n.hasCached = true
	return found
}
