package graph

import (
	"github.com/oxygraph/animgraph/event"
	"github.com/oxygraph/animgraph/synctrack"
)

// TransitionState classifies a State node's relationship to the
// transition currently running on its owning StateMachine
// §3's "Runtime node additionally carries... internal TransitionState".
type TransitionState int

const (
	// TransitionNone means no transition into or out of this state is
	// currently running.
	TransitionNone TransitionState = iota
	// TransitionOutgoing means a transition away from this state is
	// currently running (this state is the source).
	TransitionOutgoing
	// TransitionIncoming means a transition into this state is currently
	// running (this state is the target).
	TransitionIncoming
)

// stateNode extends Passthrough with transition bookkeeping and
// entry/exit event sampling, It is never updated
// standalone — only StateMachineNode drives it, calling Enter/Exit at the
// frames it becomes/stops being the sole active element.
type stateNode struct {
	passthroughMixin
	settings StateSettings

	transitionState TransitionState
	timeInState float32
	isActive bool
}

func newStateNode(idx NodeIndex, child PoseNode, settings StateSettings) *stateNode {
	n := &stateNode{settings: settings}
	n.index = idx
	n.child = child
	return n
}

func (n *stateNode) Initialize(ctx *Context, initialTime synctrack.Time) error {
	n.transitionState = TransitionNone
	n.timeInState = 0
	n.isActive = false
	return n.initialize(ctx, initialTime)
}

func (n *stateNode) Shutdown(ctx *Context) { n.shutdown(ctx) }

// Enter marks this state newly active, sampling its entry event on the
// first frame it becomes so.
func (n *stateNode) Enter(ctx *Context) {
	if n.isActive {
 return
	}
	n.isActive = true
	n.timeInState = 0
	if n.settings.EntryEvent != "" {
 n.sampleStateEvent(ctx, n.settings.EntryEvent)
	}
}

// Exit samples this state's exit event, called by the owning state
// machine on the last frame this state is active (the frame a transition
// away from it begins) — this: "Samples... exit state events
//... the... last frame it is active."
func (n *stateNode) Exit(ctx *Context) {
	if !n.isActive {
 return
	}
	n.isActive = false
	if n.settings.ExitEvent != "" {
 n.sampleStateEvent(ctx, n.settings.ExitEvent)
	}
}

func (n *stateNode) sampleStateEvent(ctx *Context, name string) {
	sampled := event.SampledEvent{
 Event: event.AnimationEvent{Type: event.Immediate, Name: name},
 Weight: 1,
 PercentThrough: 1,
 FromInactiveBranch: ctx.Branch == Inactive,
	}
	ctx.Events.Append(sampled)
}

func (n *stateNode) Update(ctx *Context) (PoseNodeResult, error) {
	n.timeInState += ctx.DeltaTime
	return n.update(ctx)
}

func (n *stateNode) UpdateSynced(ctx *Context, tr synctrack.TimeRange) (PoseNodeResult, error) {
	n.timeInState += ctx.DeltaTime
	return n.updateSynced(ctx, tr)
}

func (n *stateNode) DeactivateBranch(ctx *Context) { n.deactivateBranch(ctx) }

// TimeInState returns how many seconds this state has been continuously
// active.
func (n *stateNode) TimeInState() float32 { return n.timeInState }
