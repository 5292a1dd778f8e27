package graph

import (
	"fmt"

	"github.com/oxygraph/animgraph/synctrack"
)

// stateMachineEdge pairs one outgoing transition's settings with its
// resolved condition node and its own dedicated transitionNode runtime —
// this: "each state carries a list of outgoing transitions, each
// transition pointing to a target state index and a transition runtime
// node."
type stateMachineEdge struct {
	settings TransitionSettings
	condition BoolValueNode
	node *transitionNode
}

// stateMachineNode drives an ordered list of states and their outgoing
// transitions, arbitrating which one is active each update
// §4.3/§4.6.
type stateMachineNode struct {
	index NodeIndex

	states []*stateNode
	stateIndexOf map[NodeIndex]int // original settings NodeIndex -> states slice index
	outgoing [][]*stateMachineEdge // parallel to states; outgoing[i] is states[i]'s edges
	initialState int

	activeStateIdx int
	activeTransition *transitionNode
}

func newStateMachineNode(idx NodeIndex, states []*stateNode, stateIndexOf map[NodeIndex]int, outgoing [][]*stateMachineEdge, initialState int) *stateMachineNode {
	return &stateMachineNode{
 index: idx,
 states: states,
 stateIndexOf: stateIndexOf,
 outgoing: outgoing,
 initialState: initialState,
	}
}

func (n *stateMachineNode) Index() NodeIndex { return n.index }

func (n *stateMachineNode) Initialize(ctx *Context, initialTime synctrack.Time) error {
	for _, edges := range n.outgoing {
 for _, e := range edges {
 if err := e.condition.Initialize(ctx); err != nil {
 return err
 }
 }
	}
	n.activeStateIdx = n.initialState
	n.activeTransition = nil
	active := n.states[n.activeStateIdx]
	if err := active.Initialize(ctx, initialTime); err != nil {
 return err
	}
	active.Enter(ctx)
	return nil
}

func (n *stateMachineNode) Shutdown(ctx *Context) {
	if n.activeTransition != nil {
 n.activeTransition.Shutdown(ctx)
 return
	}
	n.states[n.activeStateIdx].Shutdown(ctx)
}

// phaseSyncTime captures node's current playback position as a sync
// time on its own sync track, for handing to a new transition's target
// so it starts in phase rather than popping to time zero.
func phaseSyncTime(node PoseNode) synctrack.Time {
	if node.Duration() <= 0 {
 return synctrack.Time{}
	}
	time, _ := node.SyncTrack().GetTime(node.CurrentTime())
	return time
}

func (n *stateMachineNode) finalizeCompletedTransition(ctx *Context) {
	if n.activeTransition == nil || !n.activeTransition.TransitionComplete() {
 return
	}
	finished := n.activeTransition
	targetIdx, ok := n.stateIndexOf[finished.Target().Index()]
	if ok {
 n.activeStateIdx = targetIdx
	}
	if finished.source != nil && finished.source != PoseNode(finished.Target()) {
 finished.source.Shutdown(ctx)
	}
	n.activeTransition = nil
}

// checkTransitions evaluates current's owning state's outgoing edges
// (where current is either the active state, or — mid-transition — the
// in-progress transition's target) and starts the first one whose
// condition fires,
func (n *stateMachineNode) checkTransitions(ctx *Context, current PoseNode, ownerStateIdx int) error {
	for _, edge := range n.outgoing[ownerStateIdx] {
 if !edge.settings.ForceTransition && !edge.condition.GetBool(ctx) {
 continue
 }
 sourceSyncTime := phaseSyncTime(current)
 interrupting := n.activeTransition
 if err := edge.node.Start(ctx, current, sourceSyncTime); err != nil {
 return err
 }
 if interrupting != nil {
 interrupting.DeactivateBranch(ctx)
 } else if sourceState, ok := current.(*stateNode); ok {
 // current was a plain state (no transition in flight), so this
 // is the last frame it is solely active: sample its exit event.
 sourceState.Exit(ctx)
 }
 n.activeTransition = edge.node
 return nil
	}
	return nil
}

// Update arbitrates transitions before advancing whichever element ends
// up active, so a transition that fires this frame is updated this same
// frame rather than starting cold and not producing its blend until the
// next one.
func (n *stateMachineNode) Update(ctx *Context) (PoseNodeResult, error) {
	n.finalizeCompletedTransition(ctx)

	var current PoseNode
	var ownerIdx int
	if n.activeTransition != nil {
 targetIdx, ok := n.stateIndexOf[n.activeTransition.Target().Index()]
 if !ok {
 return PoseNodeResult{}, fmt.Errorf("node %d: transition target not a known state", n.index)
 }
 current = n.activeTransition.Target()
 ownerIdx = targetIdx
	} else {
 current = n.states[n.activeStateIdx]
 ownerIdx = n.activeStateIdx
	}

	if err := n.checkTransitions(ctx, current, ownerIdx); err != nil {
 return PoseNodeResult{}, err
	}

	var result PoseNodeResult
	var err error
	if n.activeTransition != nil {
 result, err = n.activeTransition.Update(ctx)
	} else {
 result, err = n.states[n.activeStateIdx].Update(ctx)
	}
	if err != nil {
 return PoseNodeResult{}, err
	}
	ctx.TrackActiveNode(n.index)

	// A transition that reached completion on this very update (the
	// duration divided evenly into whole frames) adopts its target state
	// immediately rather than waiting for the next Update call, so
	// ActiveStateIndex/ActiveTransitionProgress are already settled by
	// the time this call returns.
	n.finalizeCompletedTransition(ctx)

	return result, nil
}

// UpdateSynced drives the state machine the same way Update does — the
// state-machine/transition family arbitrates its own timing internally
// (describe no external-range contract for it the way
// Blend's does), so an externally dictated range has no additional effect
// here beyond the dt already on ctx.
func (n *stateMachineNode) UpdateSynced(ctx *Context, tr synctrack.TimeRange) (PoseNodeResult, error) {
	return n.Update(ctx)
}

func (n *stateMachineNode) DeactivateBranch(ctx *Context) {
	if n.activeTransition != nil {
 n.activeTransition.DeactivateBranch(ctx)
 return
	}
	n.states[n.activeStateIdx].DeactivateBranch(ctx)
}

func (n *stateMachineNode) active() PoseNode {
	if n.activeTransition != nil {
 return n.activeTransition
	}
	return n.states[n.activeStateIdx]
}

func (n *stateMachineNode) Duration() float32 { return n.active().Duration() }
func (n *stateMachineNode) CurrentTime() float32 { return n.active().CurrentTime() }
func (n *stateMachineNode) PreviousTime() float32 { return n.active().PreviousTime() }
func (n *stateMachineNode) LoopCount() uint32 { return n.active().LoopCount() }
func (n *stateMachineNode) SyncTrack() synctrack.Track { return n.active().SyncTrack() }

// ActiveStateIndex returns the settings NodeIndex of the currently active
// state — exposed for debug introspection and tests.
func (n *stateMachineNode) ActiveStateIndex() NodeIndex { return n.states[n.activeStateIdx].Index() }

// ActiveTransitionProgress returns the in-progress transition's progress,
// or -1 if no transition is active.
func (n *stateMachineNode) ActiveTransitionProgress() float32 {
	if n.activeTransition == nil {
 return -1
	}
	return n.activeTransition.Progress()
}
