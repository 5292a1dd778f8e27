package graph

import (
	"fmt"

	"github.com/oxygraph/animgraph/common"
	"github.com/oxygraph/animgraph/event"
	"github.com/oxygraph/animgraph/graph/task"
	"github.com/oxygraph/animgraph/synctrack"
)

// transitionNode blends a dynamically assigned source pose node into a
// target state over settings.Duration seconds, Unlike
// every other pose node, its source is not resolved at instantiation —
// the owning stateMachineNode assigns it via Start when the transition's
// condition fires, to the state that was active a moment ago (mid-transition,
// the target state of the transition being interrupted).
type transitionNode struct {
	index NodeIndex
	settings TransitionSettings
	target *stateNode
	source PoseNode

	progress float32
	previousProgress float32
	duration float32
	blendedSync synctrack.Track
	loopCount uint32
	lastRootMotion common.Transform
}

func newTransitionNode(idx NodeIndex, settings TransitionSettings, target *stateNode) *transitionNode {
	return &transitionNode{index: idx, settings: settings, target: target, duration: settings.Duration}
}

func (n *transitionNode) Index() NodeIndex { return n.index }

// Start begins the transition: source is the state the owning state
// machine was playing a moment ago (mid-transition, the interrupted
// transition's target state), and sourceSyncTime is that state's current
// sync time, which the target is initialized at to preserve phase. The
// target is initialized first and then entered, so it is active from the
// frame the transition starts.
func (n *transitionNode) Start(ctx *Context, source PoseNode, sourceSyncTime synctrack.Time) error {
	n.source = source
	n.progress = 0
	n.previousProgress = 0
	n.duration = n.settings.Duration
	n.blendedSync = synctrack.Default
	if err := n.target.Initialize(ctx, sourceSyncTime); err != nil {
 return err
	}
	n.target.Enter(ctx)
	return nil
}

// Initialize resets progress, duration and loop count only. It touches
// neither the source nor the target: Start assigns the source and
// initializes the target once the owning state machine knows what it's
// transitioning from.
func (n *transitionNode) Initialize(ctx *Context, initialTime synctrack.Time) error {
	n.progress = 0
	n.previousProgress = 0
	n.duration = n.settings.Duration
	n.loopCount = 0
	return nil
}

func (n *transitionNode) Shutdown(ctx *Context) {
	if n.source != nil {
 n.source.Shutdown(ctx)
	}
	n.target.Shutdown(ctx)
}

// TransitionComplete reports whether progress has reached 1.0.
func (n *transitionNode) TransitionComplete() bool { return n.progress >= 1 }

// Progress returns the current transition_progress in [0,1].
func (n *transitionNode) Progress() float32 { return n.progress }

// Target returns the state this transition is blending toward, so the
// owning state machine can adopt it once the transition completes.
func (n *transitionNode) Target() *stateNode { return n.target }

func (n *transitionNode) advance(ctx *Context) float32 {
	n.previousProgress = n.progress
	if n.duration <= 0 {
 n.progress = 1
	} else {
 n.progress = clampUnit(n.progress + ctx.DeltaTime/n.duration)
	}
	return n.progress
}

func (n *transitionNode) Update(ctx *Context) (PoseNodeResult, error) {
	if n.source == nil {
 return PoseNodeResult{}, fmt.Errorf("node %d: transition started with no source", n.index)
	}
	w := n.advance(ctx)

	sourceResult, err := n.source.Update(ctx)
	if err != nil {
 return PoseNodeResult{}, err
	}
	targetResult, err := n.target.Update(ctx)
	if err != nil {
 return PoseNodeResult{}, err
	}

	taskIdx := ctx.Tasks.Register(task.NewBlendTask(w, nil), sourceResult.TaskIndex, targetResult.TaskIndex)
	ctx.TrackActiveNode(n.index)

	n.lastRootMotion = common.Interpolate(sourceResult.RootMotionDelta, targetResult.RootMotionDelta, w)
	ctx.RecordRootMotion(n.lastRootMotion)

	if w < 1 {
 ctx.Events.AttenuateRange(sourceResult.Events, 1-w)
	}
	if w > 0 {
 ctx.Events.AttenuateRange(targetResult.Events, w)
	}
	events := event.Merge(sourceResult.Events, targetResult.Events)

	if n.TransitionComplete() {
 n.blendedSync = n.target.SyncTrack()
	}

	return PoseNodeResult{TaskIndex: taskIdx, RootMotionDelta: n.lastRootMotion, Events: events}, nil
}

// UpdateSynced ignores tr and advances exactly as Update does, by
// ctx.DeltaTime against this node's own Duration. A transitioning node is
// a momentary, self-timed blend rather than a phase-locked subtree; the
// range's span is not converted into a delta time or followed.
func (n *transitionNode) UpdateSynced(ctx *Context, tr synctrack.TimeRange) (PoseNodeResult, error) {
	return n.Update(ctx)
}

func (n *transitionNode) DeactivateBranch(ctx *Context) {
	if n.source != nil {
 n.source.DeactivateBranch(ctx)
	}
	n.target.DeactivateBranch(ctx)
}

func (n *transitionNode) Duration() float32 { return n.duration }

// CurrentTime and PreviousTime report transition_progress directly:
// progress is already the percentage-through contract the pose-node
// interface expects, unlike AnimationClip/Blend there is no separate
// seconds representation to divide out.
func (n *transitionNode) CurrentTime() float32 { return n.progress }
func (n *transitionNode) PreviousTime() float32 { return n.previousProgress }
func (n *transitionNode) LoopCount() uint32 { return n.loopCount }
func (n *transitionNode) SyncTrack() synctrack.Track {
	if n.TransitionComplete() {
 return n.target.SyncTrack()
	}
	return synctrack.Default
}
