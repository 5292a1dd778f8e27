package graph

import (
	"fmt"

	"github.com/oxygraph/animgraph/common"
	"github.com/oxygraph/animgraph/event"
	"github.com/oxygraph/animgraph/graph/task"
	"github.com/oxygraph/animgraph/pose"
	"github.com/oxygraph/animgraph/synctrack"
)

// blendNode interpolates between two source pose subgraphs
// §4.2/§4.3. Grounded on original_source's blend_node.hpp: its
// Update(context) (no explicit range) is the fully worked algorithm — it
// tracks its own blended sync track and progress, and drives both
// children through their synchronized path — while its
// Update(context, updateRange) overload (an externally dictated range) is
// `assert(false)`'d. That maps directly onto this port's PoseNode
// contract: Update is the self-driven, fully defined path; UpdateSynced,
// which an external caller would use to dictate Blend's own timing, has
// no defined meaning and returns ErrUnsynchronizedBlend,
// ("Unsynchronized update of Blend is not well-defined and raises a
// fatal error").
type blendNode struct {
	index NodeIndex
	weight FloatValueNode
	source PoseNode
	target PoseNode
	mask *pose.BoneMask
	additive bool

	blendWeight float32
	blendedSync synctrack.Track
	duration float32
	progress float32 // 0..1 position along blendedSync
	previousProgress float32
	loopCount uint32
}

func newBlendNode(idx NodeIndex, source, target PoseNode, weight FloatValueNode, mask *pose.BoneMask, additive bool) *blendNode {
	return &blendNode{index: idx, source: source, target: target, weight: weight, mask: mask, additive: additive}
}

func (n *blendNode) Index() NodeIndex { return n.index }

func clampUnit(w float32) float32 {
	if w < 0 {
 return 0
	}
	if w > 1 {
 return 1
	}
	return w
}

func (n *blendNode) Initialize(ctx *Context, initialTime synctrack.Time) error {
	if n.source == nil || n.target == nil {
 return fmt.Errorf("node %d: %w", n.index, ErrNilRequiredChild)
	}
	if err := n.weight.Initialize(ctx); err != nil {
 return err
	}
	if err := n.source.Initialize(ctx, initialTime); err != nil {
 return err
	}
	if err := n.target.Initialize(ctx, initialTime); err != nil {
 return err
	}

	n.blendWeight = clampUnit(n.weight.GetFloat(ctx))
	sourceSync, targetSync := n.source.SyncTrack(), n.target.SyncTrack()
	blended, err := synctrack.Blend(sourceSync, targetSync, n.blendWeight)
	if err != nil {
 return fmt.Errorf("node %d: %w", n.index, err)
	}
	n.blendedSync = blended
	n.duration = synctrack.CalculateSynchronizedTrackDuration(n.source.Duration(), n.target.Duration(), sourceSync, targetSync, blended, n.blendWeight)
	n.progress = n.blendedSync.GetPercentageThrough(initialTime)
	n.previousProgress = n.progress
	return nil
}

func (n *blendNode) Shutdown(ctx *Context) {
	n.target.Shutdown(ctx)
	n.source.Shutdown(ctx)
	n.weight.Shutdown(ctx)
}

func (n *blendNode) Update(ctx *Context) (PoseNodeResult, error) {
	n.blendWeight = clampUnit(n.weight.GetFloat(ctx))

	var deltaPercentage float32
	if n.duration > 0 {
 deltaPercentage = ctx.DeltaTime / n.duration
	}

	beginTime, _ := n.blendedSync.GetTime(n.progress)
	endTime, loopDelta := n.blendedSync.GetTime(n.progress + deltaPercentage)
	timeRange := synctrack.TimeRange{Begin: beginTime, End: endTime}

	sourceResult, err := n.source.UpdateSynced(ctx, timeRange)
	if err != nil {
 return PoseNodeResult{}, err
	}
	targetResult, err := n.target.UpdateSynced(ctx, timeRange)
	if err != nil {
 return PoseNodeResult{}, err
	}

	var taskIdx task.Index
	if n.additive {
 taskIdx = ctx.Tasks.Register(task.NewAdditiveBlendTask(n.blendWeight, n.mask), sourceResult.TaskIndex, targetResult.TaskIndex)
	} else {
 taskIdx = ctx.Tasks.Register(task.NewBlendTask(n.blendWeight, n.mask), sourceResult.TaskIndex, targetResult.TaskIndex)
	}
	ctx.TrackActiveNode(n.index)

	rootMotion := common.Interpolate(sourceResult.RootMotionDelta, targetResult.RootMotionDelta, n.blendWeight)
	ctx.RecordRootMotion(rootMotion)

	// Attenuate each side's sampled events by its shrinking contribution to
	// the blended result, ("Weight is attenuated by every
	// blend that reduces the contributing source's influence").
	if n.blendWeight < 1 {
 ctx.Events.AttenuateRange(sourceResult.Events, 1-n.blendWeight)
	}
	if n.blendWeight > 0 {
 ctx.Events.AttenuateRange(targetResult.Events, n.blendWeight)
	}
	events := event.Merge(sourceResult.Events, targetResult.Events)

	sourceSync, targetSync := n.source.SyncTrack(), n.target.SyncTrack()
	blended, err := synctrack.Blend(sourceSync, targetSync, n.blendWeight)
	if err != nil {
 return PoseNodeResult{}, fmt.Errorf("node %d: %w", n.index, err)
	}
	n.blendedSync = blended
	n.duration = synctrack.CalculateSynchronizedTrackDuration(n.source.Duration(), n.target.Duration(), sourceSync, targetSync, blended, n.blendWeight)
	n.previousProgress = n.blendedSync.GetPercentageThrough(beginTime)
	n.progress = n.blendedSync.GetPercentageThrough(endTime)
	n.loopCount += loopDelta

	return PoseNodeResult{TaskIndex: taskIdx, RootMotionDelta: rootMotion, Events: events}, nil
}

// UpdateSynced has no defined meaning for Blend: a blend node computes its
// own synchronized time range from its own duration rather than accepting
// one dictated by a parent, per blend_node.hpp's assert(false) second
// Update overload.
func (n *blendNode) UpdateSynced(ctx *Context, tr synctrack.TimeRange) (PoseNodeResult, error) {
	return PoseNodeResult{}, fmt.Errorf("node %d: %w", n.index, ErrUnsynchronizedBlend)
}

func (n *blendNode) DeactivateBranch(ctx *Context) {
	n.target.DeactivateBranch(ctx)
	n.source.DeactivateBranch(ctx)
}

func (n *blendNode) Duration() float32 { return n.duration }
// CurrentTime and PreviousTime report the normalized percentage-through
// the blended sync track, matching the pose-node time contract; progress
// and previousProgress already are that percentage, so no conversion is
// needed here.
func (n *blendNode) CurrentTime() float32 { return n.progress }
func (n *blendNode) PreviousTime() float32 { return n.previousProgress }
func (n *blendNode) LoopCount() uint32 { return n.loopCount }
func (n *blendNode) SyncTrack() synctrack.Track { return n.blendedSync }
