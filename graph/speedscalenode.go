package graph

import (
	"github.com/oxygraph/animgraph/synctrack"
)

// speedScaleNode scales its child's perceived delta time by a control
// value each update, and original_source's
// speed_scale_node.hpp. The scale isn't applied outright: effective_scale
// eases from 1.0 toward the read value over settings.BlendTime seconds,
// so a sudden control-parameter change doesn't pop the child's playback
// speed. Synchronized playback is externally time-mapped and has no
// meaningful delta time to scale, so UpdateSynced degrades gracefully: it
// warns once per occurrence and delegates unscaled,
type speedScaleNode struct {
	passthroughMixin
	settings SpeedScaleSettings
	scale FloatValueNode
	effectiveScale float32
}

func newSpeedScaleNode(idx NodeIndex, child PoseNode, settings SpeedScaleSettings, scale FloatValueNode) *speedScaleNode {
	n := &speedScaleNode{settings: settings, scale: scale, effectiveScale: 1}
	n.index = idx
	n.child = child
	return n
}

func (n *speedScaleNode) Initialize(ctx *Context, initialTime synctrack.Time) error {
	if err := n.scale.Initialize(ctx); err != nil {
 return err
	}
	n.effectiveScale = 1
	return n.initialize(ctx, initialTime)
}

func (n *speedScaleNode) Shutdown(ctx *Context) {
	n.scale.Shutdown(ctx)
	n.shutdown(ctx)
}

func (n *speedScaleNode) Update(ctx *Context) (PoseNodeResult, error) {
	target := n.scale.GetFloat(ctx)
	if target < 0 {
 target = 0
	}
	if n.settings.BlendTime <= 0 {
 n.effectiveScale = target
	} else {
 w := clampUnit(ctx.DeltaTime / n.settings.BlendTime)
 n.effectiveScale += (target - n.effectiveScale) * w
	}

	original := ctx.DeltaTime
	ctx.DeltaTime = original * n.effectiveScale
	result, err := n.update(ctx)
	ctx.DeltaTime = original
	if err != nil {
 return result, err
	}
	if n.effectiveScale > 0 {
 n.duration = n.child.Duration() / n.effectiveScale
	}
	return result, nil
}

func (n *speedScaleNode) UpdateSynced(ctx *Context, tr synctrack.TimeRange) (PoseNodeResult, error) {
	ctx.LogWarning("speed scale node %d driven synchronously; scale has no effect", n.index)
	return n.updateSynced(ctx, tr)
}

func (n *speedScaleNode) DeactivateBranch(ctx *Context) { n.deactivateBranch(ctx) }
