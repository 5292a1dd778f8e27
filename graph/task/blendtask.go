package task

import (
	"github.com/oxygraph/animgraph/common"
	"github.com/oxygraph/animgraph/pose"
)

// BlendTask consumes two input buffers — the source is transferred
// (takes ownership), the target is only accessed — writes the
// interpolated result in place into the source buffer, and releases the
// target. This matches the "Blend" task description exactly.
type BlendTask struct {
	weight float32
	mask *pose.BoneMask
	outputBuffer BufferIndex
}

// NewBlendTask builds a task that will blend dependency 0 (source) and
// dependency 1 (target) at the given weight when executed. mask may be
// nil for uniform per-bone weight.
func NewBlendTask(weight float32, mask *pose.BoneMask) *BlendTask {
	return &BlendTask{weight: weight, mask: mask, outputBuffer: InvalidIndex}
}

// Execute blends dependency 1 into dependency 0 in place.
func (t *BlendTask) Execute(ctx *Context) error {
	srcIdx, src := ctx.TransferDependencyPoseBuffer(0)
	tgt := ctx.AccessDependencyPoseBuffer(1)

	srcLocal := src.LocalTransforms()
	tgtLocal := tgt.LocalTransforms()
	for i := range srcLocal {
 w := t.weight * t.mask.Weight(uint32(i))
 srcLocal[i] = common.Interpolate(srcLocal[i], tgtLocal[i], w)
	}
	src.MarkState(pose.Absolute)

	ctx.ReleaseDependencyPoseBuffer(1)
	t.outputBuffer = srcIdx
	return nil
}

// OutputBuffer returns the (former source) buffer index the blended pose
// was written into.
func (t *BlendTask) OutputBuffer() BufferIndex {
	return t.outputBuffer
}
