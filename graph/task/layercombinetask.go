package task

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oxygraph/animgraph/pose"
)

// LayerCombineTask composes a base pose (dependency 0) with N weighted
// overlay poses (dependencies 1..N), using the same rotation-only
// additive rule as AdditiveBlendTask applied once per overlay in order.
// This is the layered-animation use case the GraphLayerContext
// gestures at without defining; it's a (NEW) extension built on the same
// additive resolution recorded for AdditiveBlendTask, not a separate
// open question.
type LayerCombineTask struct {
	overlayWeights []float32
	masks []*pose.BoneMask // parallel to overlayWeights; entries may be nil
	outputBuffer BufferIndex
}

// NewLayerCombineTask builds a task that composes dependency 0 (base)
// with len(overlayWeights) further dependencies (1..N, the overlays),
// each scaled by its corresponding weight and optional mask.
func NewLayerCombineTask(overlayWeights []float32, masks []*pose.BoneMask) *LayerCombineTask {
	return &LayerCombineTask{overlayWeights: overlayWeights, masks: masks, outputBuffer: InvalidIndex}
}

// Execute applies each overlay's rotation on top of the base buffer, in
// dependency order, then releases every overlay dependency.
func (t *LayerCombineTask) Execute(ctx *Context) error {
	baseIdx, base := ctx.TransferDependencyPoseBuffer(0)
	baseLocal := base.LocalTransforms()

	for layer, w := range t.overlayWeights {
 depIndex := layer + 1
 overlay := ctx.AccessDependencyPoseBuffer(depIndex)
 overlayLocal := overlay.LocalTransforms()
 var mask *pose.BoneMask
 if layer < len(t.masks) {
 mask = t.masks[layer]
 }
 for i := range baseLocal {
 bw := w * mask.Weight(uint32(i))
 if bw <= 0 {
 continue
 }
 composed := overlayLocal[i].Rotation.Mul(baseLocal[i].Rotation)
 baseLocal[i].Rotation = mgl32.QuatSlerp(baseLocal[i].Rotation, composed, bw)
 }
 ctx.ReleaseDependencyPoseBuffer(depIndex)
	}

	base.MarkState(pose.Absolute)
	t.outputBuffer = baseIdx
	return nil
}

// OutputBuffer returns the (former base) buffer index the combined pose
// was written into.
func (t *LayerCombineTask) OutputBuffer() BufferIndex {
	return t.outputBuffer
}
