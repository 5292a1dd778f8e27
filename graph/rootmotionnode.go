package graph

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oxygraph/animgraph/common"
	"github.com/oxygraph/animgraph/synctrack"
)

// rootMotionOverrideNode extends Passthrough: after the child update, it
// optionally replaces per-axis components of the root-motion delta's
// translation with a desired heading velocity, clamps the resulting
// translation's magnitude by a per-frame max-linear-velocity budget, and
// optionally rotates the delta to face a desired direction // and §8 scenario 5.
type rootMotionOverrideNode struct {
	passthroughMixin
	settings RootMotionOverrideSettings
	desiredHeadingVelocity VectorValueNode // nil if Flags has no heading override
	maxLinearVelocityNode FloatValueNode // nil to use settings.MaxLinearVelocity
	desiredFacing VectorValueNode // nil if Flags has no facing override
}

func newRootMotionOverrideNode(idx NodeIndex, child PoseNode, settings RootMotionOverrideSettings, headingVel VectorValueNode, maxVelNode FloatValueNode, facing VectorValueNode) *rootMotionOverrideNode {
	n := &rootMotionOverrideNode{settings: settings, desiredHeadingVelocity: headingVel, maxLinearVelocityNode: maxVelNode, desiredFacing: facing}
	n.index = idx
	n.child = child
	return n
}

func (n *rootMotionOverrideNode) Initialize(ctx *Context, initialTime synctrack.Time) error {
	if n.desiredHeadingVelocity != nil {
 if err := n.desiredHeadingVelocity.Initialize(ctx); err != nil {
 return err
 }
	}
	if n.maxLinearVelocityNode != nil {
 if err := n.maxLinearVelocityNode.Initialize(ctx); err != nil {
 return err
 }
	}
	if n.desiredFacing != nil {
 if err := n.desiredFacing.Initialize(ctx); err != nil {
 return err
 }
	}
	return n.initialize(ctx, initialTime)
}

func (n *rootMotionOverrideNode) Shutdown(ctx *Context) {
	if n.desiredHeadingVelocity != nil {
 n.desiredHeadingVelocity.Shutdown(ctx)
	}
	if n.maxLinearVelocityNode != nil {
 n.maxLinearVelocityNode.Shutdown(ctx)
	}
	if n.desiredFacing != nil {
 n.desiredFacing.Shutdown(ctx)
	}
	n.shutdown(ctx)
}

func (n *rootMotionOverrideNode) Update(ctx *Context) (PoseNodeResult, error) {
	result, err := n.update(ctx)
	if err != nil {
 return result, err
	}
	result.RootMotionDelta = n.applyOverride(ctx, result.RootMotionDelta)
	return result, nil
}

func (n *rootMotionOverrideNode) UpdateSynced(ctx *Context, tr synctrack.TimeRange) (PoseNodeResult, error) {
	result, err := n.updateSynced(ctx, tr)
	if err != nil {
 return result, err
	}
	result.RootMotionDelta = n.applyOverride(ctx, result.RootMotionDelta)
	return result, nil
}

func (n *rootMotionOverrideNode) applyOverride(ctx *Context, delta common.Transform) common.Transform {
	if n.settings.Flags.HasHeadingOverride() && n.desiredHeadingVelocity != nil {
 heading := n.desiredHeadingVelocity.GetVector(ctx)
 translation := heading.Mul(ctx.DeltaTime)
 if n.settings.Flags&OverrideHeadingX != 0 {
 delta.Translation[0] = translation[0]
 }
 if n.settings.Flags&OverrideHeadingY != 0 {
 delta.Translation[1] = translation[1]
 }
 if n.settings.Flags&OverrideHeadingZ != 0 {
 delta.Translation[2] = translation[2]
 }
	}

	maxVelocity := n.settings.MaxLinearVelocity
	if n.maxLinearVelocityNode != nil {
 maxVelocity = n.maxLinearVelocityNode.GetFloat(ctx)
	}
	if maxVelocity > 0 {
 maxDistance := maxVelocity * ctx.DeltaTime
 if length := delta.Translation.Len(); length > maxDistance && length > 0 {
 delta.Translation = delta.Translation.Mul(maxDistance / length)
 }
	}

	if n.settings.Flags.HasFacingOverride() && n.desiredFacing != nil {
 facing := n.desiredFacing.GetVector(ctx)
 if length := facing.Len(); length > 1e-6 {
 delta.Rotation = facingToRotation(facing.Mul(1/length), n.settings.Flags)
 }
	}

	return delta
}

// facingToRotation builds the quaternion that rotates the forward axis
// (0,0,1) to face the given direction, masked per-axis by the Facing*
// override flags: an axis not flagged keeps the forward axis's own
// component rather than being forced to zero, so a heading-only facing
// override (say, FacingX|FacingZ with Y left alone) doesn't introduce
// unintended pitch.
func facingToRotation(facing mgl32.Vec3, flags RootMotionOverrideFlags) mgl32.Quat {
	forward := mgl32.Vec3{0, 0, 1}
	target := facing
	if flags&OverrideFacingX == 0 {
 target[0] = forward[0]
	}
	if flags&OverrideFacingY == 0 {
 target[1] = forward[1]
	}
	if flags&OverrideFacingZ == 0 {
 target[2] = forward[2]
	}
	if length := target.Len(); length > 1e-6 {
 target = target.Mul(1 / length)
	} else {
 target = forward
	}

	dot := forward.Dot(target)
	if dot > 0.99999 {
 return mgl32.QuatIdent()
	}
	if dot < -0.99999 {
 // Antiparallel: any axis orthogonal to forward is a valid rotation
 // axis for a 180-degree turn.
 return mgl32.QuatRotate(math.Pi, mgl32.Vec3{1, 0, 0})
	}
	axis := forward.Cross(target).Normalize()
	angle := float32(math.Acos(float64(dot)))
	return mgl32.QuatRotate(angle, axis)
}

func (n *rootMotionOverrideNode) DeactivateBranch(ctx *Context) { n.deactivateBranch(ctx) }
