package graph

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oxygraph/animgraph/clip"
	"github.com/oxygraph/animgraph/common"
	"github.com/oxygraph/animgraph/graph/task"
	"github.com/oxygraph/animgraph/pose"
	"github.com/oxygraph/animgraph/skeleton"
	"github.com/oxygraph/animgraph/synctrack"
)

type constVectorNode struct {
	index NodeIndex
	value common.Vec3
}

func (n *constVectorNode) Index() NodeIndex { return n.index }
func (n *constVectorNode) Initialize(ctx *Context) error { return nil }
func (n *constVectorNode) Shutdown(ctx *Context) {}
func (n *constVectorNode) GetVector(ctx *Context) common.Vec3 { return n.value }

func rootMotionTestContext(t *testing.T) (*Context, *skeleton.Skeleton) {
	t.Helper()
	skel, err := skeleton.New(
 []skeleton.Bone{{Index: 0, ParentIndex: skeleton.InvalidIndex, Name: "root"}},
 []common.Transform{common.IdentityTransform},
	)
	if err != nil {
 t.Fatalf("skeleton.New: %v", err)
	}
	pool := task.NewPool(skel)
	sys := task.NewSystem(pool)
	maskPool := pose.NewPool(skel)
	ctx := NewContext(skel, sys, maskPool, false)
	ctx.Update(1.0, common.IdentityTransform, nil)
	return ctx, skel
}

func rootMotionChildWithDelta(idx NodeIndex, delta common.Transform) *clipNode {
	c := clip.New("c", 10, 30, []clip.Track{{}}).WithRootMotion([]common.Transform{delta})
	return newClipNode(idx, ClipSettings{Loop: false}, c)
}

func TestRootMotionOverrideReplacesHeadingAxis(t *testing.T) {
	ctx, _ := rootMotionTestContext(t)
	child := rootMotionChildWithDelta(0, common.Transform{Translation: mgl32.Vec3{0, 0, 0}, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}})
	heading := &constVectorNode{index: 1, value: mgl32.Vec3{2, 0, 0}}

	settings := RootMotionOverrideSettings{
 Child: 0,
 Flags: OverrideHeadingX,
 DesiredHeadingVelocity: 1,
 MaxLinearVelocityNode: InvalidIndex,
 DesiredFacing: InvalidIndex,
	}
	n := newRootMotionOverrideNode(2, child, settings, heading, nil, nil)
	if err := n.Initialize(ctx, synctrack.Time{}); err != nil {
 t.Fatalf("Initialize: %v", err)
	}
	result, err := n.Update(ctx)
	if err != nil {
 t.Fatalf("Update: %v", err)
	}

	// dt is 1.0 second in the test context, so a heading velocity of 2
	// along X should produce a translation of 2 on X.
	if got := result.RootMotionDelta.Translation.X(); got != 2 {
 t.Fatalf("overridden heading X = %v, want 2", got)
	}
}

func TestRootMotionOverrideClampsToMaxLinearVelocity(t *testing.T) {
	ctx, _ := rootMotionTestContext(t)
	delta := common.Transform{Translation: mgl32.Vec3{10, 0, 0}, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
	child := rootMotionChildWithDelta(0, delta)

	settings := RootMotionOverrideSettings{
 Child: 0,
 Flags: 0,
 MaxLinearVelocity: 3,
 MaxLinearVelocityNode: InvalidIndex,
 DesiredFacing: InvalidIndex,
	}
	n := newRootMotionOverrideNode(1, child, settings, nil, nil, nil)
	if err := n.Initialize(ctx, synctrack.Time{}); err != nil {
 t.Fatalf("Initialize: %v", err)
	}
	result, err := n.Update(ctx)
	if err != nil {
 t.Fatalf("Update: %v", err)
	}

	if got := result.RootMotionDelta.Translation.Len(); got > 3.0001 {
 t.Fatalf("clamped translation length = %v, want <= 3", got)
	}
}

func TestFacingToRotationIsIdentityWhenFacingForward(t *testing.T) {
	q := facingToRotation(mgl32.Vec3{0, 0, 1}, OverrideFacingX|OverrideFacingY|OverrideFacingZ)
	ident := mgl32.QuatIdent()
	if q.W != ident.W || q.V != ident.V {
 t.Fatalf("facingToRotation(forward) = %+v, want identity", q)
	}
}
