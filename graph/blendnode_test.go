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

type constFloatNode struct {
	index NodeIndex
	value float32
}

func (n *constFloatNode) Index() NodeIndex { return n.index }
func (n *constFloatNode) Initialize(ctx *Context) error { return nil }
func (n *constFloatNode) Shutdown(ctx *Context) {}
func (n *constFloatNode) GetFloat(ctx *Context) float32 { return n.value }

func blendTestSkeleton(t *testing.T) *skeleton.Skeleton {
	t.Helper()
	skel, err := skeleton.New(
 []skeleton.Bone{{Index: 0, ParentIndex: skeleton.InvalidIndex, Name: "root"}},
 []common.Transform{common.IdentityTransform},
	)
	if err != nil {
 t.Fatalf("skeleton.New: %v", err)
	}
	return skel
}

func blendTestContext(t *testing.T, skel *skeleton.Skeleton) *Context {
	t.Helper()
	pool := task.NewPool(skel)
	sys := task.NewSystem(pool)
	maskPool := pose.NewPool(skel)
	ctx := NewContext(skel, sys, maskPool, false)
	ctx.Update(1.0/30.0, common.IdentityTransform, nil)
	return ctx
}

func newBlendTestClipNode(idx NodeIndex, x float32) *clipNode {
	c := clip.New("c", 1.0, 30, []clip.Track{
 {Translations: []clip.VectorKey{{Time: 0, Value: mgl32.Vec3{x, 0, 0}}}},
	})
	return newClipNode(idx, ClipSettings{Loop: true}, c)
}

func TestBlendNodeAtZeroWeightEqualsSource(t *testing.T) {
	skel := blendTestSkeleton(t)
	ctx := blendTestContext(t, skel)

	source := newBlendTestClipNode(0, 1)
	target := newBlendTestClipNode(1, 5)
	weight := &constFloatNode{index: 2, value: 0}
	bn := newBlendNode(3, source, target, weight, nil, false)

	if err := bn.Initialize(ctx, synctrack.Time{}); err != nil {
 t.Fatalf("Initialize: %v", err)
	}
	result, err := bn.Update(ctx)
	if err != nil {
 t.Fatalf("Update: %v", err)
	}
	if err := ctx.Tasks.Execute(); err != nil {
 t.Fatalf("Execute: %v", err)
	}
	out := ctx.Tasks.Pool().At(ctx.Tasks.OutputBuffer(result.TaskIndex))
	if got := out.LocalTransform(0).Translation.X(); got != 1 {
 t.Fatalf("blend at weight 0 = %v, want source value 1", got)
	}
}

func TestBlendNodeAtOneWeightEqualsTarget(t *testing.T) {
	skel := blendTestSkeleton(t)
	ctx := blendTestContext(t, skel)

	source := newBlendTestClipNode(0, 1)
	target := newBlendTestClipNode(1, 5)
	weight := &constFloatNode{index: 2, value: 1}
	bn := newBlendNode(3, source, target, weight, nil, false)

	if err := bn.Initialize(ctx, synctrack.Time{}); err != nil {
 t.Fatalf("Initialize: %v", err)
	}
	result, err := bn.Update(ctx)
	if err != nil {
 t.Fatalf("Update: %v", err)
	}
	if err := ctx.Tasks.Execute(); err != nil {
 t.Fatalf("Execute: %v", err)
	}
	out := ctx.Tasks.Pool().At(ctx.Tasks.OutputBuffer(result.TaskIndex))
	if got := out.LocalTransform(0).Translation.X(); got != 5 {
 t.Fatalf("blend at weight 1 = %v, want target value 5", got)
	}
}

func TestBlendNodeUpdateSyncedIsUndefined(t *testing.T) {
	skel := blendTestSkeleton(t)
	ctx := blendTestContext(t, skel)

	source := newBlendTestClipNode(0, 1)
	target := newBlendTestClipNode(1, 5)
	weight := &constFloatNode{index: 2, value: 0.5}
	bn := newBlendNode(3, source, target, weight, nil, false)
	if err := bn.Initialize(ctx, synctrack.Time{}); err != nil {
 t.Fatalf("Initialize: %v", err)
	}

	_, err := bn.UpdateSynced(ctx, synctrack.TimeRange{})
	if err == nil {
 t.Fatal("expected ErrUnsynchronizedBlend")
	}
}
