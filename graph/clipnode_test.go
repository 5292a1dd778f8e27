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

func clipTestSkeleton(t *testing.T) *skeleton.Skeleton {
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

func clipTestContext(t *testing.T, skel *skeleton.Skeleton) *Context {
	t.Helper()
	pool := task.NewPool(skel)
	sys := task.NewSystem(pool)
	maskPool := pose.NewPool(skel)
	return NewContext(skel, sys, maskPool, false)
}

// TestClipNodeSingleClipNoLoop is worked scenario 1: duration 2.0s,
// dt 0.25s. After 4 updates current_time must be the normalized
// percentage-through 0.5, not the 1.0s of seconds actually elapsed.
func TestClipNodeSingleClipNoLoop(t *testing.T) {
	skel := clipTestSkeleton(t)
	ctx := clipTestContext(t, skel)

	c := clip.New("c", 2.0, 30, []clip.Track{
		{Translations: []clip.VectorKey{{Time: 0, Value: mgl32.Vec3{0, 0, 0}}}},
	})
	n := newClipNode(0, ClipSettings{Loop: false}, c)
	if err := n.Initialize(ctx, synctrack.Time{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	for i := 0; i < 4; i++ {
		ctx.Update(0.25, common.IdentityTransform, nil)
		if _, err := n.Update(ctx); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	if got, want := n.CurrentTime(), float32(0.5); got != want {
		t.Fatalf("current_time = %v, want %v", got, want)
	}
	if n.LoopCount() != 0 {
		t.Fatalf("loop_count = %d, want 0", n.LoopCount())
	}
}

// TestClipNodeLoopsAndWrapsPercentage is worked scenario 2: duration
// 1.0s, dt 0.4s. After 3 updates the clip has played 1.2s, wrapping once:
// current_time must report the wrapped 0.2 percentage-through, and
// loop_count must be 1.
func TestClipNodeLoopsAndWrapsPercentage(t *testing.T) {
	skel := clipTestSkeleton(t)
	ctx := clipTestContext(t, skel)

	c := clip.New("c", 1.0, 30, []clip.Track{
		{Translations: []clip.VectorKey{{Time: 0, Value: mgl32.Vec3{0, 0, 0}}}},
	})
	n := newClipNode(0, ClipSettings{Loop: true}, c)
	if err := n.Initialize(ctx, synctrack.Time{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	for i := 0; i < 3; i++ {
		ctx.Update(0.4, common.IdentityTransform, nil)
		if _, err := n.Update(ctx); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	if got, want := n.CurrentTime(), float32(0.19999999); got < want-0.001 || got > want+0.001 {
		t.Fatalf("current_time = %v, want ~0.2", got)
	}
	if n.LoopCount() != 1 {
		t.Fatalf("loop_count = %d, want 1", n.LoopCount())
	}
}

// TestClipNodePercentageNotSeconds guards the specific regression this
// covers: a naive implementation that reports raw accumulated seconds
// instead of dividing by clip duration would yield 1.0 here, not 0.5.
func TestClipNodePercentageNotSeconds(t *testing.T) {
	skel := clipTestSkeleton(t)
	ctx := clipTestContext(t, skel)

	c := clip.New("c", 2.0, 30, []clip.Track{{}})
	n := newClipNode(0, ClipSettings{Loop: false}, c)
	if err := n.Initialize(ctx, synctrack.Time{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	ctx.Update(1.0, common.IdentityTransform, nil)
	if _, err := n.Update(ctx); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := n.CurrentTime(); got == 1.0 {
		t.Fatalf("current_time reported raw seconds (%v) instead of percentage-through", got)
	}
	if got, want := n.CurrentTime(), float32(0.5); got != want {
		t.Fatalf("current_time = %v, want %v", got, want)
	}
}
