package pose

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oxygraph/animgraph/common"
	"github.com/oxygraph/animgraph/skeleton"
)

func testSkeleton(t *testing.T) *skeleton.Skeleton {
	t.Helper()
	bones := []skeleton.Bone{
 {Index: 0, ParentIndex: skeleton.InvalidIndex, Name: "root"},
 {Index: 1, ParentIndex: 0, Name: "spine"},
 {Index: 2, ParentIndex: 1, Name: "head"},
	}
	ref := []common.Transform{
 common.IdentityTransform,
 common.NewTransform(mgl32.Vec3{0, 1, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1}),
 common.NewTransform(mgl32.Vec3{0, 1, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1}),
	}
	skel, err := skeleton.New(bones, ref)
	if err != nil {
 t.Fatalf("skeleton.New: %v", err)
	}
	return skel
}

func TestNewPoseSizedToSkeleton(t *testing.T) {
	skel := testSkeleton(t)
	p := New(skel)
	if p.NumBones() != skel.NumBones() {
 t.Fatalf("NumBones = %d, want %d", p.NumBones(), skel.NumBones())
	}
	if p.State() != Unset {
 t.Fatalf("State = %v, want Unset", p.State())
	}
}

func TestResetReference(t *testing.T) {
	skel := testSkeleton(t)
	p := New(skel)
	p.Reset(Reference)
	if p.State() != Reference {
 t.Fatalf("State = %v, want Reference", p.State())
	}
	for i, want := range skel.ReferencePose() {
 got := p.LocalTransform(uint32(i))
 if got.Translation != want.Translation {
 t.Fatalf("bone %d translation = %v, want %v", i, got.Translation, want.Translation)
 }
	}
}

func TestGlobalTransformsComposesHierarchy(t *testing.T) {
	skel := testSkeleton(t)
	p := New(skel)
	p.Reset(Reference)
	global := p.GlobalTransforms()
	// root (bone 0) local == global; spine (bone 1) stacks translation.
	if global[0].Translation != p.LocalTransform(0).Translation {
 t.Fatalf("root global should equal local")
	}
	wantSpineY := p.LocalTransform(0).Translation.Y() + p.LocalTransform(1).Translation.Y()
	if global[1].Translation.Y() != wantSpineY {
 t.Fatalf("spine global Y = %v, want %v", global[1].Translation.Y(), wantSpineY)
	}
	wantHeadY := wantSpineY + p.LocalTransform(2).Translation.Y()
	if global[2].Translation.Y() != wantHeadY {
 t.Fatalf("head global Y = %v, want %v", global[2].Translation.Y(), wantHeadY)
	}
}

func TestCopyFromMatchingSkeleton(t *testing.T) {
	skel := testSkeleton(t)
	src := New(skel)
	src.Reset(Reference)
	dst := New(skel)
	if err := dst.CopyFrom(src); err != nil {
 t.Fatalf("CopyFrom: %v", err)
	}
	if dst.State() != src.State() {
 t.Fatalf("dst state = %v, want %v", dst.State(), src.State())
	}
	for i := 0; i < src.NumBones(); i++ {
 if dst.LocalTransform(uint32(i)).Translation != src.LocalTransform(uint32(i)).Translation {
 t.Fatalf("bone %d not copied", i)
 }
	}
}

func TestCopyFromSkeletonMismatch(t *testing.T) {
	skelA := testSkeleton(t)
	bones := []skeleton.Bone{{Index: 0, ParentIndex: skeleton.InvalidIndex, Name: "root"}}
	skelB, err := skeleton.New(bones, []common.Transform{common.IdentityTransform})
	if err != nil {
 t.Fatalf("skeleton.New: %v", err)
	}
	dst := New(skelA)
	src := New(skelB)
	if err := dst.CopyFrom(src); err == nil {
 t.Fatalf("expected skeleton mismatch error")
	}
}

func TestBoneMaskNilIsUniform(t *testing.T) {
	var m *BoneMask
	if m.Weight(0) != 1 {
 t.Fatalf("nil mask weight = %v, want 1", m.Weight(0))
	}
}

func TestBoneMaskPoolReusesReleased(t *testing.T) {
	skel := testSkeleton(t)
	pool := NewPool(skel)
	m1 := pool.Acquire()
	m1.SetWeight(0, 0.25)
	pool.Release(m1)
	m2 := pool.Acquire()
	if m2.Weight(0) != 1 {
 t.Fatalf("reacquired mask should be reset to uniform, got %v", m2.Weight(0))
	}
}
