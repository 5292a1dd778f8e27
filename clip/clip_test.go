package clip

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oxygraph/animgraph/common"
	"github.com/oxygraph/animgraph/pose"
	"github.com/oxygraph/animgraph/skeleton"
)

func oneBoneSkeleton(t *testing.T) *skeleton.Skeleton {
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

func TestTrackSampleInterpolatesLinearly(t *testing.T) {
	tr := Track{
 Translations: []VectorKey{
 {Time: 0, Value: mgl32.Vec3{0, 0, 0}},
 {Time: 2, Value: mgl32.Vec3{2, 0, 0}},
 },
	}
	got := tr.Sample(1)
	if got.Translation.X() != 1 {
 t.Fatalf("Sample(1).Translation.X = %v, want 1", got.Translation.X())
	}
}

func TestTrackSampleClampsOutOfRange(t *testing.T) {
	tr := Track{
 Translations: []VectorKey{
 {Time: 0, Value: mgl32.Vec3{0, 0, 0}},
 {Time: 1, Value: mgl32.Vec3{1, 0, 0}},
 },
	}
	if got := tr.Sample(-5); got.Translation.X() != 0 {
 t.Fatalf("Sample(-5).Translation.X = %v, want 0", got.Translation.X())
	}
	if got := tr.Sample(5); got.Translation.X() != 1 {
 t.Fatalf("Sample(5).Translation.X = %v, want 1", got.Translation.X())
	}
}

func TestGetPoseSamplesEveryTrack(t *testing.T) {
	skel := oneBoneSkeleton(t)
	tracks := []Track{
 {Translations: []VectorKey{{Time: 0, Value: mgl32.Vec3{0, 0, 0}}, {Time: 2, Value: mgl32.Vec3{4, 0, 0}}}},
	}
	c := New("walk", 2.0, 30, tracks)
	out := pose.New(skel)
	if err := c.GetPose(1.0, out, skel); err != nil {
 t.Fatalf("GetPose: %v", err)
	}
	if got := out.LocalTransform(0).Translation.X(); got != 2 {
 t.Fatalf("LocalTransform(0).Translation.X = %v, want 2", got)
	}
}

func TestGetPoseSkeletonMismatch(t *testing.T) {
	skel := oneBoneSkeleton(t)
	c := New("empty", 1.0, 30, nil)
	out := pose.New(skel)
	if err := c.GetPose(0, out, skel); err == nil {
 t.Fatalf("expected mismatch error for zero-track clip against one-bone skeleton")
	}
}

func TestRootMotionDeltaAtNoTrackIsIdentity(t *testing.T) {
	c := New("idle", 1.0, 30, []Track{{}})
	d := c.RootMotionDeltaAt(0.5)
	if d.Translation != common.IdentityTransform.Translation {
 t.Fatalf("expected identity root motion when no track is present")
	}
}
