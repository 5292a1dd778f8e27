package task

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oxygraph/animgraph/clip"
	"github.com/oxygraph/animgraph/common"
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

func TestPoolStartsAtFiveAndDoublesOnExhaustion(t *testing.T) {
	skel := oneBoneSkeleton(t)
	pool := NewPool(skel)
	if pool.Len() != 5 {
 t.Fatalf("Len = %d, want 5", pool.Len())
	}
	for i := 0; i < 5; i++ {
 pool.Acquire(uint32(i))
	}
	if pool.NumFree() != 0 {
 t.Fatalf("NumFree = %d, want 0", pool.NumFree())
	}
	pool.Acquire(5)
	if pool.Len() != 10 {
 t.Fatalf("Len after exhaustion = %d, want 10 (doubled)", pool.Len())
	}
}

func TestSampleTaskWritesPose(t *testing.T) {
	skel := oneBoneSkeleton(t)
	pool := NewPool(skel)
	c := clip.New("idle", 1.0, 30, []clip.Track{
 {Translations: []clip.VectorKey{{Time: 0, Value: mgl32.Vec3{0, 0, 0}}, {Time: 1, Value: mgl32.Vec3{1, 0, 0}}}},
	})
	sys := NewSystem(pool)
	st := NewSampleTask(c, skel, 0.5)
	sys.Register(st)
	if err := sys.Execute(); err != nil {
 t.Fatalf("Execute: %v", err)
	}
	out := pool.At(st.OutputBuffer())
	if got := out.LocalTransform(0).Translation.X(); got != 0.5 {
 t.Fatalf("sampled translation.X = %v, want 0.5", got)
	}
}

func TestBlendTaskInterpolatesAndReleasesTarget(t *testing.T) {
	skel := oneBoneSkeleton(t)
	pool := NewPool(skel)

	sourceClip := clip.New("source", 1.0, 30, []clip.Track{
 {Translations: []clip.VectorKey{{Time: 0, Value: mgl32.Vec3{0, 0, 0}}}},
	})
	targetClip := clip.New("target", 1.0, 30, []clip.Track{
 {Translations: []clip.VectorKey{{Time: 0, Value: mgl32.Vec3{2, 0, 0}}}},
	})

	sys := NewSystem(pool)
	sourceTask := NewSampleTask(sourceClip, skel, 0)
	sourceIdx := sys.Register(sourceTask)
	targetTask := NewSampleTask(targetClip, skel, 0)
	targetIdx := sys.Register(targetTask)

	bt := NewBlendTask(0.5, nil)
	sys.Register(bt, sourceIdx, targetIdx)

	if err := sys.Execute(); err != nil {
 t.Fatalf("Execute: %v", err)
	}
	srcBuf := sourceTask.OutputBuffer()
	tgtBuf := targetTask.OutputBuffer()
	if bt.OutputBuffer() != srcBuf {
 t.Fatalf("output buffer = %d, want source buffer %d", bt.OutputBuffer(), srcBuf)
	}
	if got := pool.At(srcBuf).LocalTransform(0).Translation.X(); got != 1 {
 t.Fatalf("blended translation.X = %v, want 1", got)
	}
	if pool.Owner(tgtBuf) != InvalidIndex {
 t.Fatalf("target buffer should be released after blend")
	}
}
