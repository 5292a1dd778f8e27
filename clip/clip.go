// Package clip holds immutable authored animation data: one Track per
// skeleton bone, sampled by time to fill a Pose. Generalized from "one
// channel per animated bone" (sparse — channels list is keyed by bone
// index, bones without a channel are implicitly static) to "one track per
// skeleton bone" (dense) with a Sample(time) -> Transform contract per
// track.
package clip

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oxygraph/animgraph/common"
	"github.com/oxygraph/animgraph/pose"
	"github.com/oxygraph/animgraph/skeleton"
)

// VectorKey is a keyframe of a 3-vector (translation or scale) at a time
// in seconds.
type VectorKey struct {
	Time float32
	Value mgl32.Vec3
}

// QuaternionKey is a keyframe of a rotation at a time in seconds.
type QuaternionKey struct {
	Time float32
	Value mgl32.Quat
}

// Track is the per-bone key sequence for one bone of a Clip. A bone with
// no authored motion still gets a Track with a single key pinned at the
// skeleton's reference-pose value — the "dense" invariant // requires (every skeleton bone has a track), unlike the teacher's sparse
// per-animated-bone channel list.
type Track struct {
	Translations []VectorKey
	Rotations []QuaternionKey
	Scales []VectorKey
}

// Sample evaluates the track at t seconds, clamping to the track's
// authored range (no extrapolation) and linearly interpolating between
// the bracketing keys of each component independently.
func (tr *Track) Sample(t float32) common.Transform {
	return common.Transform{
 Translation: sampleVectorKeys(tr.Translations, t),
 Rotation: sampleQuaternionKeys(tr.Rotations, t),
 Scale: sampleVectorKeys(tr.Scales, t),
	}
}

func sampleVectorKeys(keys []VectorKey, t float32) mgl32.Vec3 {
	if len(keys) == 0 {
 return mgl32.Vec3{0, 0, 0}
	}
	if len(keys) == 1 || t <= keys[0].Time {
 return keys[0].Value
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
 return last.Value
	}
	for i := 1; i < len(keys); i++ {
 if t <= keys[i].Time {
 a, b := keys[i-1], keys[i]
 w := (t - a.Time) / (b.Time - a.Time)
 return mgl32.Vec3{
 a.Value[0] + (b.Value[0]-a.Value[0])*w,
 a.Value[1] + (b.Value[1]-a.Value[1])*w,
 a.Value[2] + (b.Value[2]-a.Value[2])*w,
 }
 }
	}
	return last.Value
}

func sampleQuaternionKeys(keys []QuaternionKey, t float32) mgl32.Quat {
	if len(keys) == 0 {
 return mgl32.QuatIdent()
	}
	if len(keys) == 1 || t <= keys[0].Time {
 return keys[0].Value
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
 return last.Value
	}
	for i := 1; i < len(keys); i++ {
 if t <= keys[i].Time {
 a, b := keys[i-1], keys[i]
 w := (t - a.Time) / (b.Time - a.Time)
 return mgl32.QuatSlerp(a.Value, b.Value, w)
 }
	}
	return last.Value
}

// Clip is an immutable animation: a dense per-bone Track array plus
// sample-rate metadata. Compression and on-disk layout are out of scope
// — the core only ever sees this decoded form.
type Clip struct {
	name string
	duration float32
	frameRate uint8
	tracks []Track
	rootMotion []common.Transform // per-frame root-motion delta samples, optional
}

// New builds a Clip. tracks must have exactly one entry per bone of the
// skeleton it will be played against; that invariant is checked by
// GetPose at sample time rather than here, since a Clip can be authored
// before any particular skeleton is bound to it.
func New(name string, duration float32, frameRate uint8, tracks []Track) *Clip {
	return &Clip{name: name, duration: duration, frameRate: frameRate, tracks: tracks}
}

// WithRootMotion attaches a per-bone-0-frame root-motion delta track,
// sampled once per frame rather than interpolated: root translation is
// treated as a discrete per-frame delta rather than a continuous curve.
func (c *Clip) WithRootMotion(samples []common.Transform) *Clip {
	c.rootMotion = samples
	return c
}

// Name returns the clip's authored name.
func (c *Clip) Name() string { return c.name }

// Duration returns the clip's duration in seconds.
func (c *Clip) Duration() float32 { return c.duration }

// FrameRate returns the clip's authored sample rate.
func (c *Clip) FrameRate() uint8 { return c.frameRate }

// NumTracks returns the number of per-bone tracks.
func (c *Clip) NumTracks() int { return len(c.tracks) }

// GetPose samples every track at t seconds (clamped to [0, duration]) and
// writes the result into out, which must share the clip's skeleton (same
// bone count as NumTracks). This is the "Exposes GetPose(time,
// outPose) which fills a pose by sampling each track at the given time."
func (c *Clip) GetPose(t float32, out *pose.Pose, skel *skeleton.Skeleton) error {
	if out.NumBones() != len(c.tracks) {
 return fmt.Errorf("clip: %q has %d tracks but pose has %d bones", c.name, len(c.tracks), out.NumBones())
	}
	if t < 0 {
 t = 0
	}
	if t > c.duration {
 t = c.duration
	}
	locals := out.LocalTransforms
	for i := range c.tracks {
 locals[i] = c.tracks[i].Sample(t)
	}
	return nil
}

// RootMotionDeltaAt returns the root-motion delta sampled at frame index
// derived from t, or the identity transform if the clip carries no
// root-motion track. Root motion is sampled discretely per frame (nearest
// preceding sample), not interpolated — root-motion deltas are meant to
// accumulate exactly once per authored frame.
func (c *Clip) RootMotionDeltaAt(t float32) common.Transform {
	if len(c.rootMotion) == 0 {
 return common.IdentityTransform
	}
	if c.duration <= 0 {
 return c.rootMotion[0]
	}
	idx := int((t / c.duration) * float32(len(c.rootMotion)))
	if idx < 0 {
 idx = 0
	}
	if idx >= len(c.rootMotion) {
 idx = len(c.rootMotion) - 1
	}
	return c.rootMotion[idx]
}
