// Package pose holds the mutable per-character bone-transform bundle a
// skeleton is posed into each frame, plus the bone mask used to scale
// per-bone blend weights. Generalized from a flat per-instance bone-matrix
// array meant for direct GPU upload into a CPU-side object carrying an
// explicit state tag (Unset/Reference/Zero/Additive/Pose) instead of an
// implicit always-absolute buffer.
package pose

import (
	"fmt"

	"github.com/oxygraph/animgraph/common"
	"github.com/oxygraph/animgraph/skeleton"
)

// State classifies what a Pose currently represents.
type State int

const (
	// Unset means the pose's local transforms are not meaningful yet.
	Unset State = iota
	// Reference means the pose holds the skeleton's reference pose.
	Reference
	// Zero means every bone is the zero transform (not identity — used as
	// the neutral element for additive accumulation).
	Zero
	// Additive means the pose holds an additive delta relative to a base.
	Additive
	// Absolute means the pose holds an ordinary absolute local-space pose
	// (calls this state "Pose"; renamed here to avoid colliding
	// with the Pose type name).
	Absolute
)

// Pose is a mutable bundle of per-bone local transforms for one skeleton.
// It is deliberately non-copyable by convention: callers must use CopyFrom
// rather than Go's struct-assignment semantics, mirroring and
// §9's "expose only clone_from, never silent copies" note. Go can't forbid
// struct copies at compile time, so Pose carries a noCopy marker that `go
// vet`'s copylocks check flags if a Pose is copied by value.
type Pose struct {
	noCopy noCopy

	skel *skeleton.Skeleton
	state State

	local []common.Transform
	global []common.Transform
	// globalValid tracks whether global is current relative to local;
	// computed lazily on first GlobalTransforms call after a mutation.
	globalValid bool
}

// noCopy causes `go vet`'s -copylocks check to flag accidental copies of a
// struct that embeds it, the same trick the standard library's sync types
// use (sync.noCopy). It has no runtime behavior of its own.
type noCopy struct{}

func (*noCopy) Lock() {}
func (*noCopy) Unlock() {}

// New allocates a Pose sized for skel, initialized to Unset with one
// zero-valued transform per bone. Call Reset to give it meaningful contents before
// sampling into it.
func New(skel *skeleton.Skeleton) *Pose {
	n := skel.NumBones()
	return &Pose{
 skel: skel,
 state: Unset,
 local: make([]common.Transform, n),
 global: make([]common.Transform, n),
	}
}

// Skeleton returns the skeleton this pose is shaped against.
func (p *Pose) Skeleton() *skeleton.Skeleton {
	return p.skel
}

// State returns the pose's current classification.
func (p *Pose) State() State {
	return p.state
}

// NumBones returns the number of bones the pose carries, which always
// equals p.skel.NumBones.
func (p *Pose) NumBones() int {
	return len(p.local)
}

// LocalTransforms returns the local-space per-bone transforms. Callers may
// write through the returned slice (e.g. a Sample task filling it
// directly); doing so invalidates the cached global transforms.
func (p *Pose) LocalTransforms() []common.Transform {
	p.globalValid = false
	return p.local
}

// LocalTransform returns the local-space transform for bone idx.
func (p *Pose) LocalTransform(idx uint32) common.Transform {
	return p.local[idx]
}

// SetLocalTransform writes bone idx's local-space transform and
// invalidates the cached global transforms.
func (p *Pose) SetLocalTransform(idx uint32, t common.Transform) {
	p.local[idx] = t
	p.globalValid = false
}

// GlobalTransforms returns the character-space per-bone transforms,
// computing them from the local transforms on first access after a
// mutation and caching the result until the next mutation.
func (p *Pose) GlobalTransforms() []common.Transform {
	if !p.globalValid {
 p.skel.ComposeGlobal(p.local, p.global)
 p.globalValid = true
	}
	return p.global
}

// Reset reinitializes the pose to the given state's canonical contents:
// Reference copies the skeleton's reference pose, Zero fills every bone
// with the zero transform (all components zero, not identity — the
// neutral element under additive accumulation), Unset and Absolute leave
// the local array untouched but update the state tag (Absolute is the
// state a Sample/Blend task leaves a buffer in after writing it
// directly).
func (p *Pose) Reset(state State) {
	switch state {
	case Reference:
 copy(p.local, p.skel.ReferencePose())
	case Zero:
 zero := common.Transform{}
 for i := range p.local {
 p.local[i] = zero
 }
	}
	p.state = state
	p.globalValid = false
}

// MarkState updates the state tag without touching the local transforms,
// for call sites (task Execute methods) that have already written the
// pose's contents directly and only need to record what state that
// leaves it in.
func (p *Pose) MarkState(state State) {
	p.state = state
}

// CopyFrom deep-copies src's local transforms and state into p. p and src
// must share the same skeleton. This is the only sanctioned way to
// duplicate a Pose's contents — Go doesn't stop `*p = *src`, but that
// would also copy the noCopy marker and silently alias nothing beneath it
// wrongly; CopyFrom is the idiom every pose-consuming call site uses.
func (p *Pose) CopyFrom(src *Pose) error {
	if p.skel != src.skel {
 return fmt.Errorf("pose: CopyFrom skeleton mismatch (%d bones vs %d bones)", p.skel.NumBones(), src.skel.NumBones())
	}
	copy(p.local, src.local)
	p.state = src.state
	p.globalValid = false
	return nil
}
