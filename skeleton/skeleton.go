// Package skeleton describes the immutable bone hierarchy a Pose is shaped
// against. A Skeleton is shared, read-only, load-once data — the teacher's
// engine/model.Skeleton plays the same role for GPU skinning, generalized
// here with the topological invariant and reference-pose storage the
// animation graph core needs.
package skeleton

import (
	"fmt"

	"github.com/oxygraph/animgraph/common"
)

// InvalidIndex marks "no parent" (a root bone) or an absent optional index,
// matching the sentinel declares for the on-disk format
// (0xFFFF_FFFF as a u32).
const InvalidIndex uint32 = 0xFFFFFFFF

// Bone is one entry in a Skeleton's bone list.
type Bone struct {
	// Index is this bone's position in the skeleton's bone slice.
	Index uint32
	// ParentIndex is the parent bone's index, or InvalidIndex for a root bone.
	ParentIndex uint32
	// Name identifies the bone (for debugging and animation-track binding).
	Name string
}

// IsRoot reports whether this bone has no parent.
func (b Bone) IsRoot() bool {
	return b.ParentIndex == InvalidIndex
}

// Skeleton is an immutable, ordered list of bones in topological order:
// every bone's ParentIndex is strictly less than its own Index.
// It carries a reference pose (one local-space transform per bone) and the
// global reference pose derived from it.
type Skeleton struct {
	bones []Bone
	referencePose []common.Transform
	globalReferencePose []common.Transform
}

// New builds a Skeleton from bones (already in topological order) and their
// local-space reference-pose transforms. It validates the topological
// invariant and precomputes the global reference pose.
//
// Parameters:
// - bones: bone list, ordered so that ParentIndex < Index for every bone
// - referencePose: one local-space transform per bone, same length as bones
//
// Returns:
// - *Skeleton: the constructed skeleton
// - error: error if the topological invariant is violated or lengths mismatch
func New(bones []Bone, referencePose []common.Transform) (*Skeleton, error) {
	if len(bones) != len(referencePose) {
 return nil, fmt.Errorf("skeleton: bone count %d does not match reference pose length %d", len(bones), len(referencePose))
	}

	for i, b := range bones {
 if b.Index != uint32(i) {
 return nil, fmt.Errorf("skeleton: bone %d has inconsistent index %d", i, b.Index)
 }
 if !b.IsRoot() && b.ParentIndex >= uint32(i) {
 return nil, fmt.Errorf("skeleton: bone %d (%q) has parent index %d, which violates topological order", i, b.Name, b.ParentIndex)
 }
	}

	s := &Skeleton{
 bones: append([]Bone(nil), bones...),
 referencePose: append([]common.Transform(nil), referencePose...),
	}
	s.globalReferencePose = s.computeGlobalPose(s.referencePose)
	return s, nil
}

// computeGlobalPose composes local transforms down the (topologically
// ordered) hierarchy: since ParentIndex < Index always, a single forward
// pass suffices — the parent's global transform is already resolved by the
// time a child is visited.
func (s *Skeleton) computeGlobalPose(local []common.Transform) []common.Transform {
	global := make([]common.Transform, len(local))
	for i, b := range s.bones {
 if b.IsRoot() {
 global[i] = local[i]
 } else {
 global[i] = local[i].Mul(global[b.ParentIndex])
 }
	}
	return global
}

// NumBones returns the number of bones in the skeleton.
func (s *Skeleton) NumBones() int {
	return len(s.bones)
}

// Bone returns the bone at idx.
func (s *Skeleton) Bone(idx uint32) Bone {
	return s.bones[idx]
}

// Bones returns the full bone list. Callers must not mutate the result.
func (s *Skeleton) Bones() []Bone {
	return s.bones
}

// ReferencePose returns the local-space reference-pose transforms, one per
// bone. Callers must not mutate the result.
func (s *Skeleton) ReferencePose() []common.Transform {
	return s.referencePose
}

// GlobalReferencePose returns the character-space reference-pose transforms
// derived from ReferencePose. Callers must not mutate the result.
func (s *Skeleton) GlobalReferencePose() []common.Transform {
	return s.globalReferencePose
}

// BoneIndexByName performs a linear search for a bone by name, returning
// InvalidIndex if not found. Skeletons are load-once, small (tens to low
// hundreds of bones), and this is only used during asset ingestion, so a
// map index isn't worth the extra bookkeeping the teacher's
// engine/model.Skeleton.BoneNameToIndex carries for its hotter GPU-upload path.
func (s *Skeleton) BoneIndexByName(name string) uint32 {
	for _, b := range s.bones {
 if b.Name == name {
 return b.Index
 }
	}
	return InvalidIndex
}

// ComposeGlobal composes an arbitrary local-space pose (matching this
// skeleton's bone count) into character-space transforms, using the same
// single forward pass as computeGlobalPose. Used by pose.Pose's global
// transform cache.
func (s *Skeleton) ComposeGlobal(local []common.Transform, outGlobal []common.Transform) {
	for i, b := range s.bones {
 if b.IsRoot() {
 outGlobal[i] = local[i]
 } else {
 outGlobal[i] = local[i].Mul(outGlobal[b.ParentIndex])
 }
	}
}
