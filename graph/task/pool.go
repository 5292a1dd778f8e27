// Package task implements the deferred pose operation system: pose
// buffers, the pool they're drawn from, and the Task variants (Sample,
// Blend, and the additive/layer-combine extensions) that a pose-node walk
// registers instead of doing pose math inline.
//
// Grounded on original_source/src/anim/include/anim/graph/task.hpp,
// pose_buffer_pool.hpp, and task_system.hpp — all stub/TODO headers in
// the original — completed here fully worked
// invariants.
package task

import (
	"github.com/oxygraph/animgraph/pose"
	"github.com/oxygraph/animgraph/skeleton"
)

// InvalidIndex marks an unowned buffer or an unresolved task/buffer
// index.
const InvalidIndex uint32 = 0xFFFFFFFF

// BufferIndex addresses one buffer in a Pool.
type BufferIndex = uint32

// Index addresses one task within a System's registered task list.
type Index = uint32

// initialPoolSize is the "(c) the average peak
// concurrent-buffer count per character is ≈5, so the pool starts at 5".
const initialPoolSize = 5

// buffer is an owned pose plus the task index that currently holds it;
// owner == InvalidIndex marks a free buffer, "Pose
// Buffer: an owned Pose plus an owner: TaskIndex slot."
type buffer struct {
	owner uint32
	pose *pose.Pose
}

// Pool is a per-instance pool of pose buffers. It starts at
// initialPoolSize and grows by doubling when every buffer is in use,
// matching's invariant (c). Buffers are never shrunk; the
// peak size reached during a character's lifetime is its steady-state
// footprint.
type Pool struct {
	skel *skeleton.Skeleton
	buffers []buffer
}

// NewPool allocates a pool of initialPoolSize buffers shaped for skel.
func NewPool(skel *skeleton.Skeleton) *Pool {
	p := &Pool{skel: skel}
	p.buffers = make([]buffer, initialPoolSize)
	for i := range p.buffers {
 p.buffers[i] = buffer{owner: InvalidIndex, pose: pose.New(skel)}
	}
	return p
}

// Acquire returns the index and pose of the first free buffer, marking it
// owned by owner. If every buffer is in use, the pool doubles in size
// first (invariant (c)).
func (p *Pool) Acquire(owner uint32) (BufferIndex, *pose.Pose) {
	for i := range p.buffers {
 if p.buffers[i].owner == InvalidIndex {
 p.buffers[i].owner = owner
 return uint32(i), p.buffers[i].pose
 }
	}

	grown := len(p.buffers) * 2
	for len(p.buffers) < grown {
 p.buffers = append(p.buffers, buffer{owner: InvalidIndex, pose: pose.New(p.skel)})
	}
	for i := range p.buffers {
 if p.buffers[i].owner == InvalidIndex {
 p.buffers[i].owner = owner
 return uint32(i), p.buffers[i].pose
 }
	}
	panic("task: pool doubled but no free buffer found, this is a bug")
}

// At returns the pose stored at idx without affecting ownership — this is
// what AccessDependencyPoseBuffer calls through to.
func (p *Pool) At(idx BufferIndex) *pose.Pose {
	return p.buffers[idx].pose
}

// Owner returns the task index that currently owns the buffer at idx, or
// InvalidIndex if it's free.
func (p *Pool) Owner(idx BufferIndex) uint32 {
	return p.buffers[idx].owner
}

// Transfer changes the owner of the buffer at idx to newOwner.
func (p *Pool) Transfer(idx BufferIndex, newOwner uint32) {
	p.buffers[idx].owner = newOwner
}

// Release marks the buffer at idx free.
func (p *Pool) Release(idx BufferIndex) {
	p.buffers[idx].owner = InvalidIndex
}

// NumFree reports how many buffers are currently unowned. After a
// successful Instance.Evaluate it equals Len: the output is copied into the
// instance's own pose and its buffer released, so no buffer stays owned
// between frames.
func (p *Pool) NumFree() int {
	n := 0
	for i := range p.buffers {
 if p.buffers[i].owner == InvalidIndex {
 n++
 }
	}
	return n
}

// Len returns the current number of buffers in the pool (initial size
// plus any doublings).
func (p *Pool) Len() int {
	return len(p.buffers)
}
