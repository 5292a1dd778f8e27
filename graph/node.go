// Package graph implements the runtime animation graph: the definition/
// instance split, the pose-node evaluation protocol, the state-machine/
// transition/blend node family, and the value-node family that drives
// control-parameter and logic evaluation.
//
// Grounded on original_source/src/anim/include/anim/graph/*.hpp — almost
// entirely stub/TODO headers — completed and
// re-architected: a NodeIndex-addressed arena instead of
// the leaked-raw-pointer CreateNode pattern the original documents as a
// known bug, and single-level PoseNode/ValueNode interfaces instead of
// the PoseNode <- Passthrough <- State inheritance chain.
package graph

import (
	"fmt"

	"github.com/oxygraph/animgraph/common"
	"github.com/oxygraph/animgraph/event"
	"github.com/oxygraph/animgraph/graph/task"
	"github.com/oxygraph/animgraph/synctrack"
)

// NodeIndex addresses one node within a Definition's settings array and
// an Instance's parallel runtime-node array. InvalidIndex marks an
// unresolved/optional reference.
type NodeIndex = uint32

// InvalidIndex is the sentinel for "no node" — an optional child slot
// that was never wired, matching the on-disk format's InvalidIndex and
// skeleton.InvalidIndex.
const InvalidIndex NodeIndex = 0xFFFFFFFF

// Node is implemented by every runtime node, pose or value.
type Node interface {
	// Index returns this node's position in the instance's runtime-node
	// array, the same index used to address it from settings.
	Index() NodeIndex
}

// PoseNodeResult is what a PoseNode's Update call reports: the task
// handle its registered tasks can be found under (InvalidIndex meaning
// "no pose change this frame, reuse previous"), the root-motion delta
// for this update, and the range of events sampled during it.
type PoseNodeResult struct {
	TaskIndex task.Index
	RootMotionDelta common.Transform
	Events event.Range
}

// HasRegisteredTasks reports whether this result registered any tasks.
func (r PoseNodeResult) HasRegisteredTasks() bool {
	return r.TaskIndex != task.InvalidIndex
}

// noTasksResult is the canonical "nothing changed" result: identity root
// motion, no tasks, empty event range.
func noTasksResult() PoseNodeResult {
	return PoseNodeResult{TaskIndex: task.InvalidIndex, RootMotionDelta: common.IdentityTransform}
}

// PoseNode is the single-level interface every pose-node variant
// implements — AnimationClip, Blend, Passthrough, State, Transition,
// StateMachine, SpeedScale, RootMotionOverride — replacing the original's
// PoseNode <- Passthrough <- State inheritance chain.
type PoseNode interface {
	Node

	// Initialize prepares the node (and, recursively, its children) for
	// evaluation starting at initialTime.
	Initialize(ctx *Context, initialTime synctrack.Time) error
	// Shutdown tears the node (and its children) down after the instance
	// is done with it.
	Shutdown(ctx *Context)

	// Update is the unsynchronized evaluation path.
	Update(ctx *Context) (PoseNodeResult, error)
	// UpdateSynced is the synchronized evaluation path; the
	// caller dictates the sync-track time range this node's update must
	// cover.
	UpdateSynced(ctx *Context, timeRange synctrack.TimeRange) (PoseNodeResult, error)
	// DeactivateBranch prunes this (about-to-be-discarded) subtree; nodes
	// in it still sample events but flag them FromInactiveBranch.
	DeactivateBranch(ctx *Context)

	Duration() float32
	CurrentTime() float32
	PreviousTime() float32
	LoopCount() uint32
	SyncTrack() synctrack.Track
}

// ValueNode is the single-level interface every value-node variant
// implements. Typed access happens through the Bool/Float/ID/Vector
// value-node interfaces below rather than a generic GetValue[T] — Go has
// no legal way to type-check a generic method against a runtime tag the
// way the original's ValueTypeValidation<T> does, so the type itself is
// the check.
type ValueNode interface {
	Node
	Initialize(ctx *Context) error
	Shutdown(ctx *Context)
}

// BoolValueNode is a ValueNode producing a bool.
type BoolValueNode interface {
	ValueNode
	GetBool(ctx *Context) bool
}

// FloatValueNode is a ValueNode producing a float32.
type FloatValueNode interface {
	ValueNode
	GetFloat(ctx *Context) float32
}

// IDValueNode is a ValueNode producing a 64-bit ID hash.
type IDValueNode interface {
	ValueNode
	GetID(ctx *Context) uint64
}

// VectorValueNode is a ValueNode producing a 3-vector — the (NEW)
// control-parameter type added to back SetParameter<vec3>.
type VectorValueNode interface {
	ValueNode
	GetVector(ctx *Context) common.Vec3
}

// passthroughMixin is the reusable Passthrough behavior shared by
// State, SpeedScale, and RootMotionOverride nodes: a plain struct
// embedded by value, not an interface, replacing the original's
// PoseNode <- Passthrough <- State inheritance chain. Each
// embedder calls update/initialize/shutdown and then layers its
// own behavior on top of the returned result.
type passthroughMixin struct {
	index NodeIndex
	child PoseNode

	duration float32
	currentTime float32
	previousTime float32
	loopCount uint32
}

func (m *passthroughMixin) Index() NodeIndex { return m.index }

func (m *passthroughMixin) Duration() float32 { return m.duration }
func (m *passthroughMixin) CurrentTime() float32 { return m.currentTime }
func (m *passthroughMixin) PreviousTime() float32 { return m.previousTime }
func (m *passthroughMixin) LoopCount() uint32 { return m.loopCount }
func (m *passthroughMixin) SyncTrack() synctrack.Track {
	if m.child == nil {
 return synctrack.Default
	}
	return m.child.SyncTrack()
}

func (m *passthroughMixin) initialize(ctx *Context, initialTime synctrack.Time) error {
	if m.child == nil {
 return fmt.Errorf("node %d: %w", m.index, ErrNilRequiredChild)
	}
	if err := m.child.Initialize(ctx, initialTime); err != nil {
 return err
	}
	m.adoptChildTiming()
	return nil
}

func (m *passthroughMixin) shutdown(ctx *Context) {
	if m.child != nil {
 m.child.Shutdown(ctx)
	}
}

func (m *passthroughMixin) update(ctx *Context) (PoseNodeResult, error) {
	if m.child == nil {
 return PoseNodeResult{}, fmt.Errorf("node %d: %w", m.index, ErrNilRequiredChild)
	}
	result, err := m.child.Update(ctx)
	if err != nil {
 return PoseNodeResult{}, err
	}
	m.adoptChildTiming()
	return result, nil
}

func (m *passthroughMixin) updateSynced(ctx *Context, tr synctrack.TimeRange) (PoseNodeResult, error) {
	if m.child == nil {
 return PoseNodeResult{}, fmt.Errorf("node %d: %w", m.index, ErrNilRequiredChild)
	}
	result, err := m.child.UpdateSynced(ctx, tr)
	if err != nil {
 return PoseNodeResult{}, err
	}
	m.adoptChildTiming()
	return result, nil
}

func (m *passthroughMixin) adoptChildTiming() {
	m.duration = m.child.Duration()
	m.currentTime = m.child.CurrentTime()
	m.previousTime = m.child.PreviousTime()
	m.loopCount = m.child.LoopCount()
}

func (m *passthroughMixin) deactivateBranch(ctx *Context) {
	if m.child != nil {
 m.child.DeactivateBranch(ctx)
	}
}
