package graph

import (
	"log"

	"github.com/oxygraph/animgraph/common"
	"github.com/oxygraph/animgraph/event"
	"github.com/oxygraph/animgraph/graph/task"
	"github.com/oxygraph/animgraph/pose"
	"github.com/oxygraph/animgraph/skeleton"
)

// BranchState indicates whether the currently visited subtree is about
// to be discarded (affects event-sampling flags),
type BranchState int

const (
	// Active means the subtree being walked will contribute to this
	// frame's final pose.
	Active BranchState = iota
	// Inactive means the subtree is being abandoned (e.g. a losing
	// transition source) and its sampled events must be flagged
	// FromInactiveBranch.
	Inactive
)

// Context carries exactly the fields lists: the target
// skeleton, the previous-frame pose, the delta time, the current world
// transform and its inverse, the sampled-events buffer, an update_id
// counter, the current branch state, the bone-mask pool, and (debug only,
// gated by the Debug flag rather than a build tag — see SPEC_FULL.md §4.5)
// an active-node tracker and root-motion action recorder.
type Context struct {
	Skeleton *skeleton.Skeleton
	PreviousPose *pose.Pose
	DeltaTime float32
	WorldTransform common.Transform
	WorldTransformInverse common.Transform

	Events *event.Buffer
	UpdateID uint32
	Branch BranchState
	BoneMasks *pose.Pool

	Tasks *task.System

	// Debug enables the active-node tracker and root-motion action
	// recorder, gated by a runtime flag rather than a build tag, since Go
	// has no #ifndef NDEBUG equivalent that fits optional instrumentation
	// this cheaply.
	Debug bool
	activeNodes []NodeIndex
	rootMotionLog []common.Transform
}

// NewContext builds a Context for one instance, wired to its task system
// and bone-mask pool. dt and worldTransform are set by the first Update
// call.
func NewContext(skel *skeleton.Skeleton, tasks *task.System, boneMasks *pose.Pool, debug bool) *Context {
	return &Context{
 Skeleton: skel,
 Events: event.NewBuffer(16),
 BoneMasks: boneMasks,
 Tasks: tasks,
 Debug: debug,
	}
}

// Update resets the per-frame portions of the context at the start of
// every Evaluate call, ("Reset at the start of every
// Evaluate").
func (c *Context) Update(dt float32, worldTransform common.Transform, previousPose *pose.Pose) {
	c.DeltaTime = dt
	c.WorldTransform = worldTransform
	c.WorldTransformInverse = worldTransform.Inverse()
	c.PreviousPose = previousPose
	c.Events.Reset()
	c.UpdateID++
	c.Branch = Active
	if c.Debug {
 c.activeNodes = c.activeNodes[:0]
 c.rootMotionLog = c.rootMotionLog[:0]
	}
}

// TrackActiveNode records idx as active this update, when Debug is
// enabled; a no-op otherwise.
func (c *Context) TrackActiveNode(idx NodeIndex) {
	if !c.Debug {
 return
	}
	c.activeNodes = append(c.activeNodes, idx)
}

// ActiveNodes returns the nodes tracked as active so far this update.
// Empty unless Debug is enabled.
func (c *Context) ActiveNodes() []NodeIndex {
	return c.activeNodes
}

// RecordRootMotion appends t to the debug root-motion action log, when
// Debug is enabled; a no-op otherwise.
func (c *Context) RecordRootMotion(t common.Transform) {
	if !c.Debug {
 return
	}
	c.rootMotionLog = append(c.rootMotionLog, t)
}

// RootMotionLog returns the root-motion deltas recorded so far this
// update. Empty unless Debug is enabled.
func (c *Context) RootMotionLog() []common.Transform {
	return c.rootMotionLog
}

// LogWarning logs a degrade-gracefully condition (SpeedScale
// invoked synchronously, parameter name not found). Uses stdlib log,
// never a structured logger; the SpeedScale warning is the only one
// emitted during Evaluate.
func (c *Context) LogWarning(format string, args...any) {
	log.Printf("animgraph: "+format, args...)
}
