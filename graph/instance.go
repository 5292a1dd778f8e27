package graph

import (
	"fmt"

	"github.com/oxygraph/animgraph/common"
	"github.com/oxygraph/animgraph/event"
	"github.com/oxygraph/animgraph/graph/task"
	"github.com/oxygraph/animgraph/pose"
	"github.com/oxygraph/animgraph/skeleton"
	"github.com/oxygraph/animgraph/synctrack"
)

// EvaluationResult is what Instance.Evaluate hands back: the resulting
// pose (owned by the Instance — callers must not mutate it, and it is
// only valid until the next Evaluate call), the root-motion delta
// accumulated this update, and the events sampled this update (also
// only valid until the next Evaluate call),
type EvaluationResult struct {
	Pose *pose.Pose
	RootMotionDelta common.Transform
	Events []event.SampledEvent
}

// namedValueNode is implemented by every control-parameter leaf; Instance
// uses it to build the name->index lookup SetParameter* callers need,
// without hard-coding the four control-parameter types here.
type namedValueNode interface {
	Name() string
}

// InstanceOption configures a Instance at construction time, the same
// functional-option idiom used elsewhere in the codebase for builder-style setup.
type InstanceOption func(*instanceConfig)

type instanceConfig struct {
	boneMasks map[int32]*pose.BoneMask
	debug bool
}

// WithBoneMasks registers the engine-provided bone masks a graph's Blend
// nodes may reference by BoneMaskID. Omitting an id a graph references
// degrades to no mask, logged once at construction.
func WithBoneMasks(masks map[int32]*pose.BoneMask) InstanceOption {
	return func(c *instanceConfig) { c.boneMasks = masks }
}

// WithDebug enables the Context's active-node tracker and root-motion
// action log, off by default since it costs an allocation
// per frame.
func WithDebug(enabled bool) InstanceOption {
	return func(c *instanceConfig) { c.debug = enabled }
}

// Instance is one character's mutable runtime graph: a Definition
// instantiated into runtime nodes, bound to a concrete skeleton, with its
// own task system, bone-mask pool, and control-parameter values. Many
// Instances may share one Definition.
type Instance struct {
	def *Definition
	skel *skeleton.Skeleton

	root PoseNode
	nodes []Node

	paramIndex map[string]NodeIndex

	pool *task.Pool
	tasks *task.System
	ctx *Context

	previousPose *pose.Pose
	initialized bool
}

// NewInstance instantiates def against skel,
func NewInstance(def *Definition, skel *skeleton.Skeleton, opts...InstanceOption) (*Instance, error) {
	cfg := &instanceConfig{}
	for _, opt := range opts {
 opt(cfg)
	}

	root, nodes, err := Instantiate(def, skel, cfg.boneMasks)
	if err != nil {
 return nil, fmt.Errorf("graph: instantiating definition: %w", err)
	}

	pool := task.NewPool(skel)
	tasks := task.NewSystem(pool)
	boneMaskPool := pose.NewPool(skel)
	ctx := NewContext(skel, tasks, boneMaskPool, cfg.debug)

	paramIndex := make(map[string]NodeIndex)
	for i, n := range nodes {
 if named, ok := n.(namedValueNode); ok {
 paramIndex[named.Name()] = NodeIndex(i)
 }
	}

	previousPose := pose.New(skel)
	previousPose.Reset(pose.Reference)

	return &Instance{
 def: def,
 skel: skel,
 root: root,
 nodes: nodes,
 paramIndex: paramIndex,
 pool: pool,
 tasks: tasks,
 ctx: ctx,
 previousPose: previousPose,
	}, nil
}

// Initialize prepares every node for evaluation starting at initialTime,
// Must be called once before the first Evaluate.
func (i *Instance) Initialize(initialTime synctrack.Time) error {
	i.ctx.Update(0, common.IdentityTransform, i.previousPose)
	if err := i.root.Initialize(i.ctx, initialTime); err != nil {
 return fmt.Errorf("graph: initializing instance: %w", err)
	}
	i.initialized = true
	return nil
}

// Shutdown tears down every node, releasing whatever resources they hold.
func (i *Instance) Shutdown() {
	if !i.initialized {
 return
	}
	i.root.Shutdown(i.ctx)
}

// GetParameterIndex resolves a control parameter's name to the node index
// SetParameter* calls address it by. An unknown name logs a warning and
// returns (InvalidIndex, false). SetParameter* calls take the index, not
// the name, so a caller resolves each name once and keeps the index.
func (i *Instance) GetParameterIndex(name string) (NodeIndex, bool) {
	idx, ok := i.paramIndex[name]
	if !ok {
		i.ctx.LogWarning("parameter %q not found", name)
		return InvalidIndex, false
	}
	return idx, true
}

// SetParameterBool writes a bool control parameter's value, read back by
// the graph on its next Evaluate. Returns an error if idx doesn't
// address a bool control parameter.
func (i *Instance) SetParameterBool(idx NodeIndex, v bool) error {
	n, ok := i.nodeAt(idx)
	if !ok {
 return fmt.Errorf("graph: parameter index %d out of range", idx)
	}
	p, ok := n.(*boolControlParameterNode)
	if !ok {
 return fmt.Errorf("graph: parameter %d is not a bool control parameter", idx)
	}
	p.SetBool(v)
	return nil
}

// SetParameterFloat is the float analogue of SetParameterBool.
func (i *Instance) SetParameterFloat(idx NodeIndex, v float32) error {
	n, ok := i.nodeAt(idx)
	if !ok {
 return fmt.Errorf("graph: parameter index %d out of range", idx)
	}
	p, ok := n.(*floatControlParameterNode)
	if !ok {
 return fmt.Errorf("graph: parameter %d is not a float control parameter", idx)
	}
	p.SetFloat(v)
	return nil
}

// SetParameterID is the ID analogue of SetParameterBool.
func (i *Instance) SetParameterID(idx NodeIndex, v uint64) error {
	n, ok := i.nodeAt(idx)
	if !ok {
 return fmt.Errorf("graph: parameter index %d out of range", idx)
	}
	p, ok := n.(*idControlParameterNode)
	if !ok {
 return fmt.Errorf("graph: parameter %d is not an id control parameter", idx)
	}
	p.SetID(v)
	return nil
}

// SetParameterVector is the vec3 analogue of SetParameterBool.
func (i *Instance) SetParameterVector(idx NodeIndex, v common.Vec3) error {
	n, ok := i.nodeAt(idx)
	if !ok {
 return fmt.Errorf("graph: parameter index %d out of range", idx)
	}
	p, ok := n.(*vectorControlParameterNode)
	if !ok {
 return fmt.Errorf("graph: parameter %d is not a vector control parameter", idx)
	}
	p.SetVector(v)
	return nil
}

func (i *Instance) nodeAt(idx NodeIndex) (Node, bool) {
	if int(idx) >= len(i.nodes) {
 return nil, false
	}
	return i.nodes[idx], true
}

// Evaluate drives one frame: walks the pose-node tree from the root,
// executes the resulting task DAG, and returns the final pose, per
// On a fatal error (— cycle detected,
// nil required child, unsynchronized Blend, skeleton mismatch), any
// partially registered tasks this frame are discarded and the
// previous-frame pose is returned alongside the wrapped error, so a
// caller that ignores the error still gets a valid (if stale) pose to
// render.
func (i *Instance) Evaluate(dt float32, worldTransform common.Transform) (EvaluationResult, error) {
	i.tasks.Reset()
	i.ctx.Update(dt, worldTransform, i.previousPose)

	result, err := i.root.Update(i.ctx)
	if err != nil {
 i.tasks.Reset()
 return EvaluationResult{Pose: i.previousPose, RootMotionDelta: common.IdentityTransform}, fmt.Errorf("graph: evaluating instance: %w", err)
	}

	if err := i.tasks.Execute(); err != nil {
 i.tasks.Reset()
 for b := 0; b < i.pool.Len(); b++ {
 i.pool.Release(task.BufferIndex(b))
 }
 return EvaluationResult{Pose: i.previousPose, RootMotionDelta: common.IdentityTransform}, fmt.Errorf("graph: evaluating instance: %w", err)
	}

	events := i.ctx.Events.Slice(result.Events)

	if !result.HasRegisteredTasks() {
 return EvaluationResult{Pose: i.previousPose, RootMotionDelta: result.RootMotionDelta, Events: events}, nil
	}

	outBuf := i.tasks.OutputBuffer(result.TaskIndex)
	outPose := i.pool.At(outBuf)
	if err := i.previousPose.CopyFrom(outPose); err != nil {
 i.pool.Release(outBuf)
 return EvaluationResult{Pose: i.previousPose, RootMotionDelta: common.IdentityTransform}, fmt.Errorf("graph: evaluating instance: %w", err)
	}
	i.pool.Release(outBuf)

	return EvaluationResult{Pose: i.previousPose, RootMotionDelta: result.RootMotionDelta, Events: events}, nil
}

// ActiveNodes returns the nodes the last Evaluate walked as active, when
// constructed with WithDebug(true); empty otherwise.
func (i *Instance) ActiveNodes() []NodeIndex { return i.ctx.ActiveNodes() }

// RootMotionLog returns the per-node root-motion deltas recorded during
// the last Evaluate, when constructed with WithDebug(true); empty
// otherwise.
func (i *Instance) RootMotionLog() []common.Transform { return i.ctx.RootMotionLog() }

// Definition returns the shared Definition this instance was built from.
func (i *Instance) Definition() *Definition { return i.def }
