package graph

import (
	"fmt"
	"log"

	"github.com/oxygraph/animgraph/pose"
	"github.com/oxygraph/animgraph/skeleton"
)

// Instantiate turns a Definition's immutable settings array into one set
// of mutable runtime nodes, ("the compiled definition is
// walked once at instance-construction time, in topological order, to
// build one runtime node per settings entry"). boneMasks resolves a
// BlendSettings.BoneMaskID to the engine-provided mask it names; a
// negative id or an id absent from the map degrades to no mask (// §7), with the latter logged.
// The walk starts at the root; entries the root does not reach are built
// afterwards, so every settings entry gets a runtime node.
//
// The recursive walk doubles as cycle detection: resolving a node that is
// still mid-resolution on the current call stack means the graph has a
// cycle, which is a construction-time fatal error rather
// than a runtime one.
func Instantiate(def *Definition, skel *skeleton.Skeleton, boneMasks map[int32]*pose.BoneMask) (PoseNode, []Node, error) {
	b := &builder{
 def: def,
 skel: skel,
 boneMasks: boneMasks,
 nodes: make([]Node, def.NumNodes()),
 visiting: make([]bool, def.NumNodes()),
	}
	root, err := b.resolvePose(def.RootIndex())
	if err != nil {
 return nil, nil, err
	}
	for idx := range b.nodes {
 if _, err := b.resolve(NodeIndex(idx)); err != nil {
 return nil, nil, err
 }
	}
	return root, b.nodes, nil
}

type builder struct {
	def *Definition
	skel *skeleton.Skeleton
	boneMasks map[int32]*pose.BoneMask

	nodes []Node
	visiting []bool
}

func (b *builder) resolve(idx NodeIndex) (Node, error) {
	if n := b.nodes[idx]; n != nil {
 return n, nil
	}
	if b.visiting[idx] {
 return nil, fmt.Errorf("node %d: %w", idx, ErrCycleDetected)
	}
	b.visiting[idx] = true
	defer func() { b.visiting[idx] = false }()

	n, err := b.build(idx)
	if err != nil {
 return nil, err
	}
	b.nodes[idx] = n
	return n, nil
}

func (b *builder) resolvePose(idx NodeIndex) (PoseNode, error) {
	if idx == InvalidIndex {
 return nil, nil
	}
	n, err := b.resolve(idx)
	if err != nil {
 return nil, err
	}
	pn, ok := n.(PoseNode)
	if !ok {
 return nil, fmt.Errorf("node %d: expected a pose node, got %T", idx, n)
	}
	return pn, nil
}

func (b *builder) resolveState(idx NodeIndex) (*stateNode, error) {
	pn, err := b.resolvePose(idx)
	if err != nil {
 return nil, err
	}
	sn, ok := pn.(*stateNode)
	if !ok {
 return nil, fmt.Errorf("node %d: expected a state node, got %T", idx, pn)
	}
	return sn, nil
}

func (b *builder) resolveBool(idx NodeIndex) (BoolValueNode, error) {
	if idx == InvalidIndex {
 return nil, nil
	}
	n, err := b.resolve(idx)
	if err != nil {
 return nil, err
	}
	vn, ok := n.(BoolValueNode)
	if !ok {
 return nil, fmt.Errorf("node %d: expected a bool value node, got %T", idx, n)
	}
	return vn, nil
}

func (b *builder) resolveFloat(idx NodeIndex) (FloatValueNode, error) {
	if idx == InvalidIndex {
 return nil, nil
	}
	n, err := b.resolve(idx)
	if err != nil {
 return nil, err
	}
	vn, ok := n.(FloatValueNode)
	if !ok {
 return nil, fmt.Errorf("node %d: expected a float value node, got %T", idx, n)
	}
	return vn, nil
}

func (b *builder) resolveID(idx NodeIndex) (IDValueNode, error) {
	if idx == InvalidIndex {
 return nil, nil
	}
	n, err := b.resolve(idx)
	if err != nil {
 return nil, err
	}
	vn, ok := n.(IDValueNode)
	if !ok {
 return nil, fmt.Errorf("node %d: expected an id value node, got %T", idx, n)
	}
	return vn, nil
}

func (b *builder) resolveVector(idx NodeIndex) (VectorValueNode, error) {
	if idx == InvalidIndex {
 return nil, nil
	}
	n, err := b.resolve(idx)
	if err != nil {
 return nil, err
	}
	vn, ok := n.(VectorValueNode)
	if !ok {
 return nil, fmt.Errorf("node %d: expected a vector value node, got %T", idx, n)
	}
	return vn, nil
}

func (b *builder) resolveBoneMask(id int32, owner NodeIndex) *pose.BoneMask {
	if id < 0 {
 return nil
	}
	if m, ok := b.boneMasks[id]; ok {
 return m
	}
	log.Printf("animgraph: node %d: bone mask id %d not registered, using no mask", owner, id)
	return nil
}

func (b *builder) build(idx NodeIndex) (Node, error) {
	settings := b.def.Settings(idx)

	switch v := settings.(type) {
	case ClipSettings:
 c := b.def.Dataset().GetClip(v.DataSlot)
 if c == nil {
 return nil, fmt.Errorf("node %d: clip data slot %d not found in dataset", idx, v.DataSlot)
 }
 return newClipNode(idx, v, c), nil

	case BlendSettings:
 source, err := b.resolvePose(v.Source)
 if err != nil {
 return nil, err
 }
 target, err := b.resolvePose(v.Target)
 if err != nil {
 return nil, err
 }
 weight, err := b.resolveFloat(v.Weight)
 if err != nil {
 return nil, err
 }
 mask := b.resolveBoneMask(v.BoneMaskID, idx)
 return newBlendNode(idx, source, target, weight, mask, v.Additive), nil

	case PassthroughSettings:
 child, err := b.resolvePose(v.Child)
 if err != nil {
 return nil, err
 }
 return newPassthroughNode(idx, child), nil

	case SpeedScaleSettings:
 child, err := b.resolvePose(v.Child)
 if err != nil {
 return nil, err
 }
 scale, err := b.resolveFloat(v.Scale)
 if err != nil {
 return nil, err
 }
 return newSpeedScaleNode(idx, child, v, scale), nil

	case RootMotionOverrideSettings:
 child, err := b.resolvePose(v.Child)
 if err != nil {
 return nil, err
 }
 headingVel, err := b.resolveVector(v.DesiredHeadingVelocity)
 if err != nil {
 return nil, err
 }
 maxVelNode, err := b.resolveFloat(v.MaxLinearVelocityNode)
 if err != nil {
 return nil, err
 }
 facing, err := b.resolveVector(v.DesiredFacing)
 if err != nil {
 return nil, err
 }
 return newRootMotionOverrideNode(idx, child, v, headingVel, maxVelNode, facing), nil

	case StateSettings:
 child, err := b.resolvePose(v.Child)
 if err != nil {
 return nil, err
 }
 return newStateNode(idx, child, v), nil

	case TransitionSettings:
 target, err := b.resolveState(v.TargetState)
 if err != nil {
 return nil, err
 }
 return newTransitionNode(idx, v, target), nil

	case StateMachineSettings:
 return b.buildStateMachine(idx, v)

	case ControlParameterBoolSettings:
 return newBoolControlParameterNode(idx, v), nil
	case ControlParameterFloatSettings:
 return newFloatControlParameterNode(idx, v), nil
	case ControlParameterIDSettings:
 return newIDControlParameterNode(idx, v), nil
	case ControlParameterVectorSettings:
 return newVectorControlParameterNode(idx, v), nil

	case LogicAndSettings:
 inputs, err := b.resolveBoolSlice(v.Inputs)
 if err != nil {
 return nil, err
 }
 return newLogicAndNode(idx, inputs), nil

	case LogicOrSettings:
 inputs, err := b.resolveBoolSlice(v.Inputs)
 if err != nil {
 return nil, err
 }
 return newLogicOrNode(idx, inputs), nil

	case LogicNotSettings:
 input, err := b.resolveBool(v.Input)
 if err != nil {
 return nil, err
 }
 return newLogicNotNode(idx, input), nil

	case FloatClampSettings:
 input, err := b.resolveFloat(v.Input)
 if err != nil {
 return nil, err
 }
 return newFloatClampNode(idx, v, input), nil

	case IDComparisonSettings:
 input, err := b.resolveID(v.Input)
 if err != nil {
 return nil, err
 }
 return newIDComparisonNode(idx, v, input), nil

	case EventConditionSettings:
 return newEventConditionNode(idx, v), nil
	}

	return nil, fmt.Errorf("node %d: unknown settings type %T", idx, settings)
}

func (b *builder) resolveBoolSlice(indices []NodeIndex) ([]BoolValueNode, error) {
	out := make([]BoolValueNode, 0, len(indices))
	for _, idx := range indices {
 vn, err := b.resolveBool(idx)
 if err != nil {
 return nil, err
 }
 out = append(out, vn)
	}
	return out, nil
}

// buildStateMachine resolves every state up front (each becomes one
// *stateNode in declared order), then groups the flat Transitions list by
// FromState into each state's outgoing edge list,
// "each state carries a list of outgoing transitions."
func (b *builder) buildStateMachine(idx NodeIndex, settings StateMachineSettings) (Node, error) {
	states := make([]*stateNode, len(settings.States))
	stateIndexOf := make(map[NodeIndex]int, len(settings.States))
	for i, stateIdx := range settings.States {
 sn, err := b.resolveState(stateIdx)
 if err != nil {
 return nil, err
 }
 states[i] = sn
 stateIndexOf[stateIdx] = i
	}

	outgoing := make([][]*stateMachineEdge, len(states))
	for _, tr := range settings.Transitions {
 fromIdx, ok := stateIndexOf[tr.FromState]
 if !ok {
 return nil, fmt.Errorf("node %d: transition references unknown source state %d", idx, tr.FromState)
 }
 condition, err := b.resolveBool(tr.Condition)
 if err != nil {
 return nil, err
 }
 target, err := b.resolveState(tr.TargetState)
 if err != nil {
 return nil, err
 }
 edge := &stateMachineEdge{
 settings: tr,
 condition: condition,
 node: newTransitionNode(idx, tr, target),
 }
 outgoing[fromIdx] = append(outgoing[fromIdx], edge)
	}

	initialIdx, ok := stateIndexOf[settings.InitialState]
	if !ok {
 return nil, fmt.Errorf("node %d: initial state %d not among states", idx, settings.InitialState)
	}

	return newStateMachineNode(idx, states, stateIndexOf, outgoing, initialIdx), nil
}
