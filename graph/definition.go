package graph

import (
	"fmt"

	"github.com/oxygraph/animgraph/dataset"
	"github.com/oxygraph/animgraph/synctrack"
)

// NodeTag identifies which NodeSettings variant a node-table entry holds,
// and is the tag value written/read by format.go.
type NodeTag uint16

const (
	TagAnimationClip NodeTag = iota
	TagBlend
	TagPassthrough
	TagSpeedScale
	TagRootMotionOverride
	TagState
	TagTransition
	TagStateMachine
	TagControlParameterBool
	TagControlParameterFloat
	TagControlParameterID
	TagControlParameterVector
	TagLogicAnd
	TagLogicOr
	TagLogicNot
	TagFloatClamp
	TagIDComparison
	TagEventCondition
)

// NodeSettings is the compiled, immutable description of one node —
// analogous to the original's per-node serialized settings block read by
// GraphDefinition. An Instance turns each NodeSettings into exactly one
// runtime Node via instantiate.
type NodeSettings interface {
	Tag() NodeTag
}

// ClipSettings backs an AnimationClip leaf pose node: the dataset slot to
// sample and whether it loops.
type ClipSettings struct {
	DataSlot dataset.DataSlotIndex
	Loop bool
}

func (ClipSettings) Tag() NodeTag { return TagAnimationClip }

// BlendSettings backs a Blend pose node: its two children and the
// value-node driving the blend weight, plus an optional bone mask.
type BlendSettings struct {
	Source NodeIndex
	Target NodeIndex
	Weight NodeIndex // FloatValueNode
	BoneMaskID int32 // -1 for no mask; otherwise an engine-defined mask id
	Additive bool
}

func (BlendSettings) Tag() NodeTag { return TagBlend }

// PassthroughSettings backs a bare Passthrough pose node (used as a named
// entry point into a subgraph,).
type PassthroughSettings struct {
	Child NodeIndex
}

func (PassthroughSettings) Tag() NodeTag { return TagPassthrough }

// SpeedScaleSettings backs a SpeedScale pose node: the child, the
// value-node supplying the target scale factor, and the interpolation
// time effective_scale takes to catch up to it, A
// BlendTime of 0 applies the read scale immediately.
type SpeedScaleSettings struct {
	Child NodeIndex
	Scale NodeIndex // FloatValueNode
	BlendTime float32
}

func (SpeedScaleSettings) Tag() NodeTag { return TagSpeedScale }

// RootMotionOverrideFlags is the bit set names: which axes
// of the translation delta are overridden by heading velocity, and
// whether the delta's rotation is overridden to match a desired facing
// direction.
type RootMotionOverrideFlags uint8

const (
	OverrideHeadingX RootMotionOverrideFlags = 1 << iota
	OverrideHeadingY
	OverrideHeadingZ
	OverrideFacingX
	OverrideFacingY
	OverrideFacingZ
)

// HasHeadingOverride reports whether any translation axis is overridden.
func (f RootMotionOverrideFlags) HasHeadingOverride() bool {
	return f&(OverrideHeadingX|OverrideHeadingY|OverrideHeadingZ) != 0
}

// HasFacingOverride reports whether the rotation is overridden.
func (f RootMotionOverrideFlags) HasFacingOverride() bool {
	return f&(OverrideFacingX|OverrideFacingY|OverrideFacingZ) != 0
}

// RootMotionOverrideSettings backs a RootMotionOverride pose node, per
// this: the child, the override flag set, the value-node
// supplying the desired heading velocity, a max-linear-velocity budget
// (either a constant or a value-node, matching's "either a
// constant setting or read from a value-node"), and the value-node
// supplying the desired facing direction.
type RootMotionOverrideSettings struct {
	Child NodeIndex
	Flags RootMotionOverrideFlags
	DesiredHeadingVelocity NodeIndex // VectorValueNode
	MaxLinearVelocity float32 // used when MaxLinearVelocityNode == InvalidIndex
	MaxLinearVelocityNode NodeIndex // FloatValueNode, InvalidIndex to use the constant above
	DesiredFacing NodeIndex // VectorValueNode
}

func (RootMotionOverrideSettings) Tag() NodeTag { return TagRootMotionOverride }

// StateSettings backs one State node in a state machine: the pose subgraph
// it runs plus the entry/exit events it samples,
type StateSettings struct {
	Child NodeIndex
	EntryEvent string
	ExitEvent string
}

func (StateSettings) Tag() NodeTag { return TagState }

// TransitionSettings backs one Transition edge between two states, per
// this: the state it leaves from, the target state, the condition
// gating it, the blend duration, and whether it is synchronized.
// FromState addresses the StateSettings node this transition is an
// outgoing edge of describes transitions as owned by
// their source state ("each state carries a list of outgoing
// transitions"), which a flat per-machine transition list needs an
// explicit back-reference to reconstruct.
type TransitionSettings struct {
	FromState NodeIndex
	TargetState NodeIndex
	Condition NodeIndex // BoolValueNode
	Duration float32
	Synchronized bool
	ForceTransition bool // bypasses Condition, used for "immediate" edges
}

func (TransitionSettings) Tag() NodeTag { return TagTransition }

// StateMachineSettings backs a StateMachine pose node: its states, the
// transitions checked each update, and the initial state.
type StateMachineSettings struct {
	States []NodeIndex // each a StateSettings node
	Transitions []TransitionSettings
	InitialState NodeIndex
}

func (StateMachineSettings) Tag() NodeTag { return TagStateMachine }

// ControlParameterBoolSettings, *Float*, *ID*, *Vector* back the four
// control-parameter value-node leaves, addressed by name at bind time.
type ControlParameterBoolSettings struct{ Name string }

func (ControlParameterBoolSettings) Tag() NodeTag { return TagControlParameterBool }

type ControlParameterFloatSettings struct{ Name string }

func (ControlParameterFloatSettings) Tag() NodeTag { return TagControlParameterFloat }

type ControlParameterIDSettings struct{ Name string }

func (ControlParameterIDSettings) Tag() NodeTag { return TagControlParameterID }

type ControlParameterVectorSettings struct{ Name string }

func (ControlParameterVectorSettings) Tag() NodeTag { return TagControlParameterVector }

// LogicAndSettings, LogicOrSettings back the boolean combinator value
// nodes.
type LogicAndSettings struct{ Inputs []NodeIndex }

func (LogicAndSettings) Tag() NodeTag { return TagLogicAnd }

type LogicOrSettings struct{ Inputs []NodeIndex }

func (LogicOrSettings) Tag() NodeTag { return TagLogicOr }

// LogicNotSettings backs boolean negation.
type LogicNotSettings struct{ Input NodeIndex }

func (LogicNotSettings) Tag() NodeTag { return TagLogicNot }

// FloatClampSettings backs a float-range clamp value node.
type FloatClampSettings struct {
	Input NodeIndex
	Min, Max float32
}

func (FloatClampSettings) Tag() NodeTag { return TagFloatClamp }

// IDComparisonSettings backs an ID-equality boolean value node.
type IDComparisonSettings struct {
	Input NodeIndex
	Compare uint64
	NotEqual bool
}

func (IDComparisonSettings) Tag() NodeTag { return TagIDComparison }

// EventConditionSettings backs a boolean value node that is true when a
// named event was sampled (with at least the given weight) this update,
//
type EventConditionSettings struct {
	EventName string
	MinWeight float32
	OnlyDurable bool
}

func (EventConditionSettings) Tag() NodeTag { return TagEventCondition }

// Definition is the compiled, shareable description of an animation
// graph: every node's settings, the dataset of clips it samples from, and
// its root node. Many Instances can run the same Definition concurrently
// (— "many graph instances share one Definition").
type Definition struct {
	settings []NodeSettings
	dataset *dataset.Dataset
	root NodeIndex
}

// NewDefinition validates and builds a Definition. Every NodeIndex
// referenced by any settings entry (other than InvalidIndex in an
// optional slot) must address another entry in settings; root must be a
// valid index.
func NewDefinition(settings []NodeSettings, ds *dataset.Dataset, root NodeIndex) (*Definition, error) {
	if int(root) >= len(settings) {
 return nil, fmt.Errorf("graph: root index %d out of range (%d nodes)", root, len(settings))
	}
	for i, s := range settings {
 for _, ref := range childRefs(s) {
 if ref == InvalidIndex {
 continue
 }
 if int(ref) >= len(settings) {
 return nil, fmt.Errorf("graph: node %d references out-of-range child %d", i, ref)
 }
 }
	}
	return &Definition{settings: settings, dataset: ds, root: root}, nil
}

// childRefs extracts the child NodeIndex references a settings value
// carries, for validation at load time. Returning nil for an unrecognized
// type is deliberate — value-leaf settings with no child references
// (control parameters, event conditions) simply have none.
func childRefs(s NodeSettings) []NodeIndex {
	switch v := s.(type) {
	case BlendSettings:
 return []NodeIndex{v.Source, v.Target, v.Weight}
	case PassthroughSettings:
 return []NodeIndex{v.Child}
	case SpeedScaleSettings:
 return []NodeIndex{v.Child, v.Scale}
	case RootMotionOverrideSettings:
 return []NodeIndex{v.Child, v.DesiredHeadingVelocity, v.MaxLinearVelocityNode, v.DesiredFacing}
	case StateSettings:
 return []NodeIndex{v.Child}
	case TransitionSettings:
 return []NodeIndex{v.TargetState, v.Condition}
	case StateMachineSettings:
 refs := append([]NodeIndex(nil), v.States...)
 refs = append(refs, v.InitialState)
 for _, tr := range v.Transitions {
 refs = append(refs, tr.FromState, tr.TargetState, tr.Condition)
 }
 return refs
	case LogicAndSettings:
 return v.Inputs
	case LogicOrSettings:
 return v.Inputs
	case LogicNotSettings:
 return []NodeIndex{v.Input}
	case FloatClampSettings:
 return []NodeIndex{v.Input}
	case IDComparisonSettings:
 return []NodeIndex{v.Input}
	}
	return nil
}

// NumNodes returns the number of node-settings entries.
func (d *Definition) NumNodes() int { return len(d.settings) }

// Settings returns the settings for idx.
func (d *Definition) Settings(idx NodeIndex) NodeSettings { return d.settings[idx] }

// Dataset returns the clip dataset this definition samples from.
func (d *Definition) Dataset() *dataset.Dataset { return d.dataset }

// RootIndex returns the root pose node's index.
func (d *Definition) RootIndex() NodeIndex { return d.root }

// defaultSyncTrack holds synctrack.Default under a package-local name.
// Nothing in the package reads it: the node files that need the
// one-event fallback track use synctrack.Default directly.
var defaultSyncTrack = synctrack.Default
