package graph

import "github.com/oxygraph/animgraph/common"

// boolControlParameterNode is a control-parameter leaf ValueNode: its value
// is never computed from other nodes, only written by
// Instance.SetParameterBool between Evaluate calls,
type boolControlParameterNode struct {
	index NodeIndex
	settings ControlParameterBoolSettings
	value bool
}

func newBoolControlParameterNode(idx NodeIndex, settings ControlParameterBoolSettings) *boolControlParameterNode {
	return &boolControlParameterNode{index: idx, settings: settings}
}

func (n *boolControlParameterNode) Index() NodeIndex { return n.index }
func (n *boolControlParameterNode) Initialize(ctx *Context) error { return nil }
func (n *boolControlParameterNode) Shutdown(ctx *Context) {}
func (n *boolControlParameterNode) GetBool(ctx *Context) bool { return n.value }
func (n *boolControlParameterNode) SetBool(v bool) { n.value = v }
func (n *boolControlParameterNode) Name() string { return n.settings.Name }

// floatControlParameterNode is the float analogue of
// boolControlParameterNode.
type floatControlParameterNode struct {
	index NodeIndex
	settings ControlParameterFloatSettings
	value float32
}

func newFloatControlParameterNode(idx NodeIndex, settings ControlParameterFloatSettings) *floatControlParameterNode {
	return &floatControlParameterNode{index: idx, settings: settings}
}

func (n *floatControlParameterNode) Index() NodeIndex { return n.index }
func (n *floatControlParameterNode) Initialize(ctx *Context) error { return nil }
func (n *floatControlParameterNode) Shutdown(ctx *Context) {}
func (n *floatControlParameterNode) GetFloat(ctx *Context) float32 { return n.value }
func (n *floatControlParameterNode) SetFloat(v float32) { n.value = v }
func (n *floatControlParameterNode) Name() string { return n.settings.Name }

// idControlParameterNode is the ID (64-bit hash) analogue of
// boolControlParameterNode.
type idControlParameterNode struct {
	index NodeIndex
	settings ControlParameterIDSettings
	value uint64
}

func newIDControlParameterNode(idx NodeIndex, settings ControlParameterIDSettings) *idControlParameterNode {
	return &idControlParameterNode{index: idx, settings: settings}
}

func (n *idControlParameterNode) Index() NodeIndex { return n.index }
func (n *idControlParameterNode) Initialize(ctx *Context) error { return nil }
func (n *idControlParameterNode) Shutdown(ctx *Context) {}
func (n *idControlParameterNode) GetID(ctx *Context) uint64 { return n.value }
func (n *idControlParameterNode) SetID(v uint64) { n.value = v }
func (n *idControlParameterNode) Name() string { return n.settings.Name }

// vectorControlParameterNode backs SetParameter<vec3>, rounding out the
// Bool/Float/ID control-parameter family with a vector-valued leaf.
type vectorControlParameterNode struct {
	index NodeIndex
	settings ControlParameterVectorSettings
	value common.Vec3
}

func newVectorControlParameterNode(idx NodeIndex, settings ControlParameterVectorSettings) *vectorControlParameterNode {
	return &vectorControlParameterNode{index: idx, settings: settings}
}

func (n *vectorControlParameterNode) Index() NodeIndex { return n.index }
func (n *vectorControlParameterNode) Initialize(ctx *Context) error { return nil }
func (n *vectorControlParameterNode) Shutdown(ctx *Context) {}
func (n *vectorControlParameterNode) GetVector(ctx *Context) common.Vec3 { return n.value }
func (n *vectorControlParameterNode) SetVector(v common.Vec3) { n.value = v }
func (n *vectorControlParameterNode) Name() string { return n.settings.Name }
