package graph

import "fmt"

// floatClampNode reads an input float and clamps it to [min, max] from
// settings,
type floatClampNode struct {
	index NodeIndex
	settings FloatClampSettings
	input FloatValueNode
}

func newFloatClampNode(idx NodeIndex, settings FloatClampSettings, input FloatValueNode) *floatClampNode {
	return &floatClampNode{index: idx, settings: settings, input: input}
}

func (n *floatClampNode) Index() NodeIndex { return n.index }

func (n *floatClampNode) Initialize(ctx *Context) error {
	if n.input == nil {
 return fmt.Errorf("node %d: %w", n.index, ErrNilRequiredChild)
	}
	return n.input.Initialize(ctx)
}

func (n *floatClampNode) Shutdown(ctx *Context) { n.input.Shutdown(ctx) }

func (n *floatClampNode) GetFloat(ctx *Context) float32 {
	v := n.input.GetFloat(ctx)
	if v < n.settings.Min {
 return n.settings.Min
	}
	if v > n.settings.Max {
 return n.settings.Max
	}
	return v
}
