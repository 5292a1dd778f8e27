package graph

import "fmt"

// idComparisonNode reads an ID value and compares it to a settings-declared
// ID, NotEqual flips the comparison, the (NEW) addition
// needed to express "not currently this state" conditions without a
// separate LogicNot wrapper for the common case.
type idComparisonNode struct {
	index NodeIndex
	settings IDComparisonSettings
	input IDValueNode
}

func newIDComparisonNode(idx NodeIndex, settings IDComparisonSettings, input IDValueNode) *idComparisonNode {
	return &idComparisonNode{index: idx, settings: settings, input: input}
}

func (n *idComparisonNode) Index() NodeIndex { return n.index }

func (n *idComparisonNode) Initialize(ctx *Context) error {
	if n.input == nil {
 return fmt.Errorf("node %d: %w", n.index, ErrNilRequiredChild)
	}
	return n.input.Initialize(ctx)
}

func (n *idComparisonNode) Shutdown(ctx *Context) { n.input.Shutdown(ctx) }

func (n *idComparisonNode) GetBool(ctx *Context) bool {
	equal := n.input.GetID(ctx) == n.settings.Compare
	if n.settings.NotEqual {
 return !equal
	}
	return equal
}
