package graph

import "fmt"

// logicAndNode is the BoolAnd value node: true iff every input is true.
// Grounded on original_source's logic-combinator headers; lazily cached per
// ctx.UpdateID the way describes for value nodes generally.
type logicAndNode struct {
	index NodeIndex
	inputs []BoolValueNode

	cachedUpdateID uint32
	cachedValue bool
	hasCached bool
}

func newLogicAndNode(idx NodeIndex, inputs []BoolValueNode) *logicAndNode {
	return &logicAndNode{index: idx, inputs: inputs}
}

func (n *logicAndNode) Index() NodeIndex { return n.index }

func (n *logicAndNode) Initialize(ctx *Context) error {
	if len(n.inputs) == 0 {
 return fmt.Errorf("node %d: %w", n.index, ErrNilRequiredChild)
	}
	for _, in := range n.inputs {
 if err := in.Initialize(ctx); err != nil {
 return err
 }
	}
	n.hasCached = false
	return nil
}

func (n *logicAndNode) Shutdown(ctx *Context) {
	for _, in := range n.inputs {
 in.Shutdown(ctx)
	}
}

func (n *logicAndNode) GetBool(ctx *Context) bool {
	if n.hasCached && n.cachedUpdateID == ctx.UpdateID {
 return n.cachedValue
	}
	result := true
	for _, in := range n.inputs {
 if !in.GetBool(ctx) {
 result = false
 break
 }
	}
	n.cachedValue = result
	n.cachedUpdateID = ctx.UpdateID
	n.hasCached = true
	return result
}

// logicOrNode is the BoolOr value node: true iff any input is true.
type logicOrNode struct {
	index NodeIndex
	inputs []BoolValueNode

	cachedUpdateID uint32
	cachedValue bool
	hasCached bool
}

func newLogicOrNode(idx NodeIndex, inputs []BoolValueNode) *logicOrNode {
	return &logicOrNode{index: idx, inputs: inputs}
}

func (n *logicOrNode) Index() NodeIndex { return n.index }

func (n *logicOrNode) Initialize(ctx *Context) error {
	if len(n.inputs) == 0 {
 return fmt.Errorf("node %d: %w", n.index, ErrNilRequiredChild)
	}
	for _, in := range n.inputs {
 if err := in.Initialize(ctx); err != nil {
 return err
 }
	}
	n.hasCached = false
	return nil
}

func (n *logicOrNode) Shutdown(ctx *Context) {
	for _, in := range n.inputs {
 in.Shutdown(ctx)
	}
}

func (n *logicOrNode) GetBool(ctx *Context) bool {
	if n.hasCached && n.cachedUpdateID == ctx.UpdateID {
 return n.cachedValue
	}
	result := false
	for _, in := range n.inputs {
 if in.GetBool(ctx) {
 result = true
 break
 }
	}
	n.cachedValue = result
	n.cachedUpdateID = ctx.UpdateID
	n.hasCached = true
	return result
}

// logicNotNode is the BoolNot value node: negates a single input.
type logicNotNode struct {
	index NodeIndex
	input BoolValueNode
}

func newLogicNotNode(idx NodeIndex, input BoolValueNode) *logicNotNode {
	return &logicNotNode{index: idx, input: input}
}

func (n *logicNotNode) Index() NodeIndex { return n.index }

func (n *logicNotNode) Initialize(ctx *Context) error {
	if n.input == nil {
 return fmt.Errorf("node %d: %w", n.index, ErrNilRequiredChild)
	}
	return n.input.Initialize(ctx)
}

func (n *logicNotNode) Shutdown(ctx *Context) { n.input.Shutdown(ctx) }

func (n *logicNotNode) GetBool(ctx *Context) bool { return !n.input.GetBool(ctx) }
