package graph

import (
	"github.com/oxygraph/animgraph/synctrack"
)

// passthroughNode is a bare Passthrough pose node: a named, addressable
// entry point into a subgraph that otherwise does nothing but delegate,
// and original_source's passthrough_node.hpp.
type passthroughNode struct {
	passthroughMixin
}

func newPassthroughNode(idx NodeIndex, child PoseNode) *passthroughNode {
	n := &passthroughNode{}
	n.index = idx
	n.child = child
	return n
}

func (n *passthroughNode) Initialize(ctx *Context, initialTime synctrack.Time) error {
	return n.initialize(ctx, initialTime)
}

func (n *passthroughNode) Shutdown(ctx *Context) { n.shutdown(ctx) }

func (n *passthroughNode) Update(ctx *Context) (PoseNodeResult, error) {
	return n.update(ctx)
}

func (n *passthroughNode) UpdateSynced(ctx *Context, tr synctrack.TimeRange) (PoseNodeResult, error) {
	return n.updateSynced(ctx, tr)
}

func (n *passthroughNode) DeactivateBranch(ctx *Context) { n.deactivateBranch(ctx) }
