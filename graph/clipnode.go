package graph

import (
	"fmt"

	"github.com/oxygraph/animgraph/clip"
	"github.com/oxygraph/animgraph/event"
	"github.com/oxygraph/animgraph/graph/task"
	"github.com/oxygraph/animgraph/synctrack"
)

// clipNode is the AnimationClip leaf pose node: it samples one clip from
// the bound dataset and registers a SampleTask each update.
type clipNode struct {
	index NodeIndex
	settings ClipSettings
	clip *clip.Clip

	currentTime float32
	previousTime float32
	loopCount uint32
}

func newClipNode(idx NodeIndex, settings ClipSettings, c *clip.Clip) *clipNode {
	return &clipNode{index: idx, settings: settings, clip: c}
}

func (n *clipNode) Index() NodeIndex { return n.index }

func (n *clipNode) Initialize(ctx *Context, initialTime synctrack.Time) error {
	if n.clip == nil {
 return fmt.Errorf("node %d: clip data slot %d not resolved", n.index, n.settings.DataSlot)
	}
	n.previousTime = 0
	n.currentTime = synctrack.Default.GetPercentageThrough(initialTime) * n.clip.Duration()
	n.loopCount = 0
	return nil
}

func (n *clipNode) Shutdown(ctx *Context) {}

func (n *clipNode) Update(ctx *Context) (PoseNodeResult, error) {
	n.previousTime = n.currentTime
	dt := ctx.DeltaTime
	n.currentTime += dt
	if n.settings.Loop && n.clip.Duration() > 0 {
 for n.currentTime >= n.clip.Duration() {
 n.currentTime -= n.clip.Duration()
 n.loopCount++
 }
	} else if n.currentTime > n.clip.Duration() {
 n.currentTime = n.clip.Duration()
	}
	return n.sample(ctx)
}

func (n *clipNode) UpdateSynced(ctx *Context, tr synctrack.TimeRange) (PoseNodeResult, error) {
	n.previousTime = synctrack.Default.GetPercentageThrough(tr.Begin) * n.clip.Duration()
	n.currentTime = synctrack.Default.GetPercentageThrough(tr.End) * n.clip.Duration()
	n.loopCount = tr.End.EventIndex - tr.Begin.EventIndex
	return n.sample(ctx)
}

func (n *clipNode) sample(ctx *Context) (PoseNodeResult, error) {
	st := task.NewSampleTask(n.clip, ctx.Skeleton, n.currentTime)
	taskIdx := ctx.Tasks.Register(st)
	ctx.TrackActiveNode(n.index)

	delta := n.clip.RootMotionDeltaAt(n.currentTime)
	ctx.RecordRootMotion(delta)

	events := sampleClipEvents(ctx, n.clip, n.previousTime, n.currentTime, n.loopCount > 0)

	return PoseNodeResult{TaskIndex: taskIdx, RootMotionDelta: delta, Events: events}, nil
}

// sampleClipEvents is a placeholder hook where named-event sampling from
// embedded clip event tracks would attach; clip leaves currently contribute
// no events of their own, only State nodes do via their entry/exit events.
func sampleClipEvents(ctx *Context, c *clip.Clip, prevTime, curTime float32, looped bool) event.Range {
	return event.Range{}
}

func (n *clipNode) DeactivateBranch(ctx *Context) {}

func (n *clipNode) Duration() float32 { return n.clip.Duration() }

// CurrentTime and PreviousTime report the normalized percentage-through
// the clip (0..1), per the pose-node time contract, not the seconds
// n.currentTime/n.previousTime are tracked in internally for sampling and
// loop accounting.
func (n *clipNode) CurrentTime() float32 {
	if n.clip.Duration() <= 0 {
 return 0
	}
	return n.currentTime / n.clip.Duration()
}

func (n *clipNode) PreviousTime() float32 {
	if n.clip.Duration() <= 0 {
 return 0
	}
	return n.previousTime / n.clip.Duration()
}

func (n *clipNode) LoopCount() uint32 { return n.loopCount }
func (n *clipNode) SyncTrack() synctrack.Track { return synctrack.Default }
