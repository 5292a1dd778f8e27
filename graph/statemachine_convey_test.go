package graph

import (
	"testing"

. "github.com/smartystreets/goconvey/convey"

	"github.com/oxygraph/animgraph/common"
	"github.com/oxygraph/animgraph/synctrack"
)

// buildThreeStateMachine wires idle -> run (gated) and run -> jump (forced),
// mirroring the interruption scenario describes: a transition
// already in flight toward run is itself interrupted by a forced transition
// off of run before it ever becomes the active state.
func buildThreeStateMachine(t *testing.T) (*stateMachineNode, *gateNode, *stateNode, *stateNode, *stateNode) {
	t.Helper()
	idleClip := smTestClipNode(0, 1)
	runClip := smTestClipNode(1, 2)
	jumpClip := smTestClipNode(2, 3)
	idle := newStateNode(3, idleClip, StateSettings{Child: idleClip})
	run := newStateNode(4, runClip, StateSettings{Child: runClip})
	jump := newStateNode(5, jumpClip, StateSettings{Child: jumpClip})

	toRun := &gateNode{index: 6}
	idleToRun := &stateMachineEdge{
 settings: TransitionSettings{FromState: 3, TargetState: 4, Condition: 6, Duration: 1.0},
 condition: toRun,
 node: newTransitionNode(7, TransitionSettings{FromState: 3, TargetState: 4, Duration: 1.0}, run),
	}
	runToJump := &stateMachineEdge{
 settings: TransitionSettings{FromState: 4, TargetState: 5, Duration: 0.1, ForceTransition: true},
 condition: &gateNode{index: 8, open: false},
 node: newTransitionNode(9, TransitionSettings{FromState: 4, TargetState: 5, Duration: 0.1}, jump),
	}

	states := []*stateNode{idle, run, jump}
	stateIndexOf := map[NodeIndex]int{3: 0, 4: 1, 5: 2}
	outgoing := [][]*stateMachineEdge{{idleToRun}, {runToJump}, nil}
	sm := newStateMachineNode(10, states, stateIndexOf, outgoing, 0)
	return sm, toRun, idle, run, jump
}

func TestStateMachineTransitionArbitration(t *testing.T) {
	Convey("Given a state machine idling with a gated transition to run and a forced transition from run to jump", t, func() {
 skel := smTestSkeleton(t)
 ctx := smTestContext(t, skel)
 sm, toRun, idle, run, jump := buildThreeStateMachine(t)

 So(sm.Initialize(ctx, synctrack.Time{}), ShouldBeNil)
 So(idle.isActive, ShouldBeTrue)

 Convey("When the condition to run fires", func() {
 toRun.open = true
 ctx.Update(1.0/30.0, common.IdentityTransform, nil)
 _, err := sm.Update(ctx)
 So(err, ShouldBeNil)

 Convey("A transition into run starts immediately, entering run and exiting idle, with progress already advanced this frame", func() {
 So(sm.ActiveTransitionProgress(), ShouldAlmostEqual, float32(1.0/30.0), 0.0001)
 So(run.isActive, ShouldBeTrue)
 So(idle.isActive, ShouldBeFalse)
 })

 Convey("And the force transition off of run fires before the idle->run transition completes", func() {
 ctx.Update(1.0/30.0, common.IdentityTransform, nil)
 _, err := sm.Update(ctx)
 So(err, ShouldBeNil)

 Convey("The in-flight idle->run transition is discarded in favor of run->jump", func() {
 So(sm.activeTransition, ShouldNotBeNil)
 So(sm.activeTransition.Target(), ShouldEqual, jump)
 })

 Convey("Run, the interrupted transition's target, becomes the new transition's source directly, not the discarded transition object", func() {
 So(sm.activeTransition.source, ShouldEqual, run)
 })

 Convey("Idle stays exited — it was already Exit'd the moment the idle->run transition began, and the interruption doesn't revive it", func() {
 So(idle.isActive, ShouldBeFalse)
 })

 Convey("Advancing past the short jump transition's duration settles the state machine on jump", func() {
 for i := 0; i < 10; i++ {
 ctx.Update(1.0/30.0, common.IdentityTransform, nil)
 _, err := sm.Update(ctx)
 So(err, ShouldBeNil)
 }
 So(sm.ActiveTransitionProgress(), ShouldEqual, float32(-1))
 So(sm.ActiveStateIndex(), ShouldEqual, jump.Index())
 })
 })
 })

 Convey("When the condition to run never fires", func() {
 ctx.Update(1.0/30.0, common.IdentityTransform, nil)
 _, err := sm.Update(ctx)
 So(err, ShouldBeNil)

 Convey("The state machine stays in idle with no transition running", func() {
 So(sm.ActiveStateIndex(), ShouldEqual, idle.Index())
 So(sm.ActiveTransitionProgress(), ShouldEqual, float32(-1))
 })
 })
	})
}
