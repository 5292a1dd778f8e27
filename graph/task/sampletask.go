package task

import (
	"github.com/oxygraph/animgraph/clip"
	"github.com/oxygraph/animgraph/pose"
	"github.com/oxygraph/animgraph/skeleton"
)

// SampleTask produces a fresh pose buffer by sampling a clip at a given
// time in seconds,: "Sample: produces a fresh pose
// buffer by sampling clip.GetPose(percent * clip.duration, &out)." The
// percent-to-seconds conversion happens at the call site (clipnode.go),
// not here. timeAt is a plain float32 that SampleTask and clip.GetPose both
// read as seconds; no distinct type guards the unit, so a percentage passed
// by mistake still compiles.
type SampleTask struct {
	clip *clip.Clip
	skel *skeleton.Skeleton
	timeAt float32 // seconds

	outputBuffer BufferIndex
}

// NewSampleTask builds a task that will sample clip at timeAtSeconds
// seconds when executed.
func NewSampleTask(c *clip.Clip, skel *skeleton.Skeleton, timeAtSeconds float32) *SampleTask {
	return &SampleTask{clip: c, skel: skel, timeAt: timeAtSeconds, outputBuffer: InvalidIndex}
}

// Execute samples the clip into a freshly acquired buffer.
func (t *SampleTask) Execute(ctx *Context) error {
	idx, p := ctx.GetNewPoseBuffer()
	if err := t.clip.GetPose(t.timeAt, p, t.skel); err != nil {
 return err
	}
	p.MarkState(pose.Absolute)
	t.outputBuffer = idx
	return nil
}

// OutputBuffer returns the buffer index the sampled pose was written
// into.
func (t *SampleTask) OutputBuffer() BufferIndex {
	return t.outputBuffer
}
