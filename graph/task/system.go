package task

import (
	"fmt"

	"github.com/oxygraph/animgraph/pose"
)

// Context carries everything a Task's Execute needs: the buffer pool and
// the buffer indices its dependencies produced. It is the Go analogue of
// the original's TaskContext.
type Context struct {
	pool *Pool
	dependencies []BufferIndex
	selfIndex uint32
}

// GetNewPoseBuffer acquires a fresh buffer owned by the task currently
// executing, growing the pool if needed.
func (c *Context) GetNewPoseBuffer() (BufferIndex, *pose.Pose) {
	return c.pool.Acquire(c.selfIndex)
}

// AccessDependencyPoseBuffer reads dependency i's output buffer without
// changing its ownership.
func (c *Context) AccessDependencyPoseBuffer(i int) *pose.Pose {
	return c.pool.At(c.dependencies[i])
}

// TransferDependencyPoseBuffer takes ownership of dependency i's buffer,
// reassigning it to the currently executing task.
func (c *Context) TransferDependencyPoseBuffer(i int) (BufferIndex, *pose.Pose) {
	idx := c.dependencies[i]
	c.pool.Transfer(idx, c.selfIndex)
	return idx, c.pool.At(idx)
}

// ReleaseDependencyPoseBuffer returns dependency i's buffer to the pool.
func (c *Context) ReleaseDependencyPoseBuffer(i int) {
	c.pool.Release(c.dependencies[i])
}

// NumDependencies reports how many dependency buffers this task was
// registered with.
func (c *Context) NumDependencies() int {
	return len(c.dependencies)
}

// Task is an atomic deferred pose operation with typed dependencies on
// other tasks' output buffers,
type Task interface {
	// Execute runs the task's pose math using ctx, leaving its result in
	// the buffer it claims ownership of via GetNewPoseBuffer or
	// TransferDependencyPoseBuffer.
	Execute(ctx *Context) error
	// OutputBuffer returns the buffer index this task's result lives in;
	// only valid after Execute has run.
	OutputBuffer() BufferIndex
}

// System owns one character's registered task DAG for the current frame:
// the ordered task list (already topologically sorted during the
// pose-node walk, — "the task list is a DAG built during
// the pose-node walk") and the pose-buffer pool tasks draw from.
//
// Dependencies are recorded as task indices at Register time, not buffer
// indices: a task's output buffer index is only assigned when it
// executes, so a caller assembling dependencies ahead of time has no
// buffer index to give. Execute resolves each dependency's buffer lazily,
// right before running the task that needs it, which is always possible
// because registration order is topological — the pose-node walk that
// registers tasks is itself post-order, so a task can only depend on
// tasks already registered (and, by the time Execute reaches it, already
// run).
type System struct {
	pool *Pool
	tasks []Task
	deps [][]Index
}

// NewSystem creates a task system backed by pool.
func NewSystem(pool *Pool) *System {
	return &System{pool: pool}
}

// Pool returns the buffer pool backing this system.
func (s *System) Pool() *Pool {
	return s.pool
}

// Reset discards all registered tasks, preparing the system for a new
// frame. Any buffers left owned by discarded tasks are NOT implicitly
// released here — Instance.Evaluate returns buffers to the pool itself:
// it releases the final output buffer once copied out, and releases every
// buffer after a failed Execute.
func (s *System) Reset() {
	s.tasks = s.tasks[:0]
	s.deps = s.deps[:0]
}

// Register appends t to the task list along with the task indices it
// depends on (in AccessDependencyPoseBuffer/TransferDependencyPoseBuffer
// order), returning its own index for later tasks to depend on in turn.
// Every entry in deps must be < the returned index.
func (s *System) Register(t Task, deps...Index) Index {
	s.tasks = append(s.tasks, t)
	s.deps = append(s.deps, append([]Index(nil), deps...))
	return uint32(len(s.tasks) - 1)
}

// Execute runs every registered task in registration order, resolving
// each task's recorded dependency indices to the buffers those tasks
// produced.
func (s *System) Execute() error {
	for i, t := range s.tasks {
 deps := s.deps[i]
 bufs := make([]BufferIndex, len(deps))
 for j, d := range deps {
 if int(d) >= i {
 return fmt.Errorf("task: task %d declares dependency %d which has not run yet", i, d)
 }
 bufs[j] = s.tasks[d].OutputBuffer()
 }
 ctx := &Context{pool: s.pool, dependencies: bufs, selfIndex: uint32(i)}
 if err := t.Execute(ctx); err != nil {
 return fmt.Errorf("task: executing task %d: %w", i, err)
 }
	}
	return nil
}

// NumTasks returns how many tasks are currently registered this frame.
func (s *System) NumTasks() int {
	return len(s.tasks)
}

// OutputBuffer returns the buffer index task idx produced. Only valid
// after Execute has run idx.
func (s *System) OutputBuffer(idx Index) BufferIndex {
	return s.tasks[idx].OutputBuffer()
}
