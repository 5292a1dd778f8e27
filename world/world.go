// Package world is a multi-instance batch driver: graph.Instance values may
// be evaluated concurrently since they only share an immutable Definition
// and Dataset, but the instances themselves provide no concurrency driver.
// World supplies one: a persistent worker.DynamicWorkerPool from
// github.com/Carmen-Shannon/automation/tools/worker, paired with a
// per-tick sync.WaitGroup barrier rather than pool.Wait, since Wait blocks
// until the pool's workers idle-exit, which doesn't fit a frame-rate-driven
// tick.
package world

import (
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/oxygraph/animgraph/common"
	"github.com/oxygraph/animgraph/graph"
)

// Option configures a World at construction time, following the same
// functional-option idiom as scene.SceneBuilderOption and
// animator.AnimatorBuilderOption.
type Option func(*World)

// WithWorkers overrides the worker-pool size. Defaults to
// max(runtime.NumCPU-1, 1), matching scene.NewScene's default.
func WithWorkers(n int) Option {
	return func(w *World) {
 if n < 1 {
 n = 1
 }
 w.workers = n
	}
}

// WithQueueSize overrides the worker pool's task queue capacity. Defaults
// to 256, matching scene.NewScene's compute pool.
func WithQueueSize(n int) Option {
	return func(w *World) {
 if n < 1 {
 n = 1
 }
 w.queueSize = n
	}
}

// TickResult is one registered instance's outcome for a Tick call.
type TickResult struct {
	ID uint64
	Result graph.EvaluationResult
	Err error
}

// World holds a registry of graph.Instance values and evaluates all of
// them once per Tick, fanned out across a reusable worker pool. It never
// shares mutable state across instances — only the read-only
// Definition/Dataset each Instance already holds — preserving // §5's sharing contract.
type World struct {
	mu sync.RWMutex
	instances map[uint64]*graph.Instance
	nextID uint64

	workers int
	queueSize int
	pool worker.DynamicWorkerPool
}

// New constructs a World and starts its worker pool.
func New(opts...Option) *World {
	w := &World{
 instances: make(map[uint64]*graph.Instance),
 nextID: 1,
 workers: max(runtime.NumCPU()-1, 1),
 queueSize: 256,
	}
	for _, opt := range opts {
 opt(w)
	}
	w.pool = worker.NewDynamicWorkerPool(w.workers, w.queueSize, 1*time.Second)
	return w
}

// Register adds an instance to the world's registry and returns the id
// future Tick/Unregister calls address it by.
func (w *World) Register(inst *graph.Instance) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.instances[id] = inst
	return id
}

// Unregister removes an instance from the registry. It does not call
// Instance.Shutdown — callers that want that must call it themselves
// before or after Unregister.
func (w *World) Unregister(id uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.instances, id)
}

// Count returns the number of currently registered instances.
func (w *World) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.instances)
}

// Instance looks up a registered instance by id, for callers (the debug
// package's inspector routes) that need to read its debug-only
// introspection (ActiveNodes/RootMotionLog) outside of a Tick.
func (w *World) Instance(id uint64) (*graph.Instance, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	inst, ok := w.instances[id]
	return inst, ok
}

// IDs returns the ids of every currently registered instance, in no
// particular order.
func (w *World) IDs() []uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]uint64, 0, len(w.instances))
	for id := range w.instances {
 ids = append(ids, id)
	}
	return ids
}

// Tick evaluates every registered instance once, in parallel across the
// worker pool, with dt seconds elapsed. worldTransforms supplies each
// instance's root world transform by id; an id missing from the map
// evaluates with common.IdentityTransform. Tick blocks until every
// instance for this tick has been evaluated (the WaitGroup barrier), then
// returns one TickResult per instance in no particular order. A non-nil
// Err on a result is already logged once here, at the goroutine boundary,
// matching the teacher's handleRender panic-recovery logging — callers
// that need finer-grained handling can still inspect Err themselves.
func (w *World) Tick(dt float32, worldTransforms map[uint64]common.Transform) []TickResult {
	w.mu.RLock()
	ids := make([]uint64, 0, len(w.instances))
	instances := make([]*graph.Instance, 0, len(w.instances))
	for id, inst := range w.instances {
 ids = append(ids, id)
 instances = append(instances, inst)
	}
	w.mu.RUnlock()

	results := make([]TickResult, len(ids))
	var wg sync.WaitGroup
	for i := range ids {
 wg.Add(1)
 i, id, inst := i, ids[i], instances[i]
 transform := common.IdentityTransform
 if t, ok := worldTransforms[id]; ok {
 transform = t
 }
 w.pool.SubmitTask(worker.Task{
 ID: i,
 Do: func() (any, error) {
 defer wg.Done()
 res, err := inst.Evaluate(dt, transform)
 if err != nil {
 log.Printf("world: instance %d: %v", id, err)
 }
 results[i] = TickResult{ID: id, Result: res, Err: err}
 return nil, nil
 },
 })
	}
	wg.Wait()
	return results
}
