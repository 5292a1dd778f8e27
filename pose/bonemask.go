package pose

import "github.com/oxygraph/animgraph/skeleton"

// BoneMask is a float weight per skeleton bone, used to scale per-bone
// blend weights. A nil *BoneMask means uniform weight 1 everywhere — the
// "no bone mask" silent sentinel calls for. Grounded on
// original_source/.../bone_mask.hpp, completed here and pooled per
// graph.Context ("a mask is a scratch resource from a
// per-instance pool; treat as a scoped borrow that returns to the pool on
// drop").
type BoneMask struct {
	weights []float32
}

// NewBoneMask allocates a bone mask sized for skel, with every weight
// initialized to 1.0 (uniform).
func NewBoneMask(skel *skeleton.Skeleton) *BoneMask {
	n := skel.NumBones()
	w := make([]float32, n)
	for i := range w {
 w[i] = 1
	}
	return &BoneMask{weights: w}
}

// Weight returns the weight for bone idx, or 1.0 if m is nil (uniform
// weight, the "no mask" sentinel).
func (m *BoneMask) Weight(idx uint32) float32 {
	if m == nil {
 return 1
	}
	if int(idx) >= len(m.weights) {
 return 1
	}
	return m.weights[idx]
}

// SetWeight writes the weight for bone idx.
func (m *BoneMask) SetWeight(idx uint32, w float32) {
	m.weights[idx] = w
}

// Reset fills every weight with the given value, preparing a pooled mask
// for reuse without reallocating.
func (m *BoneMask) Reset(value float32) {
	for i := range m.weights {
 m.weights[i] = value
	}
}

// CopyFrom overwrites m's weights with src's, clamping to the shorter
// length if the two masks were built against different skeletons —
// the "bone-mask length mismatch: clamp to min, log a warning".
// Logging is the caller's responsibility (Pool.Acquire's callers
// sit inside graph.Context, which owns the logger); this method reports
// whether it had to clamp so the caller can log.
func (m *BoneMask) CopyFrom(src *BoneMask) (clamped bool) {
	n := len(m.weights)
	if len(src.weights) < n {
 n = len(src.weights)
 clamped = true
	}
	copy(m.weights[:n], src.weights[:n])
	return clamped
}

// Pool is a per-instance pool of BoneMask scratch resources. Masks are
// scoped borrows: Acquire hands one out, Release returns it (reset to
// uniform) for reuse.
type Pool struct {
	skel *skeleton.Skeleton
	free []*BoneMask
}

// NewPool creates an empty bone-mask pool for skel; masks are allocated
// lazily on first Acquire.
func NewPool(skel *skeleton.Skeleton) *Pool {
	return &Pool{skel: skel}
}

// Acquire returns a BoneMask reset to uniform weight, reusing a
// previously released mask if one is available.
func (p *Pool) Acquire() *BoneMask {
	if n := len(p.free); n > 0 {
 m := p.free[n-1]
 p.free = p.free[:n-1]
 m.Reset(1)
 return m
	}
	return NewBoneMask(p.skel)
}

// Release returns m to the pool for later reuse. Passing nil is a no-op,
// matching the "nil mask is valid and means uniform" convention.
func (p *Pool) Release(m *BoneMask) {
	if m == nil {
 return
	}
	p.free = append(p.free, m)
}
