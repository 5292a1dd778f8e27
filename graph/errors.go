package graph

import "errors"

// Fatal-error sentinels. ErrCycleDetected is returned, wrapped, by
// NewInstance when the node graph has a cycle. ErrNilRequiredChild (from
// Initialize or Evaluate) and ErrUnsynchronizedBlend (from Evaluate) are
// wrapped with the node index; when Evaluate fails it discards the frame's
// registered tasks and returns the previous-frame pose alongside the
// wrapped error. ErrSkeletonMismatch is not returned by anything in this
// module: a pose/clip bone-count mismatch reaches the caller of Evaluate
// as the clip package's own error, not wrapped in this sentinel.
var (
	ErrCycleDetected = errors.New("graph: cycle detected in node graph")
	ErrNilRequiredChild = errors.New("graph: required child node is nil")
	ErrUnsynchronizedBlend = errors.New("graph: blend node driven unsynchronized")
	ErrSkeletonMismatch = errors.New("graph: skeleton mismatch between pose and clip")
)
