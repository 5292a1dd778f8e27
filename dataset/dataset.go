// Package dataset implements the Animation Graph Dataset: a flat list of
// animation-clip handles indexed by data-slot index, resolved once at
// graph-instance construction time.
package dataset

import "github.com/oxygraph/animgraph/clip"

// DataSlotIndex addresses one clip handle within a Dataset.
type DataSlotIndex = uint32

// InvalidSlot marks an unresolved data-slot reference.
const InvalidSlot DataSlotIndex = 0xFFFFFFFF

// Dataset is an immutable, shared list of clips, addressed by data-slot
// index from an AnimationClip node's settings. Construction is out of
// scope for the core (— "asset ingestion... beyond the bytes
// the core reads"); the core only ever looks clips up by slot.
type Dataset struct {
	clips []*clip.Clip
}

// New builds a Dataset from an already-decoded clip list, in data-slot
// order (clips[i] is addressed by slot index i).
func New(clips []*clip.Clip) *Dataset {
	return &Dataset{clips: append([]*clip.Clip(nil), clips...)}
}

// NumClips returns the number of clip handles in the dataset.
func (d *Dataset) NumClips() int {
	return len(d.clips)
}

// GetClip resolves a data-slot index to its clip, or nil if the slot is
// InvalidSlot or out of range.
func (d *Dataset) GetClip(slot DataSlotIndex) *clip.Clip {
	if slot == InvalidSlot || int(slot) >= len(d.clips) {
 return nil
	}
	return d.clips[slot]
}
