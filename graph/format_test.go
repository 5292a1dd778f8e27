package graph

import (
	"bytes"
	"testing"

	"github.com/oxygraph/animgraph/clip"
	"github.com/oxygraph/animgraph/dataset"
)

func TestDefinitionRoundTripsThroughBinaryFormat(t *testing.T) {
	idle := clip.New("idle", 1.0, 30, []clip.Track{{}})
	ds := dataset.New([]*clip.Clip{idle})

	settings := []NodeSettings{
 ClipSettings{DataSlot: 0, Loop: true},
 ControlParameterFloatSettings{Name: "speed"},
 BlendSettings{Source: 0, Target: 0, Weight: 1, BoneMaskID: -1},
	}
	def, err := NewDefinition(settings, ds, 2)
	if err != nil {
 t.Fatalf("NewDefinition: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeDefinition(&buf, def, 42, []uint64{7}); err != nil {
 t.Fatalf("EncodeDefinition: %v", err)
	}

	resolved := map[uint64]*clip.Clip{7: idle}
	got, err := DecodeDefinition(&buf, func(id uint64) (*clip.Clip, error) {
 return resolved[id], nil
	})
	if err != nil {
 t.Fatalf("DecodeDefinition: %v", err)
	}

	if got.NumNodes() != 3 {
 t.Fatalf("NumNodes = %d, want 3", got.NumNodes())
	}
	if got.RootIndex() != 2 {
 t.Fatalf("RootIndex = %d, want 2", got.RootIndex())
	}
	if got.Dataset().NumClips() != 1 || got.Dataset().GetClip(0) != idle {
 t.Fatalf("dataset did not round trip")
	}
	cs, ok := got.Settings(0).(ClipSettings)
	if !ok || !cs.Loop || cs.DataSlot != 0 {
 t.Fatalf("ClipSettings round trip = %+v", got.Settings(0))
	}
	cp, ok := got.Settings(1).(ControlParameterFloatSettings)
	if !ok || cp.Name != "speed" {
 t.Fatalf("ControlParameterFloatSettings round trip = %+v", got.Settings(1))
	}
	bs, ok := got.Settings(2).(BlendSettings)
	if !ok || bs.BoneMaskID != -1 || bs.Weight != 1 {
 t.Fatalf("BlendSettings round trip = %+v", got.Settings(2))
	}
}

func TestDecodeDefinitionRejectsBadMagic(t *testing.T) {
	_, err := DecodeDefinition(bytes.NewReader([]byte("xxxx")), nil)
	if err == nil {
 t.Fatal("expected error for bad magic")
	}
}
