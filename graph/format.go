package graph

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/oxygraph/animgraph/clip"
	"github.com/oxygraph/animgraph/dataset"
)

// On-disk format, little-endian throughout:
//
//	magic "agdf" | u32 version | dataset handle | u32 node count | node table
//
// dataset handle:
//
//	magic "agds" | u64 asset id | u32 clip count | clip count * u64 asset id
//
// node table entry:
//
//	u16 tag | u16 reserved | variant payload (tag-dependent)
var (
	definitionMagic = [4]byte{'a', 'g', 'd', 'f'}
	datasetMagic = [4]byte{'a', 'g', 'd', 's'}
)

const formatVersion uint32 = 1

// ClipResolver resolves a clip's asset id (as referenced by a dataset
// handle) to a loaded clip. Asset loading is out of scope for the core
//; the core only consumes the resolved result.
type ClipResolver func(assetID uint64) (*clip.Clip, error)

// DecodeDefinition reads a Definition from its bit-exact on-disk form.
// resolve is used to turn the dataset handle's clip asset ids into actual
// clips.
func DecodeDefinition(r io.Reader, resolve ClipResolver) (*Definition, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
 return nil, fmt.Errorf("graph: reading definition magic: %w", err)
	}
	if magic != definitionMagic {
 return nil, fmt.Errorf("graph: bad definition magic %q", magic)
	}
	var version uint32
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
 return nil, fmt.Errorf("graph: reading definition version: %w", err)
	}
	if version != formatVersion {
 return nil, fmt.Errorf("graph: unsupported definition version %d", version)
	}

	ds, err := decodeDatasetHandle(br, resolve)
	if err != nil {
 return nil, err
	}

	var nodeCount uint32
	if err := binary.Read(br, binary.LittleEndian, &nodeCount); err != nil {
 return nil, fmt.Errorf("graph: reading node count: %w", err)
	}

	settings := make([]NodeSettings, nodeCount)
	for i := range settings {
 s, err := decodeNode(br)
 if err != nil {
 return nil, fmt.Errorf("graph: decoding node %d: %w", i, err)
 }
 settings[i] = s
	}

	var root uint32
	if err := binary.Read(br, binary.LittleEndian, &root); err != nil {
 return nil, fmt.Errorf("graph: reading root index: %w", err)
	}

	return NewDefinition(settings, ds, root)
}

func decodeDatasetHandle(r io.Reader, resolve ClipResolver) (*dataset.Dataset, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
 return nil, fmt.Errorf("graph: reading dataset magic: %w", err)
	}
	if magic != datasetMagic {
 return nil, fmt.Errorf("graph: bad dataset magic %q", magic)
	}
	var assetID uint64
	if err := binary.Read(r, binary.LittleEndian, &assetID); err != nil {
 return nil, fmt.Errorf("graph: reading dataset asset id: %w", err)
	}
	var clipCount uint32
	if err := binary.Read(r, binary.LittleEndian, &clipCount); err != nil {
 return nil, fmt.Errorf("graph: reading dataset clip count: %w", err)
	}
	clips := make([]*clip.Clip, clipCount)
	for i := range clips {
 var clipAssetID uint64
 if err := binary.Read(r, binary.LittleEndian, &clipAssetID); err != nil {
 return nil, fmt.Errorf("graph: reading clip asset id %d: %w", i, err)
 }
 c, err := resolve(clipAssetID)
 if err != nil {
 return nil, fmt.Errorf("graph: resolving clip asset %d: %w", clipAssetID, err)
 }
 clips[i] = c
	}
	return dataset.New(clips), nil
}

func readString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
 return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
 return "", err
	}
	return string(buf), nil
}

func readNodeIndex(r io.Reader) (NodeIndex, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readFloat32(r io.Reader) (float32, error) {
	var v float32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readBool(r io.Reader) (bool, error) {
	var v uint8
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
 return false, err
	}
	return v != 0, nil
}

func decodeNode(r io.Reader) (NodeSettings, error) {
	var tag, reserved uint16
	if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
 return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &reserved); err != nil {
 return nil, err
	}

	switch NodeTag(tag) {
	case TagAnimationClip:
 var slot uint32
 if err := binary.Read(r, binary.LittleEndian, &slot); err != nil {
 return nil, err
 }
 loop, err := readBool(r)
 if err != nil {
 return nil, err
 }
 return ClipSettings{DataSlot: slot, Loop: loop}, nil

	case TagBlend:
 src, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 tgt, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 weight, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 var maskID int32
 if err := binary.Read(r, binary.LittleEndian, &maskID); err != nil {
 return nil, err
 }
 additive, err := readBool(r)
 if err != nil {
 return nil, err
 }
 return BlendSettings{Source: src, Target: tgt, Weight: weight, BoneMaskID: maskID, Additive: additive}, nil

	case TagPassthrough:
 child, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 return PassthroughSettings{Child: child}, nil

	case TagSpeedScale:
 child, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 scale, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 var blendTime float32
 if err := binary.Read(r, binary.LittleEndian, &blendTime); err != nil {
 return nil, err
 }
 return SpeedScaleSettings{Child: child, Scale: scale, BlendTime: blendTime}, nil

	case TagRootMotionOverride:
 child, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 var flags uint8
 if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
 return nil, err
 }
 headingVel, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 maxLinearVelocity, err := readFloat32(r)
 if err != nil {
 return nil, err
 }
 maxLinearVelocityNode, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 facing, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 return RootMotionOverrideSettings{
 Child: child,
 Flags: RootMotionOverrideFlags(flags),
 DesiredHeadingVelocity: headingVel,
 MaxLinearVelocity: maxLinearVelocity,
 MaxLinearVelocityNode: maxLinearVelocityNode,
 DesiredFacing: facing,
 }, nil

	case TagState:
 child, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 entry, err := readString(r)
 if err != nil {
 return nil, err
 }
 exit, err := readString(r)
 if err != nil {
 return nil, err
 }
 return StateSettings{Child: child, EntryEvent: entry, ExitEvent: exit}, nil

	case TagTransition:
 t, err := decodeTransition(r)
 if err != nil {
 return nil, err
 }
 return t, nil

	case TagStateMachine:
 var stateCount uint32
 if err := binary.Read(r, binary.LittleEndian, &stateCount); err != nil {
 return nil, err
 }
 states := make([]NodeIndex, stateCount)
 for i := range states {
 idx, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 states[i] = idx
 }
 var transitionCount uint32
 if err := binary.Read(r, binary.LittleEndian, &transitionCount); err != nil {
 return nil, err
 }
 transitions := make([]TransitionSettings, transitionCount)
 for i := range transitions {
 t, err := decodeTransition(r)
 if err != nil {
 return nil, err
 }
 transitions[i] = t
 }
 initial, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 return StateMachineSettings{States: states, Transitions: transitions, InitialState: initial}, nil

	case TagControlParameterBool:
 name, err := readString(r)
 if err != nil {
 return nil, err
 }
 return ControlParameterBoolSettings{Name: name}, nil

	case TagControlParameterFloat:
 name, err := readString(r)
 if err != nil {
 return nil, err
 }
 return ControlParameterFloatSettings{Name: name}, nil

	case TagControlParameterID:
 name, err := readString(r)
 if err != nil {
 return nil, err
 }
 return ControlParameterIDSettings{Name: name}, nil

	case TagControlParameterVector:
 name, err := readString(r)
 if err != nil {
 return nil, err
 }
 return ControlParameterVectorSettings{Name: name}, nil

	case TagLogicAnd:
 inputs, err := readNodeIndexSlice(r)
 if err != nil {
 return nil, err
 }
 return LogicAndSettings{Inputs: inputs}, nil

	case TagLogicOr:
 inputs, err := readNodeIndexSlice(r)
 if err != nil {
 return nil, err
 }
 return LogicOrSettings{Inputs: inputs}, nil

	case TagLogicNot:
 input, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 return LogicNotSettings{Input: input}, nil

	case TagFloatClamp:
 input, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 min, err := readFloat32(r)
 if err != nil {
 return nil, err
 }
 max, err := readFloat32(r)
 if err != nil {
 return nil, err
 }
 return FloatClampSettings{Input: input, Min: min, Max: max}, nil

	case TagIDComparison:
 input, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 var compare uint64
 if err := binary.Read(r, binary.LittleEndian, &compare); err != nil {
 return nil, err
 }
 notEqual, err := readBool(r)
 if err != nil {
 return nil, err
 }
 return IDComparisonSettings{Input: input, Compare: compare, NotEqual: notEqual}, nil

	case TagEventCondition:
 name, err := readString(r)
 if err != nil {
 return nil, err
 }
 minWeight, err := readFloat32(r)
 if err != nil {
 return nil, err
 }
 onlyDurable, err := readBool(r)
 if err != nil {
 return nil, err
 }
 return EventConditionSettings{EventName: name, MinWeight: minWeight, OnlyDurable: onlyDurable}, nil
	}

	return nil, fmt.Errorf("graph: unknown node tag %d", tag)
}

func decodeTransition(r io.Reader) (TransitionSettings, error) {
	from, err := readNodeIndex(r)
	if err != nil {
 return TransitionSettings{}, err
	}
	target, err := readNodeIndex(r)
	if err != nil {
 return TransitionSettings{}, err
	}
	condition, err := readNodeIndex(r)
	if err != nil {
 return TransitionSettings{}, err
	}
	duration, err := readFloat32(r)
	if err != nil {
 return TransitionSettings{}, err
	}
	synchronized, err := readBool(r)
	if err != nil {
 return TransitionSettings{}, err
	}
	forced, err := readBool(r)
	if err != nil {
 return TransitionSettings{}, err
	}
	return TransitionSettings{
 FromState: from,
 TargetState: target,
 Condition: condition,
 Duration: duration,
 Synchronized: synchronized,
 ForceTransition: forced,
	}, nil
}

func readNodeIndexSlice(r io.Reader) ([]NodeIndex, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
 return nil, err
	}
	out := make([]NodeIndex, n)
	for i := range out {
 idx, err := readNodeIndex(r)
 if err != nil {
 return nil, err
 }
 out[i] = idx
	}
	return out, nil
}
