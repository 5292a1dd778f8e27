package graph

import (
	"encoding/binary"
	"fmt"
	"io"
)

// EncodeDefinition writes d in the same bit-exact form DecodeDefinition
// reads. assetID is the dataset's own asset id; clipAssetIDs must list one
// asset id per clip in d.Dataset, in slot order.
func EncodeDefinition(w io.Writer, d *Definition, assetID uint64, clipAssetIDs []uint64) error {
	if len(clipAssetIDs) != d.Dataset().NumClips() {
 return fmt.Errorf("graph: %d clip asset ids for %d clips", len(clipAssetIDs), d.Dataset().NumClips())
	}

	if _, err := w.Write(definitionMagic[:]); err != nil {
 return err
	}
	if err := binary.Write(w, binary.LittleEndian, formatVersion); err != nil {
 return err
	}

	if _, err := w.Write(datasetMagic[:]); err != nil {
 return err
	}
	if err := binary.Write(w, binary.LittleEndian, assetID); err != nil {
 return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(clipAssetIDs))); err != nil {
 return err
	}
	for _, id := range clipAssetIDs {
 if err := binary.Write(w, binary.LittleEndian, id); err != nil {
 return err
 }
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(d.NumNodes())); err != nil {
 return err
	}
	for i := 0; i < d.NumNodes(); i++ {
 if err := encodeNode(w, d.Settings(uint32(i))); err != nil {
 return fmt.Errorf("graph: encoding node %d: %w", i, err)
 }
	}

	return binary.Write(w, binary.LittleEndian, d.RootIndex())
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
 return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func writeBool(w io.Writer, b bool) error {
	var v uint8
	if b {
 v = 1
	}
	return binary.Write(w, binary.LittleEndian, v)
}

func writeNodeIndexSlice(w io.Writer, s []NodeIndex) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
 return err
	}
	for _, idx := range s {
 if err := binary.Write(w, binary.LittleEndian, idx); err != nil {
 return err
 }
	}
	return nil
}

func encodeNode(w io.Writer, s NodeSettings) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(s.Tag())); err != nil {
 return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
 return err
	}

	switch v := s.(type) {
	case ClipSettings:
 if err := binary.Write(w, binary.LittleEndian, v.DataSlot); err != nil {
 return err
 }
 return writeBool(w, v.Loop)

	case BlendSettings:
 for _, idx := range []NodeIndex{v.Source, v.Target, v.Weight} {
 if err := binary.Write(w, binary.LittleEndian, idx); err != nil {
 return err
 }
 }
 if err := binary.Write(w, binary.LittleEndian, v.BoneMaskID); err != nil {
 return err
 }
 return writeBool(w, v.Additive)

	case PassthroughSettings:
 return binary.Write(w, binary.LittleEndian, v.Child)

	case SpeedScaleSettings:
 if err := binary.Write(w, binary.LittleEndian, v.Child); err != nil {
 return err
 }
 if err := binary.Write(w, binary.LittleEndian, v.Scale); err != nil {
 return err
 }
 return binary.Write(w, binary.LittleEndian, v.BlendTime)

	case RootMotionOverrideSettings:
 if err := binary.Write(w, binary.LittleEndian, v.Child); err != nil {
 return err
 }
 if err := binary.Write(w, binary.LittleEndian, uint8(v.Flags)); err != nil {
 return err
 }
 if err := binary.Write(w, binary.LittleEndian, v.DesiredHeadingVelocity); err != nil {
 return err
 }
 if err := binary.Write(w, binary.LittleEndian, v.MaxLinearVelocity); err != nil {
 return err
 }
 if err := binary.Write(w, binary.LittleEndian, v.MaxLinearVelocityNode); err != nil {
 return err
 }
 return binary.Write(w, binary.LittleEndian, v.DesiredFacing)

	case StateSettings:
 if err := binary.Write(w, binary.LittleEndian, v.Child); err != nil {
 return err
 }
 if err := writeString(w, v.EntryEvent); err != nil {
 return err
 }
 return writeString(w, v.ExitEvent)

	case TransitionSettings:
 return encodeTransition(w, v)

	case StateMachineSettings:
 if err := writeNodeIndexSlice(w, v.States); err != nil {
 return err
 }
 if err := binary.Write(w, binary.LittleEndian, uint32(len(v.Transitions))); err != nil {
 return err
 }
 for _, tr := range v.Transitions {
 if err := encodeTransition(w, tr); err != nil {
 return err
 }
 }
 return binary.Write(w, binary.LittleEndian, v.InitialState)

	case ControlParameterBoolSettings:
 return writeString(w, v.Name)
	case ControlParameterFloatSettings:
 return writeString(w, v.Name)
	case ControlParameterIDSettings:
 return writeString(w, v.Name)
	case ControlParameterVectorSettings:
 return writeString(w, v.Name)

	case LogicAndSettings:
 return writeNodeIndexSlice(w, v.Inputs)
	case LogicOrSettings:
 return writeNodeIndexSlice(w, v.Inputs)
	case LogicNotSettings:
 return binary.Write(w, binary.LittleEndian, v.Input)

	case FloatClampSettings:
 if err := binary.Write(w, binary.LittleEndian, v.Input); err != nil {
 return err
 }
 if err := binary.Write(w, binary.LittleEndian, v.Min); err != nil {
 return err
 }
 return binary.Write(w, binary.LittleEndian, v.Max)

	case IDComparisonSettings:
 if err := binary.Write(w, binary.LittleEndian, v.Input); err != nil {
 return err
 }
 if err := binary.Write(w, binary.LittleEndian, v.Compare); err != nil {
 return err
 }
 return writeBool(w, v.NotEqual)

	case EventConditionSettings:
 if err := writeString(w, v.EventName); err != nil {
 return err
 }
 if err := binary.Write(w, binary.LittleEndian, v.MinWeight); err != nil {
 return err
 }
 return writeBool(w, v.OnlyDurable)
	}

	return fmt.Errorf("graph: unknown node settings type %T", s)
}

func encodeTransition(w io.Writer, t TransitionSettings) error {
	if err := binary.Write(w, binary.LittleEndian, t.FromState); err != nil {
 return err
	}
	if err := binary.Write(w, binary.LittleEndian, t.TargetState); err != nil {
 return err
	}
	if err := binary.Write(w, binary.LittleEndian, t.Condition); err != nil {
 return err
	}
	if err := binary.Write(w, binary.LittleEndian, t.Duration); err != nil {
 return err
	}
	if err := writeBool(w, t.Synchronized); err != nil {
 return err
	}
	return writeBool(w, t.ForceTransition)
}
