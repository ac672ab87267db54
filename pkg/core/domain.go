// Package core holds the animation curve domain: the flat keyframe record,
// the action document that carries them, the host collaborator interfaces and
// the export/reconcile algorithms built on top of them.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// SchemaVersion is the action document version written by this package.
// Documents without a version are treated as version 1.
const SchemaVersion = 1

// Vec2 is a 2D coordinate. For control points it is ordered [time, value].
type Vec2 [2]float64

// X returns the first component (time for control points).
func (v Vec2) X() float64 { return v[0] }

// Y returns the second component (value for control points).
func (v Vec2) Y() float64 { return v[1] }

// HandleType is the shape tag of a Bezier handle.
type HandleType string

const (
	HandleFree        HandleType = "FREE"
	HandleAligned     HandleType = "ALIGNED"
	HandleVector      HandleType = "VECTOR"
	HandleAuto        HandleType = "AUTO"
	HandleAutoClamped HandleType = "AUTO_CLAMPED"
)

// Interpolation is the interpolation mode of the segment that starts at a control point.
type Interpolation string

const (
	InterpolationConstant Interpolation = "CONSTANT"
	InterpolationLinear   Interpolation = "LINEAR"
	InterpolationBezier   Interpolation = "BEZIER"
	InterpolationSine     Interpolation = "SINE"
	InterpolationQuad     Interpolation = "QUAD"
	InterpolationCubic    Interpolation = "CUBIC"
	InterpolationQuart    Interpolation = "QUART"
	InterpolationQuint    Interpolation = "QUINT"
	InterpolationExpo     Interpolation = "EXPO"
	InterpolationCirc     Interpolation = "CIRC"
	InterpolationBack     Interpolation = "BACK"
	InterpolationBounce   Interpolation = "BOUNCE"
	InterpolationElastic  Interpolation = "ELASTIC"
)

// Easing is the easing direction used by the dynamic interpolation modes.
type Easing string

const (
	EasingAuto  Easing = "AUTO"
	EasingIn    Easing = "EASE_IN"
	EasingOut   Easing = "EASE_OUT"
	EasingInOut Easing = "EASE_IN_OUT"
)

// KeyframeType classifies a control point for the animator (normal, breakdown, ...).
type KeyframeType string

const (
	KeyframeNormal     KeyframeType = "KEYFRAME"
	KeyframeBreakdown  KeyframeType = "BREAKDOWN"
	KeyframeMovingHold KeyframeType = "MOVING_HOLD"
	KeyframeExtreme    KeyframeType = "EXTREME"
	KeyframeJitter     KeyframeType = "JITTER"
	KeyframeGenerated  KeyframeType = "GENERATED"
)

// Defaults used by hosts when they create control points themselves.
const (
	DefaultAmplitude = 0.0
	DefaultBack      = 1.70158
	DefaultPeriod    = 0.1
)

// ControlPoint is one keyframe on a channel: position, tangent handles and
// interpolation metadata.
type ControlPoint struct {
	Co              Vec2          `json:"co" yaml:"co"`
	HandleLeft      Vec2          `json:"handle_left" yaml:"handle_left"`
	HandleLeftType  HandleType    `json:"handle_left_type" yaml:"handle_left_type"`
	HandleRight     Vec2          `json:"handle_right" yaml:"handle_right"`
	HandleRightType HandleType    `json:"handle_right_type" yaml:"handle_right_type"`
	Interpolation   Interpolation `json:"interpolation" yaml:"interpolation"`
	Easing          Easing        `json:"easing" yaml:"easing"`
	Amplitude       float64       `json:"amplitude" yaml:"amplitude"`
	Back            float64       `json:"back" yaml:"back"`
	Period          float64       `json:"period" yaml:"period"`
	Type            KeyframeType  `json:"type" yaml:"type"`
}

// Time is the frame of the control point.
func (p ControlPoint) Time() float64 { return p.Co[0] }

// Value is the value of the control point.
func (p ControlPoint) Value() float64 { return p.Co[1] }

// Key identifies a channel inside a curve container.
type Key struct {
	DataPath   string
	ArrayIndex int
}

func (k Key) String() string {
	return fmt.Sprintf("%s[%d]", k.DataPath, k.ArrayIndex)
}

// ParseKey parses "data_path:index". A missing index means 0.
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Key{}, fmt.Errorf("empty channel key")
	}
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return Key{DataPath: s}, nil
	}
	idx, err := strconv.Atoi(s[i+1:])
	if err != nil || idx < 0 {
		return Key{}, fmt.Errorf("invalid array index in channel key %q", s)
	}
	if s[:i] == "" {
		return Key{}, fmt.Errorf("missing data path in channel key %q", s)
	}
	return Key{DataPath: s[:i], ArrayIndex: idx}, nil
}

// KeyframeRecord is the flat unit of serialization: one control point plus
// the key and group of the channel it belongs to.
type KeyframeRecord struct {
	DataPath        string        `json:"data_path" yaml:"data_path" validate:"required"`
	Group           string        `json:"group" yaml:"group"`
	ArrayIndex      int           `json:"array_index" yaml:"array_index" validate:"gte=0"`
	Co              Vec2          `json:"co" yaml:"co"`
	HandleLeft      Vec2          `json:"handle_left" yaml:"handle_left"`
	HandleLeftType  HandleType    `json:"handle_left_type" yaml:"handle_left_type" validate:"oneof=FREE ALIGNED VECTOR AUTO AUTO_CLAMPED"`
	HandleRight     Vec2          `json:"handle_right" yaml:"handle_right"`
	HandleRightType HandleType    `json:"handle_right_type" yaml:"handle_right_type" validate:"oneof=FREE ALIGNED VECTOR AUTO AUTO_CLAMPED"`
	Interpolation   Interpolation `json:"interpolation" yaml:"interpolation" validate:"oneof=CONSTANT LINEAR BEZIER SINE QUAD CUBIC QUART QUINT EXPO CIRC BACK BOUNCE ELASTIC"`
	Easing          Easing        `json:"easing" yaml:"easing" validate:"oneof=AUTO EASE_IN EASE_OUT EASE_IN_OUT"`
	Amplitude       float64       `json:"amplitude" yaml:"amplitude"`
	Back            float64       `json:"back" yaml:"back"`
	Period          float64       `json:"period" yaml:"period"`
	Type            KeyframeType  `json:"type" yaml:"type" validate:"oneof=KEYFRAME BREAKDOWN MOVING_HOLD EXTREME JITTER GENERATED"`
}

// Key returns the channel key of the record.
func (r KeyframeRecord) Key() Key {
	return Key{DataPath: r.DataPath, ArrayIndex: r.ArrayIndex}
}

// Point returns the control point carried by the record.
func (r KeyframeRecord) Point() ControlPoint {
	return ControlPoint{
		Co:              r.Co,
		HandleLeft:      r.HandleLeft,
		HandleLeftType:  r.HandleLeftType,
		HandleRight:     r.HandleRight,
		HandleRightType: r.HandleRightType,
		Interpolation:   r.Interpolation,
		Easing:          r.Easing,
		Amplitude:       r.Amplitude,
		Back:            r.Back,
		Period:          r.Period,
		Type:            r.Type,
	}
}

// NewKeyframeRecord flattens a control point of the channel key into a record.
func NewKeyframeRecord(key Key, group string, p ControlPoint) KeyframeRecord {
	return KeyframeRecord{
		DataPath:        key.DataPath,
		Group:           group,
		ArrayIndex:      key.ArrayIndex,
		Co:              p.Co,
		HandleLeft:      p.HandleLeft,
		HandleLeftType:  p.HandleLeftType,
		HandleRight:     p.HandleRight,
		HandleRightType: p.HandleRightType,
		Interpolation:   p.Interpolation,
		Easing:          p.Easing,
		Amplitude:       p.Amplitude,
		Back:            p.Back,
		Period:          p.Period,
		Type:            p.Type,
	}
}

// ActionDocument is the serialized form of one action.
type ActionDocument struct {
	Version   int              `json:"version" yaml:"version"`
	Name      string           `json:"name" yaml:"name"`
	Keyframes []KeyframeRecord `json:"keyframes" yaml:"keyframes"`
}

// Keys returns the distinct channel keys of the document in first-appearance order.
func (d *ActionDocument) Keys() []Key {
	seen := make(map[Key]struct{})
	var keys []Key
	for _, rec := range d.Keyframes {
		k := rec.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
