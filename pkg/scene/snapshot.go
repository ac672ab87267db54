package scene

import (
	"fmt"
	"sort"

	"github.com/aretw0/animio/pkg/core"
)

// Snapshot is the persisted form of a Scene, shared by every Store.
type Snapshot struct {
	Objects []ObjectSnapshot `json:"objects" yaml:"objects"`
	Actions []ActionSnapshot `json:"actions" yaml:"actions"`
}

// ObjectSnapshot is the persisted form of an Object.
type ObjectSnapshot struct {
	Name     string `json:"name" yaml:"name"`
	Animated bool   `json:"animated,omitempty" yaml:"animated,omitempty"`
	Action   string `json:"action,omitempty" yaml:"action,omitempty"`
}

// ActionSnapshot is the persisted form of an Action.
type ActionSnapshot struct {
	Name     string            `json:"name" yaml:"name"`
	Channels []ChannelSnapshot `json:"channels" yaml:"channels"`
}

// ChannelSnapshot is the persisted form of an FCurve.
type ChannelSnapshot struct {
	DataPath    string              `json:"data_path" yaml:"data_path"`
	ArrayIndex  int                 `json:"array_index" yaml:"array_index"`
	Group       string              `json:"group,omitempty" yaml:"group,omitempty"`
	Keyframes   []core.ControlPoint `json:"keyframes,omitempty" yaml:"keyframes,omitempty"`
	Sampled     bool                `json:"sampled,omitempty" yaml:"sampled,omitempty"`
	SampleStart int                 `json:"sample_start,omitempty" yaml:"sample_start,omitempty"`
	Samples     []float64           `json:"samples,omitempty" yaml:"samples,omitempty"`
}

// Snapshot captures the scene.
func (s *Scene) Snapshot() Snapshot {
	snap := Snapshot{
		Objects: make([]ObjectSnapshot, 0, len(s.objects)),
		Actions: make([]ActionSnapshot, 0, len(s.actions)),
	}
	for _, o := range s.objects {
		obj := ObjectSnapshot{Name: o.name}
		if o.anim != nil {
			obj.Animated = true
			if o.anim.action != nil {
				obj.Action = o.anim.action.name
			}
		}
		snap.Objects = append(snap.Objects, obj)
	}
	for _, a := range s.actions {
		as := ActionSnapshot{Name: a.name, Channels: make([]ChannelSnapshot, 0, len(a.fcurves))}
		for _, f := range a.fcurves {
			as.Channels = append(as.Channels, ChannelSnapshot{
				DataPath:    f.key.DataPath,
				ArrayIndex:  f.key.ArrayIndex,
				Group:       f.group,
				Keyframes:   f.Points(),
				Sampled:     f.sampled,
				SampleStart: f.sampleStart,
				Samples:     append([]float64(nil), f.samples...),
			})
		}
		snap.Actions = append(snap.Actions, as)
	}
	return snap
}

// FromSnapshot rebuilds a scene, rejecting duplicate names, duplicate channel
// keys and dangling action references.
func FromSnapshot(snap Snapshot) (*Scene, error) {
	s := New()
	for _, as := range snap.Actions {
		if as.Name == "" {
			return nil, fmt.Errorf("action name cannot be empty")
		}
		if _, taken := s.Action(as.Name); taken {
			return nil, fmt.Errorf("duplicate action %q", as.Name)
		}
		a := &Action{name: as.Name}
		s.actions = append(s.actions, a)
		for _, cs := range as.Channels {
			f, err := a.addFCurve(core.Key{DataPath: cs.DataPath, ArrayIndex: cs.ArrayIndex}, cs.Group)
			if err != nil {
				return nil, err
			}
			if cs.Sampled {
				f.sampled = true
				f.sampleStart = cs.SampleStart
				f.samples = append([]float64(nil), cs.Samples...)
				continue
			}
			f.points = append([]core.ControlPoint(nil), cs.Keyframes...)
			sort.SliceStable(f.points, func(i, j int) bool { return f.points[i].Time() < f.points[j].Time() })
		}
	}
	for _, obj := range snap.Objects {
		o, err := s.AddObject(obj.Name)
		if err != nil {
			return nil, err
		}
		if !obj.Animated && obj.Action == "" {
			continue
		}
		o.anim = &AnimationData{scene: s}
		if obj.Action == "" {
			continue
		}
		a, ok := s.Action(obj.Action)
		if !ok {
			return nil, fmt.Errorf("object %q references unknown action %q", obj.Name, obj.Action)
		}
		o.anim.action = a
	}
	return s, nil
}
