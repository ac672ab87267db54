// Package scene is an in-memory animation host: objects that carry animation
// data, and actions made of fcurves. It implements the host interfaces of
// package core and is what the CLI loads from and saves to a Store.
package scene

import (
	"context"
	"fmt"

	"github.com/aretw0/animio/pkg/core"
)

// Store persists a whole scene.
type Store interface {
	// Load returns the stored scene. A store that holds nothing yields an empty scene.
	Load(ctx context.Context) (*Scene, error)
	// Save replaces the stored scene with s.
	Save(ctx context.Context, s *Scene) error
}

// Scene owns objects and actions. Actions outlive the objects using them.
type Scene struct {
	objects []*Object
	actions []*Action
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// Objects returns the objects in creation order.
func (s *Scene) Objects() []*Object {
	return append([]*Object(nil), s.objects...)
}

// Actions returns the actions in creation order.
func (s *Scene) Actions() []*Action {
	return append([]*Action(nil), s.actions...)
}

// Object returns the object with the given name.
func (s *Scene) Object(name string) (*Object, bool) {
	for _, o := range s.objects {
		if o.name == name {
			return o, true
		}
	}
	return nil, false
}

// AddObject creates an object. Names are unique within a scene.
func (s *Scene) AddObject(name string) (*Object, error) {
	if name == "" {
		return nil, fmt.Errorf("object name cannot be empty")
	}
	if _, ok := s.Object(name); ok {
		return nil, fmt.Errorf("object %q already exists", name)
	}
	o := &Object{name: name, scene: s}
	s.objects = append(s.objects, o)
	return o, nil
}

// Action returns the action with the given name.
func (s *Scene) Action(name string) (*Action, bool) {
	for _, a := range s.actions {
		if a.name == name {
			return a, true
		}
	}
	return nil, false
}

// NewAction implements core.ActionFactory. A taken name gets a numeric
// suffix: "Walk", "Walk.001", "Walk.002"...
func (s *Scene) NewAction(name string) (core.Curves, error) {
	return s.newAction(name), nil
}

func (s *Scene) newAction(name string) *Action {
	if name == "" {
		name = "Action"
	}
	unique := name
	for i := 1; ; i++ {
		if _, taken := s.Action(unique); !taken {
			break
		}
		unique = fmt.Sprintf("%s.%03d", name, i)
	}
	a := &Action{name: unique}
	s.actions = append(s.actions, a)
	return a
}

// Object is a scene object that can carry animation data.
type Object struct {
	name  string
	scene *Scene
	anim  *AnimationData
}

var _ core.Target = (*Object)(nil)

// Name implements core.Target.
func (o *Object) Name() string { return o.name }

// AnimationData implements core.Target.
func (o *Object) AnimationData() core.AnimationData {
	if o.anim == nil {
		return nil
	}
	return o.anim
}

// CreateAnimationData implements core.Target. Existing data is kept.
func (o *Object) CreateAnimationData() core.AnimationData {
	if o.anim == nil {
		o.anim = &AnimationData{scene: o.scene}
	}
	return o.anim
}

// ClearAnimationData implements core.Target. The action stays in the scene.
func (o *Object) ClearAnimationData() {
	o.anim = nil
}

// ActiveAction returns the concrete active action, or nil.
func (o *Object) ActiveAction() *Action {
	if o.anim == nil {
		return nil
	}
	return o.anim.action
}

// AnimationData links an object to its active action.
type AnimationData struct {
	scene  *Scene
	action *Action
}

var _ core.AnimationData = (*AnimationData)(nil)

// Action implements core.AnimationData.
func (d *AnimationData) Action() core.Curves {
	if d.action == nil {
		return nil
	}
	return d.action
}

// SetAction implements core.AnimationData. Actions that do not belong to the
// scene are copied into it first.
func (d *AnimationData) SetAction(c core.Curves) {
	if c == nil {
		d.action = nil
		return
	}
	if a, ok := c.(*Action); ok && d.scene.owns(a) {
		d.action = a
		return
	}
	d.action = d.scene.copyAction(c)
}

func (s *Scene) owns(a *Action) bool {
	for _, own := range s.actions {
		if own == a {
			return true
		}
	}
	return false
}

func (s *Scene) copyAction(c core.Curves) *Action {
	a := s.newAction(c.Name())
	for _, ch := range c.Channels() {
		f := &FCurve{key: ch.Key(), group: ch.Group(), points: ch.Points()}
		a.fcurves = append(a.fcurves, f)
	}
	return a
}
