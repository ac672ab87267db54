package scene

import (
	"fmt"

	"github.com/aretw0/animio/pkg/core"
)

// Action is a named set of fcurves, unique per channel key.
type Action struct {
	name    string
	fcurves []*FCurve
}

var _ core.Curves = (*Action)(nil)

// Name implements core.Curves.
func (a *Action) Name() string { return a.name }

// FCurves returns the concrete channels in creation order.
func (a *Action) FCurves() []*FCurve {
	return append([]*FCurve(nil), a.fcurves...)
}

// FCurve returns the concrete channel with the given key.
func (a *Action) FCurve(key core.Key) (*FCurve, bool) {
	for _, f := range a.fcurves {
		if f.key == key {
			return f, true
		}
	}
	return nil, false
}

// Groups implements core.Curves. Groups are listed in the order their first
// channel was created; channels without a group are not part of any.
func (a *Action) Groups() []core.Group {
	var groups []core.Group
	index := make(map[string]*group)
	for _, f := range a.fcurves {
		if f.group == "" {
			continue
		}
		g, ok := index[f.group]
		if !ok {
			g = &group{name: f.group}
			index[f.group] = g
			groups = append(groups, g)
		}
		g.channels = append(g.channels, f)
	}
	return groups
}

// Channels implements core.Curves.
func (a *Action) Channels() []core.Channel {
	out := make([]core.Channel, 0, len(a.fcurves))
	for _, f := range a.fcurves {
		out = append(out, f)
	}
	return out
}

// Channel implements core.Curves.
func (a *Action) Channel(key core.Key) (core.Channel, bool) {
	f, ok := a.FCurve(key)
	if !ok {
		return nil, false
	}
	return f, true
}

// NewChannel implements core.Curves.
func (a *Action) NewChannel(key core.Key, groupName string) (core.Channel, error) {
	f, err := a.addFCurve(key, groupName)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (a *Action) addFCurve(key core.Key, groupName string) (*FCurve, error) {
	if key.DataPath == "" {
		return nil, fmt.Errorf("fcurve data path cannot be empty")
	}
	if key.ArrayIndex < 0 {
		return nil, fmt.Errorf("fcurve %s: negative array index", key)
	}
	if _, exists := a.FCurve(key); exists {
		return nil, fmt.Errorf("fcurve %s already exists in action %q", key, a.name)
	}
	f := &FCurve{key: key, group: groupName}
	a.fcurves = append(a.fcurves, f)
	return f, nil
}

// RemoveChannel implements core.Curves.
func (a *Action) RemoveChannel(key core.Key) error {
	for i, f := range a.fcurves {
		if f.key == key {
			a.fcurves = append(a.fcurves[:i], a.fcurves[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("fcurve %s not found in action %q", key, a.name)
}

type group struct {
	name     string
	channels []core.Channel
}

func (g *group) Name() string { return g.name }

func (g *group) Channels() []core.Channel { return g.channels }
