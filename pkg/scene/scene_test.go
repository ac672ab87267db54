package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/animio/pkg/core"
)

func keyed(frame, value float64) core.ControlPoint {
	p := bakedPoint(frame, value)
	p.Interpolation = core.InterpolationBezier
	p.HandleLeftType = core.HandleFree
	p.HandleRightType = core.HandleFree
	return p
}

func frames(f *FCurve) []float64 {
	var out []float64
	for _, p := range f.points {
		out = append(out, p.Time())
	}
	return out
}

func TestFCurve_InsertKeepsTimeOrder(t *testing.T) {
	f := &FCurve{key: core.Key{DataPath: "location"}}
	for _, frame := range []float64{10, 1, 5, 20, 0} {
		require.NoError(t, f.Insert(keyed(frame, frame)))
	}
	assert.Equal(t, []float64{0, 1, 5, 10, 20}, frames(f))
}

func TestFCurve_InsertWithinThresholdReplaces(t *testing.T) {
	f := &FCurve{key: core.Key{DataPath: "location"}}
	require.NoError(t, f.Insert(keyed(5, 1)))
	require.NoError(t, f.Insert(keyed(5.009, 2)))
	require.NoError(t, f.Insert(keyed(5.02, 3)))

	require.Len(t, f.points, 2)
	assert.Equal(t, 5.009, f.points[0].Time())
	assert.Equal(t, 2.0, f.points[0].Value())
	assert.Equal(t, 5.02, f.points[1].Time())
}

func TestFCurve_InsertRejectsInvalidFrame(t *testing.T) {
	f := &FCurve{key: core.Key{DataPath: "location"}}
	bad := keyed(0, 0)
	bad.Co[0] = math.NaN()
	assert.Error(t, f.Insert(bad))
	assert.Empty(t, f.points)
}

func TestFCurve_SampleConversion(t *testing.T) {
	f := &FCurve{key: core.Key{DataPath: "location", ArrayIndex: 2}}
	first := keyed(2, 0)
	first.Interpolation = core.InterpolationLinear
	require.NoError(t, f.Insert(first))
	require.NoError(t, f.Insert(keyed(6, 8)))

	require.NoError(t, f.ConvertToSamples(0, 8))
	assert.True(t, f.Sampled())
	assert.Empty(t, f.Points())
	start, values := f.Samples()
	assert.Equal(t, 0, start)
	assert.Equal(t, []float64{0, 0, 0, 2, 4, 6, 8, 8, 8}, values)

	lo, hi := f.Range()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 8.0, hi)

	assert.Error(t, f.ConvertToSamples(0, 8), "already sampled")

	require.NoError(t, f.ConvertToKeyframes(2, 4))
	assert.False(t, f.Sampled())
	assert.Equal(t, []float64{2, 3, 4}, frames(f))
	assert.Equal(t, core.InterpolationLinear, f.points[0].Interpolation)
}

func TestFCurve_ConstantSegmentHolds(t *testing.T) {
	f := &FCurve{key: core.Key{DataPath: "hide_viewport"}}
	first := keyed(1, 0)
	first.Interpolation = core.InterpolationConstant
	require.NoError(t, f.Insert(first))
	require.NoError(t, f.Insert(keyed(3, 1)))

	require.NoError(t, f.ConvertToSamples(1, 3))
	_, values := f.Samples()
	assert.Equal(t, []float64{0, 0, 1}, values)
}

func TestFCurve_EmptyCurveSamplesToEmptyTable(t *testing.T) {
	f := &FCurve{key: core.Key{DataPath: "location"}}
	require.NoError(t, f.ConvertToSamples(3, 7))
	assert.True(t, f.Sampled())
	start, values := f.Samples()
	assert.Equal(t, 3, start)
	assert.Empty(t, values)

	lo, hi := f.Range()
	require.NoError(t, f.ConvertToKeyframes(int(lo), int(hi)))
	assert.Empty(t, f.Points())
	require.NoError(t, f.ConvertToSamples(int(lo), int(hi)))
	start, values = f.Samples()
	assert.Equal(t, 3, start)
	assert.Empty(t, values)
}

func TestFCurve_ConversionErrors(t *testing.T) {
	f := &FCurve{key: core.Key{DataPath: "location"}}
	assert.Error(t, f.ConvertToKeyframes(1, 5), "not sampled")

	require.NoError(t, f.Insert(keyed(1, 0)))
	assert.Error(t, f.ConvertToSamples(5, 1), "inverted range")
}

func TestFCurve_InsertIntoSampledCurve(t *testing.T) {
	f := &FCurve{key: core.Key{DataPath: "location"}}
	require.NoError(t, f.Insert(keyed(1, 0)))
	require.NoError(t, f.Insert(keyed(3, 2)))
	require.NoError(t, f.ConvertToSamples(1, 3))

	require.NoError(t, f.Insert(keyed(10, 5)))
	assert.False(t, f.Sampled())
	assert.Equal(t, []float64{1, 2, 3, 10}, frames(f))
}

func TestScene_UniqueActionNames(t *testing.T) {
	s := New()
	var names []string
	for i := 0; i < 3; i++ {
		a, err := s.NewAction("Walk")
		require.NoError(t, err)
		names = append(names, a.Name())
	}
	empty, _ := s.NewAction("")
	names = append(names, empty.Name())

	assert.Equal(t, []string{"Walk", "Walk.001", "Walk.002", "Action"}, names)
}

func TestScene_ObjectNames(t *testing.T) {
	s := New()
	_, err := s.AddObject("Cube")
	require.NoError(t, err)
	_, err = s.AddObject("Cube")
	assert.Error(t, err)
	_, err = s.AddObject("")
	assert.Error(t, err)
}

func TestAction_ChannelKeysAreUnique(t *testing.T) {
	s := New()
	c, _ := s.NewAction("Walk")
	key := core.Key{DataPath: "location", ArrayIndex: 1}

	_, err := c.NewChannel(key, "Object Transforms")
	require.NoError(t, err)
	_, err = c.NewChannel(key, "Other")
	assert.Error(t, err)
	_, err = c.NewChannel(core.Key{DataPath: ""}, "")
	assert.Error(t, err)

	require.NoError(t, c.RemoveChannel(key))
	assert.Error(t, c.RemoveChannel(key))
	assert.Empty(t, c.Channels())
}

func TestAction_GroupsFollowCreationOrder(t *testing.T) {
	s := New()
	c, _ := s.NewAction("Walk")
	add := func(path, group string) {
		_, err := c.NewChannel(core.Key{DataPath: path}, group)
		require.NoError(t, err)
	}
	add("hide_viewport", "")
	add(`pose.bones["Hip"].location`, "Hip")
	add("location", "Object Transforms")
	add(`pose.bones["Hip"].scale`, "Hip")

	groups := c.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "Hip", groups[0].Name())
	assert.Len(t, groups[0].Channels(), 2)
	assert.Equal(t, "Object Transforms", groups[1].Name())
}

func TestAnimationData_SetForeignActionCopies(t *testing.T) {
	src := New()
	foreign, _ := src.NewAction("Walk")
	ch, _ := foreign.NewChannel(core.Key{DataPath: "location"}, "")
	require.NoError(t, ch.Insert(keyed(1, 0)))

	dst := New()
	obj, _ := dst.AddObject("Cube")
	obj.CreateAnimationData().SetAction(foreign)

	require.NotNil(t, obj.ActiveAction())
	assert.NotSame(t, foreign, obj.ActiveAction())
	assert.Len(t, dst.Actions(), 1)
	assert.Len(t, obj.ActiveAction().Channels(), 1)

	obj.ClearAnimationData()
	assert.Nil(t, obj.AnimationData())
	assert.Len(t, dst.Actions(), 1, "actions outlive their users")
}

func TestSnapshot_RoundTrip(t *testing.T) {
	s := New()
	obj, _ := s.AddObject("Cube")
	_, _ = s.AddObject("Bare")
	lamp, _ := s.AddObject("Lamp")
	lamp.CreateAnimationData()

	walk, _ := s.NewAction("Walk")
	obj.CreateAnimationData().SetAction(walk)
	loc, _ := walk.NewChannel(core.Key{DataPath: "location"}, "Object Transforms")
	require.NoError(t, loc.Insert(keyed(1, 0)))
	require.NoError(t, loc.Insert(keyed(12, 3)))
	baked, _ := walk.NewChannel(core.Key{DataPath: "scale", ArrayIndex: 2}, "")
	require.NoError(t, baked.Insert(keyed(1, 1)))
	require.NoError(t, baked.Insert(keyed(3, 3)))
	require.NoError(t, baked.ConvertToSamples(1, 3))
	_, _ = s.NewAction("Orphan")

	snap := s.Snapshot()
	restored, err := FromSnapshot(snap)
	require.NoError(t, err)
	assert.Equal(t, snap, restored.Snapshot())

	cube, ok := restored.Object("Cube")
	require.True(t, ok)
	assert.Equal(t, "Walk", cube.ActiveAction().Name())
	l, ok := restored.Object("Lamp")
	require.True(t, ok)
	assert.NotNil(t, l.AnimationData())
	assert.Nil(t, l.ActiveAction())
	b, _ := restored.Object("Bare")
	assert.Nil(t, b.AnimationData())

	f, ok := cube.ActiveAction().FCurve(core.Key{DataPath: "scale", ArrayIndex: 2})
	require.True(t, ok)
	assert.True(t, f.Sampled())
}

func TestFromSnapshot_Rejects(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
	}{
		{"duplicate action", Snapshot{Actions: []ActionSnapshot{{Name: "A"}, {Name: "A"}}}},
		{"empty action name", Snapshot{Actions: []ActionSnapshot{{Name: ""}}}},
		{"duplicate channel", Snapshot{Actions: []ActionSnapshot{{Name: "A", Channels: []ChannelSnapshot{
			{DataPath: "location"}, {DataPath: "location"},
		}}}}},
		{"duplicate object", Snapshot{Objects: []ObjectSnapshot{{Name: "Cube"}, {Name: "Cube"}}}},
		{"dangling action", Snapshot{Objects: []ObjectSnapshot{{Name: "Cube", Action: "Missing"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSnapshot(tt.snap)
			assert.Error(t, err)
		})
	}
}
