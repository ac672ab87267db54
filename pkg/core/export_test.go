package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/animio/pkg/core"
	"github.com/aretw0/animio/pkg/scene"
)

func TestBuildDocument_NoAnimation(t *testing.T) {
	sc := scene.New()
	bare, err := sc.AddObject("Bare")
	require.NoError(t, err)

	noAction, err := sc.AddObject("NoAction")
	require.NoError(t, err)
	noAction.CreateAnimationData()

	empty, err := sc.AddObject("Empty")
	require.NoError(t, err)
	action, err := sc.NewAction("EmptyAction")
	require.NoError(t, err)
	empty.CreateAnimationData().SetAction(action)

	for _, obj := range []*scene.Object{bare, noAction, empty} {
		t.Run(obj.Name(), func(t *testing.T) {
			_, err := core.BuildDocument(obj, nil)
			assert.ErrorIs(t, err, core.ErrNoAnimation)
		})
	}
}

func TestBuildDocument_Order(t *testing.T) {
	sc := scene.New()
	obj, _ := sc.AddObject("Rig")
	action, _ := sc.NewAction("Walk")
	obj.CreateAnimationData().SetAction(action)

	add := func(path string, index int, group string, frames ...float64) {
		ch, err := action.NewChannel(core.Key{DataPath: path, ArrayIndex: index}, group)
		require.NoError(t, err)
		for _, f := range frames {
			require.NoError(t, ch.Insert(point(f, 0)))
		}
	}
	add("hide_viewport", 0, "", 1)
	add("location", 0, "Object Transforms", 1, 10)
	add(`pose.bones["Hip"].location`, 2, "Hip", 1)
	add("location", 1, "Object Transforms", 5)

	doc, err := core.BuildDocument(obj, nil)
	require.NoError(t, err)

	var got []string
	for _, rec := range doc.Keyframes {
		got = append(got, rec.Group+"|"+rec.Key().String())
	}
	assert.Equal(t, []string{
		"Object Transforms|location[0]",
		"Object Transforms|location[0]",
		"Object Transforms|location[1]",
		`Hip|pose.bones["Hip"].location[2]`,
		"|hide_viewport[0]",
	}, got)
	assert.Equal(t, "Walk", doc.Name)
	assert.Equal(t, core.SchemaVersion, doc.Version)
}

func TestBuildDocument_SampledChannelTransparency(t *testing.T) {
	build := func(t *testing.T, sampled bool) (*scene.Object, *scene.FCurve) {
		sc := scene.New()
		obj, _ := sc.AddObject("Cube")
		action, _ := sc.NewAction("Bake")
		obj.CreateAnimationData().SetAction(action)

		ch, err := action.NewChannel(core.Key{DataPath: "location", ArrayIndex: 2}, "Object Transforms")
		require.NoError(t, err)
		first, last := point(1, 0), point(5, 40)
		first.Interpolation = core.InterpolationLinear
		require.NoError(t, ch.Insert(first))
		require.NoError(t, ch.Insert(last))
		require.NoError(t, ch.ConvertToSamples(1, 5))
		if !sampled {
			// Keyframe form of the same bake.
			require.NoError(t, ch.ConvertToKeyframes(1, 5))
		}
		return obj, ch.(*scene.FCurve)
	}

	sampledObj, sampledCurve := build(t, true)
	keyedObj, _ := build(t, false)

	_, before := sampledCurve.Samples()
	got, err := core.BuildDocument(sampledObj, nil)
	require.NoError(t, err)
	want, err := core.BuildDocument(keyedObj, nil)
	require.NoError(t, err)

	assert.Equal(t, want.Keyframes, got.Keyframes)
	require.Len(t, got.Keyframes, 5)
	assert.Equal(t, []float64{0, 10, 20, 30, 40}, valuesOf(got.Keyframes))

	assert.True(t, sampledCurve.Sampled(), "channel must be sampled again after export")
	start, after := sampledCurve.Samples()
	assert.Equal(t, 1, start)
	assert.Equal(t, before, after)
}

func valuesOf(records []core.KeyframeRecord) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		out = append(out, r.Co[1])
	}
	return out
}

func TestBuildDocument_EmptySampledChannel(t *testing.T) {
	sc, err := scene.FromSnapshot(scene.Snapshot{
		Actions: []scene.ActionSnapshot{{Name: "Bake", Channels: []scene.ChannelSnapshot{
			{DataPath: "location", Sampled: true, SampleStart: 3},
			{DataPath: "location", ArrayIndex: 1, Keyframes: []core.ControlPoint{point(2, 5)}},
		}}},
		Objects: []scene.ObjectSnapshot{{Name: "Cube", Animated: true, Action: "Bake"}},
	})
	require.NoError(t, err)
	obj, _ := sc.Object("Cube")

	doc, err := core.BuildDocument(obj, nil)
	require.NoError(t, err)
	require.Len(t, doc.Keyframes, 1)
	assert.Equal(t, 1, doc.Keyframes[0].ArrayIndex)

	f, ok := obj.ActiveAction().FCurve(core.Key{DataPath: "location"})
	require.True(t, ok)
	assert.True(t, f.Sampled())
	start, values := f.Samples()
	assert.Equal(t, 3, start)
	assert.Empty(t, values)
}
