package core_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/animio/pkg/core"
	"github.com/aretw0/animio/pkg/scene"
)

// memCodec keeps documents in memory, keyed by path.
type memCodec struct {
	mu       sync.Mutex
	docs     map[string]*core.ActionDocument
	readErr  error
	writeErr error
}

func newMemCodec() *memCodec {
	return &memCodec{docs: make(map[string]*core.ActionDocument)}
}

func (c *memCodec) ReadDocument(path string) (*core.ActionDocument, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, c.readErr
	}
	doc, ok := c.docs[path]
	if !ok {
		return nil, core.IOError("open", path, errNotFound)
	}
	cp := *doc
	cp.Keyframes = append([]core.KeyframeRecord(nil), doc.Keyframes...)
	return &cp, nil
}

func (c *memCodec) WriteDocument(path string, doc *core.ActionDocument) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return core.IOError("write", path, c.writeErr)
	}
	cp := *doc
	cp.Keyframes = append([]core.KeyframeRecord(nil), doc.Keyframes...)
	c.docs[path] = &cp
	return nil
}

type notFound struct{}

func (notFound) Error() string { return "file does not exist" }

var errNotFound = notFound{}

func point(frame, value float64) core.ControlPoint {
	return core.ControlPoint{
		Co:              core.Vec2{frame, value},
		HandleLeft:      core.Vec2{frame - 0.5, value},
		HandleLeftType:  core.HandleFree,
		HandleRight:     core.Vec2{frame + 0.5, value},
		HandleRightType: core.HandleFree,
		Interpolation:   core.InterpolationBezier,
		Easing:          core.EasingAuto,
		Amplitude:       core.DefaultAmplitude,
		Back:            core.DefaultBack,
		Period:          core.DefaultPeriod,
		Type:            core.KeyframeNormal,
	}
}

func record(path string, index int, group string, frame, value float64) core.KeyframeRecord {
	return core.NewKeyframeRecord(core.Key{DataPath: path, ArrayIndex: index}, group, point(frame, value))
}

// animated builds a scene with one object whose active action has the given
// channels, each keyed at the given frames (value = frame * 10).
func animated(t *testing.T, channels map[core.Key][]float64, group string) (*scene.Scene, *scene.Object, core.Curves) {
	t.Helper()
	sc := scene.New()
	obj, err := sc.AddObject("Cube")
	require.NoError(t, err)
	action, err := sc.NewAction("CubeAction")
	require.NoError(t, err)
	obj.CreateAnimationData().SetAction(action)

	for key, frames := range channels {
		ch, err := action.NewChannel(key, group)
		require.NoError(t, err)
		for _, f := range frames {
			require.NoError(t, ch.Insert(point(f, f*10)))
		}
	}
	return sc, obj, action
}

func times(ch core.Channel) []float64 {
	var out []float64
	for _, p := range ch.Points() {
		out = append(out, p.Time())
	}
	return out
}

func channel(t *testing.T, curves core.Curves, path string, index int) core.Channel {
	t.Helper()
	ch, ok := curves.Channel(core.Key{DataPath: path, ArrayIndex: index})
	require.True(t, ok, "channel %s[%d] missing", path, index)
	return ch
}

func posInf() float64 { return math.Inf(1) }
