package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/aretw0/animio/pkg/core"
)

// FrameThreshold is the distance under which two control points are
// considered to sit on the same frame. Inserting there replaces the old point.
const FrameThreshold = 0.01

// FCurve is one animated channel. It stores either control points or, once
// baked, a table with one value per integer frame starting at sampleStart.
type FCurve struct {
	key         core.Key
	group       string
	points      []core.ControlPoint
	sampled     bool
	sampleStart int
	samples     []float64
}

var _ core.Channel = (*FCurve)(nil)

// Key implements core.Channel.
func (f *FCurve) Key() core.Key { return f.key }

// Group implements core.Channel.
func (f *FCurve) Group() string { return f.group }

// Points implements core.Channel.
func (f *FCurve) Points() []core.ControlPoint {
	return append([]core.ControlPoint(nil), f.points...)
}

// Sampled implements core.Channel.
func (f *FCurve) Sampled() bool { return f.sampled }

// Samples returns the first baked frame and the per-frame values.
func (f *FCurve) Samples() (start int, values []float64) {
	return f.sampleStart, append([]float64(nil), f.samples...)
}

// Range implements core.Channel.
func (f *FCurve) Range() (float64, float64) {
	if f.sampled {
		if len(f.samples) == 0 {
			return float64(f.sampleStart), float64(f.sampleStart)
		}
		return float64(f.sampleStart), float64(f.sampleStart + len(f.samples) - 1)
	}
	if len(f.points) == 0 {
		return 0, 0
	}
	return f.points[0].Time(), f.points[len(f.points)-1].Time()
}

// ConvertToKeyframes implements core.Channel. Each baked frame inside
// [start, end] becomes a linear control point.
func (f *FCurve) ConvertToKeyframes(start, end int) error {
	if !f.sampled {
		return fmt.Errorf("fcurve %s is not sampled", f.key)
	}
	if end < start {
		return fmt.Errorf("fcurve %s: invalid frame range %d..%d", f.key, start, end)
	}

	points := make([]core.ControlPoint, 0, len(f.samples))
	for i, v := range f.samples {
		frame := f.sampleStart + i
		if frame < start || frame > end {
			continue
		}
		points = append(points, bakedPoint(float64(frame), v))
	}
	f.points = points
	f.sampled = false
	f.sampleStart = 0
	f.samples = nil
	return nil
}

// ConvertToSamples implements core.Channel. The table holds the value at each
// integer frame in [start, end]. A curve without keyframes becomes an empty
// table starting at start.
func (f *FCurve) ConvertToSamples(start, end int) error {
	if f.sampled {
		return fmt.Errorf("fcurve %s is already sampled", f.key)
	}
	if end < start {
		return fmt.Errorf("fcurve %s: invalid frame range %d..%d", f.key, start, end)
	}

	var samples []float64
	if len(f.points) > 0 {
		samples = make([]float64, 0, end-start+1)
	}
	for frame := start; frame <= end && len(f.points) > 0; frame++ {
		samples = append(samples, f.valueAt(float64(frame)))
	}
	f.points = nil
	f.sampled = true
	f.sampleStart = start
	f.samples = samples
	return nil
}

// Insert implements core.Channel. A sampled curve is turned back into
// keyframes over its whole range first.
func (f *FCurve) Insert(p core.ControlPoint) error {
	if math.IsNaN(p.Time()) || math.IsInf(p.Time(), 0) {
		return fmt.Errorf("fcurve %s: invalid frame %v", f.key, p.Time())
	}
	if f.sampled {
		start, end := f.Range()
		if err := f.ConvertToKeyframes(int(start), int(end)); err != nil {
			return err
		}
	}

	i := sort.Search(len(f.points), func(i int) bool {
		return f.points[i].Time() > p.Time()-FrameThreshold
	})
	if i < len(f.points) && math.Abs(f.points[i].Time()-p.Time()) < FrameThreshold {
		f.points[i] = p
		return nil
	}
	f.points = append(f.points, core.ControlPoint{})
	copy(f.points[i+1:], f.points[i:])
	f.points[i] = p
	return nil
}

// Clear implements core.Channel.
func (f *FCurve) Clear() {
	f.points = nil
	f.sampled = false
	f.sampleStart = 0
	f.samples = nil
}

// valueAt bakes the curve at frame. Segments are linear except CONSTANT ones,
// which hold the left value; outside the keyed range the end values extend.
func (f *FCurve) valueAt(frame float64) float64 {
	pts := f.points
	if frame <= pts[0].Time() {
		return pts[0].Value()
	}
	last := pts[len(pts)-1]
	if frame >= last.Time() {
		return last.Value()
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Time() > frame }) - 1
	a, b := pts[i], pts[i+1]
	if a.Interpolation == core.InterpolationConstant || b.Time() == a.Time() {
		return a.Value()
	}
	t := (frame - a.Time()) / (b.Time() - a.Time())
	return a.Value() + t*(b.Value()-a.Value())
}

func bakedPoint(frame, value float64) core.ControlPoint {
	const handle = 1.0 / 3.0
	return core.ControlPoint{
		Co:              core.Vec2{frame, value},
		HandleLeft:      core.Vec2{frame - handle, value},
		HandleLeftType:  core.HandleAutoClamped,
		HandleRight:     core.Vec2{frame + handle, value},
		HandleRightType: core.HandleAutoClamped,
		Interpolation:   core.InterpolationLinear,
		Easing:          core.EasingAuto,
		Amplitude:       core.DefaultAmplitude,
		Back:            core.DefaultBack,
		Period:          core.DefaultPeriod,
		Type:            core.KeyframeNormal,
	}
}
