package core

// Curves is the host's curve container (an action): a named set of channels,
// unique per Key, organised in groups.
type Curves interface {
	// Name returns the action name.
	Name() string
	// Groups returns the organisational groups in host order.
	Groups() []Group
	// Channels returns every channel, grouped or not, in host order.
	Channels() []Channel
	// Channel looks up the channel with the given key.
	Channel(key Key) (Channel, bool)
	// NewChannel creates an empty channel. It fails if the key is taken.
	NewChannel(key Key, group string) (Channel, error)
	// RemoveChannel deletes the channel with the given key.
	RemoveChannel(key Key) error
}

// Group is an organisational label shared by related channels.
type Group interface {
	Name() string
	Channels() []Channel
}

// Channel is the animation curve of one scalar component of one property.
type Channel interface {
	Key() Key
	// Group returns the name of the group the channel belongs to, or "".
	Group() string
	// Points returns the control points ordered by time. A sampled channel has none.
	Points() []ControlPoint
	// Sampled reports whether the channel stores a baked per-frame table
	// instead of control points.
	Sampled() bool
	// Range returns the first and last frame covered by the channel.
	Range() (start, end float64)
	// ConvertToKeyframes turns the sampled table within [start, end] into control points.
	ConvertToKeyframes(start, end int) error
	// ConvertToSamples bakes the control points into a table covering [start, end].
	ConvertToSamples(start, end int) error
	// Insert adds a control point in time order, replacing one at the same time.
	Insert(p ControlPoint) error
	// Clear removes all control points and samples.
	Clear()
}

// AnimationData is the animation container attached to a target object.
type AnimationData interface {
	// Action returns the active action, or nil.
	Action() Curves
	SetAction(action Curves)
}

// Target is an object that can carry animation data.
type Target interface {
	Name() string
	// AnimationData returns the attached container, or nil.
	AnimationData() AnimationData
	CreateAnimationData() AnimationData
	ClearAnimationData()
}

// ActionFactory creates named actions in the host's data store.
type ActionFactory interface {
	NewAction(name string) (Curves, error)
}

// Level is the severity of a user-facing report.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// Reporter renders messages to the user. The host decides how.
type Reporter interface {
	Report(level Level, msg string)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(level Level, msg string)

// Report implements Reporter.
func (f ReporterFunc) Report(level Level, msg string) { f(level, msg) }

// activeAction returns the active action of the target, or nil.
func activeAction(t Target) Curves {
	ad := t.AnimationData()
	if ad == nil {
		return nil
	}
	return ad.Action()
}
