// Package radio defines the broadcast event sink the Crucible pushes
// telemetry and lifecycle events into. It is a broadcast queue, not a
// listener graph: the core never calls back into a Radio implementation
// beyond Broadcast, and expects no response.
package radio

import "fmt"

// EventKind enumerates the event kinds the core is required to emit.
type EventKind int

const (
	StageEntered EventKind = iota
	FabricBuilt
	UpdateTime
	Error
	DisableConvergence
)

func (k EventKind) String() string {
	switch k {
	case StageEntered:
		return "StageEntered"
	case FabricBuilt:
		return "FabricBuilt"
	case UpdateTime:
		return "UpdateTime"
	case Error:
		return "Error"
	case DisableConvergence:
		return "DisableConvergence"
	default:
		return "Unknown"
	}
}

// Event is one broadcast message. Fields not relevant to Kind are zero.
type Event struct {
	Kind EventKind

	// StageEntered
	Stage string

	// UpdateTime
	FPS       float64
	TimeScale float32

	// Error
	ErrorKind string
	Message   string
}

func (e Event) String() string {
	switch e.Kind {
	case StageEntered:
		return fmt.Sprintf("StageEntered(%s)", e.Stage)
	case UpdateTime:
		return fmt.Sprintf("UpdateTime(fps=%.1f, scale=%.2f)", e.FPS, e.TimeScale)
	case Error:
		return fmt.Sprintf("Error(%s: %s)", e.ErrorKind, e.Message)
	default:
		return e.Kind.String()
	}
}

// Radio is the host-owned event sink the Crucible broadcasts into
// synchronously from within Iterate. Implementations must not block.
type Radio interface {
	Broadcast(Event)
}

// ChannelRadio is a Radio backed by a buffered Go channel, draining to
// whichever host goroutine reads it. Broadcast drops the event rather
// than blocking if the channel is full, since the core's single-threaded
// iterate loop must never suspend.
type ChannelRadio struct {
	events chan Event
}

// NewChannelRadio creates a ChannelRadio with the given buffer capacity.
func NewChannelRadio(capacity int) *ChannelRadio {
	if capacity <= 0 {
		capacity = 64
	}
	return &ChannelRadio{events: make(chan Event, capacity)}
}

// Broadcast implements Radio.
func (r *ChannelRadio) Broadcast(e Event) {
	select {
	case r.events <- e:
	default:
	}
}

// Events exposes the channel for a host to drain between Iterate calls.
func (r *ChannelRadio) Events() <-chan Event {
	return r.events
}

// NullRadio discards every event; useful for tests that don't care about
// telemetry.
type NullRadio struct{}

func (NullRadio) Broadcast(Event) {}
