// Package physics provides the named catalogue of physics profiles that
// drive a Fabric's sub-step. Profiles are immutable value records read
// field-by-field inside the hot loop; there is no dynamic dispatch on
// profile kind.
package physics

// SurfaceMode selects how a joint below the ground plane (Y < 0) behaves.
type SurfaceMode int

const (
	// SurfaceAbsent disables ground interaction entirely.
	SurfaceAbsent SurfaceMode = iota
	// SurfaceFrozen clamps a joint to the floor and latches it there
	// permanently once touched.
	SurfaceFrozen
	// SurfaceBouncy reflects a joint's vertical velocity with restitution
	// and damps its horizontal velocity with friction.
	SurfaceBouncy
)

func (m SurfaceMode) String() string {
	switch m {
	case SurfaceAbsent:
		return "absent"
	case SurfaceFrozen:
		return "frozen"
	case SurfaceBouncy:
		return "bouncy"
	default:
		return "unknown"
	}
}

// Bouncy surface coefficients. Restitution below 1 keeps mechanical
// (kinetic plus potential) energy monotonically decreasing after first
// ground contact.
const (
	BounceRestitution = 0.5
	BounceFriction    = 0.9
)

// Profile is an immutable bundle of scalar physics parameters for one
// Crucible stage. Transition between profiles is instantaneous; there is
// no interpolation between two Profile values.
type Profile struct {
	Name string

	// Gravity is a downward acceleration magnitude (fabric units / s^2).
	Gravity float32
	// Drag is the velocity damping coefficient applied every sub-step:
	// velocity *= (1 - Drag).
	Drag float32
	// GlobalStiffness multiplies every interval's own stiffness
	// coefficient in the spring force calculation.
	GlobalStiffness float32
	// Pretenst is the target fractional strain pull intervals are driven
	// toward during pretensing.
	Pretenst float32
	// Viscosity scales the axial damping force proportional to relative
	// endpoint velocity along an interval's axis.
	Viscosity float32
	// Surface selects the ground-plane interaction rule.
	Surface SurfaceMode
	// TimeScale is the nominal ratio of simulated seconds to wall-clock
	// seconds this profile targets; see Crucible.TargetTimeScale.
	TimeScale float32
}

// WithDrag returns a copy of p with Drag replaced. Profiles are value
// types, so stage controllers that ramp drag over time (Converger,
// Settler) build successive copies rather than mutating a shared one.
func (p Profile) WithDrag(drag float32) Profile {
	p.Drag = drag
	return p
}

// Construction is used while the build phase grows a structure: fast,
// ungoverned by gravity, no floor.
var Construction = Profile{
	Name:            "construction",
	Gravity:         0,
	Drag:            0.001,
	GlobalStiffness: 1.0,
	Viscosity:       0.001,
	Surface:         SurfaceAbsent,
	TimeScale:       5.0,
}

// Pretensing drives pull intervals toward their target resting tension
// with gradually rising damping and no gravity.
var Pretensing = Profile{
	Name:            "pretensing",
	Gravity:         0,
	Drag:            0.01,
	GlobalStiffness: 1.0,
	Pretenst:        0.1,
	Viscosity:       0.001,
	Surface:         SurfaceAbsent,
	TimeScale:       5.0,
}

// Viewing freezes the simulation: iteration becomes a no-op because its
// TimeScale is zero, so a host never schedules sub-steps for it.
var Viewing = Profile{
	Name:            "viewing",
	Gravity:         0,
	Drag:            0,
	GlobalStiffness: 1.0,
	Surface:         SurfaceAbsent,
	TimeScale:       0,
}

// PhysicsTest runs at real time with gravity on and a low damping floor;
// SurfaceMode should be set to the design's declared surface character by
// the caller (it defaults to Bouncy here as a reasonable default).
var PhysicsTest = Profile{
	Name:            "physics-test",
	Gravity:         9.8,
	Drag:            0.0002,
	GlobalStiffness: 1.0,
	Viscosity:       0.001,
	Surface:         SurfaceBouncy,
	TimeScale:       1.0,
}

// Custom builds a fifth, caller-defined profile from the same fields as
// the four named ones.
func Custom(fields Profile) Profile {
	if fields.Name == "" {
		fields.Name = "custom"
	}
	return fields
}
