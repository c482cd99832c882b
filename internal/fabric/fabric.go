// Package fabric implements the Elastic Interval Geometry inner physics
// loop: an in-memory truss of joints connected by push/pull intervals,
// advanced one deterministic sub-step at a time.
package fabric

import (
	"math"

	"github.com/beautiful-code/crucible/internal/physics"
)

// SubStepDuration is the fixed simulated-time increment of one sub-step,
// 50 microseconds of fabric time. It is an untyped constant so that
// float64 Progress accounting sees exactly 50e-6 rather than the float32
// rounding of it.
const SubStepDuration = 50e-6

// MaxStableStrain is the configured bound past which a sub-step reports
// ErrUnstableStructure instead of continuing to integrate.
const MaxStableStrain float32 = 1.0

// Fabric is the in-memory truss: joints, intervals, faces, a monotonic
// sub-step age counter, and the scale mapping fabric units to
// millimetres. It is created fresh for each design and destroyed
// atomically; there is no persisted state.
type Fabric struct {
	Joints    []Joint
	Intervals []Interval
	Faces     []Face
	Materials []Material

	Age   uint64
	Scale float32

	// removedIntervals tracks holes left by RemoveInterval so indices
	// into Intervals stay stable for everything else that references
	// them by position.
	removedIntervals map[int]bool

	centroid      Vector3
	maxJointSpeed float32
	maxStrain     float32
}

// New creates an empty Fabric at unit scale with the default material
// catalogue.
func New(scale float32) *Fabric {
	if scale <= 0 {
		scale = 1
	}
	return &Fabric{
		Materials:        DefaultMaterials(),
		Scale:            scale,
		removedIntervals: make(map[int]bool),
	}
}

func (f *Fabric) requireJoint(index int) {
	if index < 0 || index >= len(f.Joints) {
		panic(IndexError{Kind: "joint", Index: index, Bound: len(f.Joints)})
	}
}

func (f *Fabric) requireInterval(id int) {
	if id < 0 || id >= len(f.Intervals) || f.removedIntervals[id] {
		panic(IndexError{Kind: "interval", Index: id, Bound: len(f.Intervals)})
	}
}

// AddJoint appends a new, unanchored joint and returns its index. A
// non-finite position is a programmer error and panics.
func (f *Fabric) AddJoint(position Vector3) int {
	if !position.IsFinite() {
		panic("fabric: AddJoint called with non-finite position")
	}
	f.Joints = append(f.Joints, NewJoint(position))
	return len(f.Joints) - 1
}

// materialFor returns the catalogue index for role, adding a synthetic
// entry if the default catalogue was replaced without one.
func (f *Fabric) materialFor(role Role) int {
	for i, m := range f.Materials {
		if m.Role == role {
			return i
		}
	}
	def := DefaultMaterials()
	for _, m := range def {
		if m.Role == role {
			f.Materials = append(f.Materials, m)
			return len(f.Materials) - 1
		}
	}
	return 0
}

// AddInterval creates an interval between alpha and omega with the given
// role, preferred length, and stiffness coefficient. alpha must differ
// from omega and both must reference live joints; ideal must be positive.
func (f *Fabric) AddInterval(alpha, omega int, role Role, ideal, stiffness float32) int {
	f.requireJoint(alpha)
	f.requireJoint(omega)
	if alpha == omega {
		panic("fabric: AddInterval called with alpha == omega")
	}
	if ideal <= 0 {
		panic("fabric: AddInterval called with non-positive ideal length")
	}
	iv := NewInterval(alpha, omega, role, ideal, stiffness, f.materialFor(role))
	f.Intervals = append(f.Intervals, iv)
	return len(f.Intervals) - 1
}

// AddIntervalRamped is AddInterval plus an armed ideal-length ramp from
// rampFrom to ideal over rampSteps sub-steps.
func (f *Fabric) AddIntervalRamped(alpha, omega int, role Role, rampFrom, ideal, stiffness float32, rampSteps int) int {
	id := f.AddInterval(alpha, omega, role, rampFrom, stiffness)
	f.Intervals[id].StartRamp(ideal, rampSteps)
	return id
}

// RemoveInterval deletes one interval. It releases no other objects: any
// joint left with no other incident interval simply goes inert.
func (f *Fabric) RemoveInterval(id int) {
	f.requireInterval(id)
	f.removedIntervals[id] = true
}

// IntervalLive reports whether id still refers to a non-removed interval.
func (f *Fabric) IntervalLive(id int) bool {
	return id >= 0 && id < len(f.Intervals) && !f.removedIntervals[id]
}

// AddFace appends a face and returns its index. Faces carry no physics.
func (f *Fabric) AddFace(a, b, c int, chirality Chirality) int {
	f.requireJoint(a)
	f.requireJoint(b)
	f.requireJoint(c)
	if a == b || b == c || a == c {
		panic("fabric: AddFace requires three distinct joints")
	}
	f.Faces = append(f.Faces, Face{A: a, B: b, C: c, Chirality: chirality})
	return len(f.Faces) - 1
}

// Iterate runs subSteps deterministic sub-steps under profile. It returns
// the first UnstableStructureError encountered, having applied every
// sub-step before the offending one; the offending sub-step stops partway
// and does not advance Age.
func (f *Fabric) Iterate(profile physics.Profile, subSteps int) error {
	for i := 0; i < subSteps; i++ {
		if err := f.substep(profile); err != nil {
			return err
		}
	}
	return nil
}

func (f *Fabric) substep(profile physics.Profile) error {
	for i := range f.Joints {
		f.Joints[i].resetForce()
	}

	for id := range f.Intervals {
		if f.removedIntervals[id] {
			continue
		}
		iv := &f.Intervals[id]
		material := f.Materials[iv.MaterialIndex]
		iv.iterate(f.Joints, profile, material)
		if abs32(iv.Strain) > MaxStableStrain {
			return UnstableStructureError{IntervalID: id, Strain: iv.Strain}
		}
	}

	for i := range f.Joints {
		f.Joints[i].finalizeInverseMass()
	}

	maxSpeedSq := float32(0)
	for i := range f.Joints {
		j := &f.Joints[i]
		if !j.Anchored {
			f.integrateJoint(j, profile)
		}
		speedSq := j.Velocity.LengthSquared()
		if speedSq > maxSpeedSq {
			maxSpeedSq = speedSq
		}
		if !j.Position.IsFinite() {
			// Arithmetic blow-up is an instability, not an index bug.
			return UnstableStructureError{IntervalID: -1, Strain: f.maxStrain}
		}
	}
	f.maxJointSpeed = sqrt32(maxSpeedSq)

	f.recomputeCentroidAndStrain()
	f.Age++
	return nil
}

func (f *Fabric) integrateJoint(j *Joint, profile physics.Profile) {
	dt := float32(SubStepDuration)

	j.Velocity.Y -= profile.Gravity * dt

	if j.invMass > 0 {
		j.Velocity = j.Velocity.Scale(1 - profile.Drag).Add(j.force.Scale(j.invMass))
	} else {
		j.Velocity = j.Velocity.Scale(1 - profile.Drag)
	}

	j.Position = j.Position.Add(j.Velocity.Scale(dt))

	if profile.Surface != physics.SurfaceAbsent && j.Position.Y < 0 {
		f.applySurface(j, profile)
	}
}

func (f *Fabric) applySurface(j *Joint, profile physics.Profile) {
	switch profile.Surface {
	case physics.SurfaceFrozen:
		j.Position.Y = 0
		j.Velocity = Vector3{}
		j.touchedFrozenSurface = true
		j.Anchored = true
	case physics.SurfaceBouncy:
		j.Position.Y = -j.Position.Y
		j.Velocity.Y = -j.Velocity.Y * physics.BounceRestitution
		j.Velocity.X *= physics.BounceFriction
		j.Velocity.Z *= physics.BounceFriction
	}
}

func (f *Fabric) recomputeCentroidAndStrain() {
	var sum Vector3
	count := 0
	maxStrain := float32(0)
	for i := range f.Joints {
		sum = sum.Add(f.Joints[i].Position)
		count++
	}
	if count > 0 {
		sum = sum.Scale(1 / float32(count))
	}
	f.centroid = sum

	for id := range f.Intervals {
		if f.removedIntervals[id] {
			continue
		}
		if s := abs32(f.Intervals[id].Strain); s > maxStrain {
			maxStrain = s
		}
	}
	f.maxStrain = maxStrain
}

// MaxJointSpeed returns the largest joint speed observed in the most
// recently completed sub-step.
func (f *Fabric) MaxJointSpeed() float32 { return f.maxJointSpeed }

// MaxStrain returns the largest |strain| observed in the most recently
// completed sub-step.
func (f *Fabric) MaxStrain() float32 { return f.maxStrain }

// Centroid returns the mean joint position as of the most recently
// completed sub-step.
func (f *Fabric) Centroid() Vector3 { return f.centroid }

// Centralize translates the fabric so the centroid's XZ lands on the
// origin and the lowest joint sits at targetAltitude (in fabric units,
// already accounting for Scale).
func (f *Fabric) Centralize(targetAltitude float32) {
	if len(f.Joints) == 0 {
		return
	}
	var sum Vector3
	minY := float32(math.MaxFloat32)
	for _, j := range f.Joints {
		sum = sum.Add(j.Position)
		if j.Position.Y < minY {
			minY = j.Position.Y
		}
	}
	mean := sum.Scale(1 / float32(len(f.Joints)))
	shift := Vector3{X: -mean.X, Y: targetAltitude - minY, Z: -mean.Z}
	for i := range f.Joints {
		f.Joints[i].Position = f.Joints[i].Position.Add(shift)
	}
}

// Altitude returns the lowest joint's Y coordinate, or zero for an empty
// fabric.
func (f *Fabric) Altitude() float32 {
	if len(f.Joints) == 0 {
		return 0
	}
	minY := f.Joints[0].Position.Y
	for _, j := range f.Joints[1:] {
		if j.Position.Y < minY {
			minY = j.Position.Y
		}
	}
	return minY
}

// SetAltitude shifts every joint's Y coordinate so the lowest joint sits
// exactly at y.
func (f *Fabric) SetAltitude(y float32) {
	if len(f.Joints) == 0 {
		return
	}
	delta := y - f.Altitude()
	for i := range f.Joints {
		f.Joints[i].Position.Y += delta
	}
}

// Finite reports whether every joint position is finite, the structure
// invariant a caller can check before trusting a snapshot.
func (f *Fabric) Finite() bool {
	for i := range f.Joints {
		if !f.Joints[i].Position.IsFinite() {
			return false
		}
	}
	return true
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
