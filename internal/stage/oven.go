package stage

import (
	"github.com/beautiful-code/crucible/internal/fabric"
	"github.com/beautiful-code/crucible/internal/library"
	"github.com/beautiful-code/crucible/internal/physics"
	"github.com/beautiful-code/crucible/internal/radio"
)

// OvenSettleThreshold is the maximum joint speed the Oven waits for
// before considering a prototype baked.
const OvenSettleThreshold float32 = 3e-6

// OvenReferenceStrain and OvenStrainTolerance bound the post-bake strain
// check against each pull face interval.
const (
	OvenReferenceStrain  float32 = 0.1
	OvenStrainTolerance  float32 = 0.01
	ovenDefaultMaxSteps          = 100_000
)

// Oven bakes a Prototype into a BakedBrick: it iterates Construction
// physics until velocities vanish, then validates that pull face
// intervals have converged to a reference strain.
type Oven struct {
	fab      *fabric.Fabric
	proto    library.Prototype
	radio    radio.Radio
	maxSteps int
	steps    int
}

// NewOven builds the prototype's working Fabric and returns a controller
// ready to bake it.
func NewOven(proto library.Prototype, r radio.Radio) *Oven {
	fab := fabric.New(1)
	for _, p := range proto.Joints {
		fab.AddJoint(p)
	}
	for _, iv := range proto.Intervals {
		fab.AddInterval(iv.Alpha, iv.Omega, iv.Role, iv.Ideal, iv.Stiffness)
	}
	for _, fc := range proto.Faces {
		fab.AddFace(fc.A, fc.B, fc.C, fc.Chirality)
	}
	return &Oven{fab: fab, proto: proto, radio: r, maxSteps: ovenDefaultMaxSteps}
}

// Fabric exposes the prototype's working fabric, e.g. for a Crucible to
// adopt as its active fabric while baking.
func (o *Oven) Fabric() *fabric.Fabric { return o.fab }

// Iterate implements Controller: it runs up to nominalSubSteps
// Construction sub-steps per call, reporting Done once settled and
// validated, or Failed with OvenDidNotSettle/OvenBadStrain.
func (o *Oven) Iterate(nominalSubSteps int) Outcome {
	if err := o.fab.Iterate(physics.Construction, nominalSubSteps); err != nil {
		o.radio.Broadcast(radio.Event{Kind: radio.Error, ErrorKind: "UnstableStructure", Message: err.Error()})
		return failedOutcome(UnstableStructure, "unstable during bake: %v", err)
	}
	o.steps += nominalSubSteps

	if o.fab.MaxJointSpeed() >= OvenSettleThreshold {
		if o.steps >= o.maxSteps {
			return failedOutcome(OvenDidNotSettle, "exceeded %d sub-steps without settling", o.maxSteps)
		}
		return continueOutcome()
	}

	if !o.validateFaceStrain() {
		return failedOutcome(OvenBadStrain, "face interval strain outside ±%.3f of %.3f", OvenStrainTolerance, OvenReferenceStrain)
	}
	return doneOutcome()
}

func (o *Oven) validateFaceStrain() bool {
	faceJoints := map[int]bool{}
	for _, fc := range o.fab.Faces {
		faceJoints[fc.A] = true
		faceJoints[fc.B] = true
		faceJoints[fc.C] = true
	}
	for _, iv := range o.fab.Intervals {
		if iv.Role != fabric.Pull {
			continue
		}
		if !faceJoints[iv.Alpha] || !faceJoints[iv.Omega] {
			continue
		}
		diff := iv.Strain - OvenReferenceStrain
		if diff < -OvenStrainTolerance || diff > OvenStrainTolerance {
			return false
		}
	}
	return true
}

// Bake assembles the current fabric state into a BakedBrick. It should
// only be called once Iterate has returned Done.
func (o *Oven) Bake() *library.BakedBrick {
	positions := make([]fabric.Vector3, len(o.fab.Joints))
	for i, j := range o.fab.Joints {
		positions[i] = j.Position
	}
	intervals := make([]library.BakedInterval, 0, len(o.fab.Intervals))
	for _, iv := range o.fab.Intervals {
		intervals = append(intervals, library.BakedInterval{
			Alpha: iv.Alpha, Omega: iv.Omega, Role: iv.Role, Ideal: iv.Ideal, Strain: iv.Strain,
		})
	}
	faces := make(map[string]library.ProtoFace, len(o.proto.Faces))
	for _, fc := range o.proto.Faces {
		faces[fc.Name] = fc
	}
	return &library.BakedBrick{
		ID:        library.NewBakedBrickID(),
		Name:      o.proto.Name,
		Joints:    positions,
		Intervals: intervals,
		Faces:     faces,
	}
}
