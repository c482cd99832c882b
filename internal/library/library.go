// Package library provides the read-only Brick/BakedBrick types the
// engine consumes and a minimal in-memory BrickLibrary implementation.
// The brick/fabric DSL and the procedural build phase that grows
// structures by attaching prebaked modules live outside the engine; this
// package only supplies the value types the Oven produces and the
// BrickLibrary interface a build phase would read from.
package library

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/beautiful-code/crucible/internal/fabric"
)

// ProtoInterval describes one interval of an unbaked Prototype.
type ProtoInterval struct {
	Alpha, Omega int
	Role         fabric.Role
	Ideal        float32
	Stiffness    float32
}

// ProtoFace names a triangle of joints in a Prototype that should survive
// into the baked brick's face list.
type ProtoFace struct {
	Name      string
	A, B, C   int
	Chirality fabric.Chirality
}

// Prototype is the unbaked source fabric fed to the Oven: scattered joint
// positions plus the intervals and faces that should hold them together
// once baked.
type Prototype struct {
	Name      string
	Joints    []fabric.Vector3
	Intervals []ProtoInterval
	Faces     []ProtoFace
}

// BakedInterval is one interval of a BakedBrick, frozen at bake time.
type BakedInterval struct {
	Alpha, Omega int
	Role         fabric.Role
	Ideal        float32
	Strain       float32
}

// BakedBrick is a reusable, immutable prebaked sub-fabric: joint
// positions, intervals with their settled ideals and strains, and named
// faces an external build phase can attach new substructures along.
type BakedBrick struct {
	ID        uuid.UUID
	Name      string
	Joints    []fabric.Vector3
	Intervals []BakedInterval
	Faces     map[string]ProtoFace
}

// BrickLibrary is a read-only lookup the external build phase consults;
// the physics inner loop never calls it.
type BrickLibrary interface {
	Lookup(name string) (*BakedBrick, bool)
}

// MapLibrary is an in-memory BrickLibrary keyed by brick name, shared
// read-only across bakes.
type MapLibrary struct {
	mu     sync.RWMutex
	bricks map[string]*BakedBrick
}

// NewMapLibrary creates an empty library.
func NewMapLibrary() *MapLibrary {
	return &MapLibrary{bricks: make(map[string]*BakedBrick)}
}

// Lookup implements BrickLibrary.
func (l *MapLibrary) Lookup(name string) (*BakedBrick, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.bricks[name]
	return b, ok
}

// Store registers a baked brick under its own name, overwriting any
// previous entry with that name.
func (l *MapLibrary) Store(b *BakedBrick) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bricks[b.Name] = b
}

// Names returns the registered brick names.
func (l *MapLibrary) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.bricks))
	for name := range l.bricks {
		names = append(names, name)
	}
	return names
}

// SingleRight is the canonical bootstrap prototype: three pushes of
// ideal 3.204 between three axis-pairs, three pulls of ideal 2.0
// closing them into a single alternating push/pull loop, joints
// scattered on the axes. Joint order is alpha/omega per axis: X pair,
// then Y pair, then Z pair.
func SingleRight() Prototype {
	const pushIdeal = 3.204
	const pullIdeal = 2.0
	joints := []fabric.Vector3{
		{X: pushIdeal / 2, Y: 0, Z: 0},
		{X: -pushIdeal / 2, Y: 0, Z: 0},
		{X: 0, Y: pushIdeal / 2, Z: 0},
		{X: 0, Y: -pushIdeal / 2, Z: 0},
		{X: 0, Y: 0, Z: pushIdeal / 2},
		{X: 0, Y: 0, Z: -pushIdeal / 2},
	}
	pushes := []ProtoInterval{
		{Alpha: 0, Omega: 1, Role: fabric.Push, Ideal: pushIdeal, Stiffness: 1},
		{Alpha: 2, Omega: 3, Role: fabric.Push, Ideal: pushIdeal, Stiffness: 1},
		{Alpha: 4, Omega: 5, Role: fabric.Push, Ideal: pushIdeal, Stiffness: 1},
	}
	// Each pull ties one push's alpha to the preceding axis's omega (X to
	// Z, Y to X, Z to Y), so the six intervals form one closed hexagonal
	// circuit.
	pulls := []ProtoInterval{
		{Alpha: 0, Omega: 5, Role: fabric.Pull, Ideal: pullIdeal, Stiffness: 1},
		{Alpha: 2, Omega: 1, Role: fabric.Pull, Ideal: pullIdeal, Stiffness: 1},
		{Alpha: 4, Omega: 3, Role: fabric.Pull, Ideal: pullIdeal, Stiffness: 1},
	}
	faces := []ProtoFace{
		{Name: "base", A: 4, B: 2, C: 0, Chirality: fabric.Right},
		{Name: "top", A: 1, B: 3, C: 5, Chirality: fabric.Right},
	}
	return Prototype{
		Name:      "single-right",
		Joints:    joints,
		Intervals: append(pushes, pulls...),
		Faces:     faces,
	}
}

// NewBakedBrickID generates a fresh identifier for a just-baked brick.
func NewBakedBrickID() uuid.UUID {
	return uuid.New()
}

func (p Prototype) String() string {
	return fmt.Sprintf("Prototype(%s: %d joints, %d intervals)", p.Name, len(p.Joints), len(p.Intervals))
}
