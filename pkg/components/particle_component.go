package components

import (
	"image/color"

	"github.com/gonewx/fireworks/pkg/ecs"
)

// ParticleKind identifies which visual family a particle belongs to.
// Each kind has its own handle free list in the pool.
type ParticleKind int

const (
	// KindTrail is the fading streak that follows a rocket.
	KindTrail ParticleKind = iota
	// KindHead is the bright leading dot of a rocket.
	KindHead
	// KindSpark covers both burst sparks and ring particles.
	KindSpark

	// KindCount is the number of particle kinds.
	KindCount
)

// String returns the kind name.
func (k ParticleKind) String() string {
	switch k {
	case KindTrail:
		return "trail"
	case KindHead:
		return "head"
	case KindSpark:
		return "spark"
	default:
		return "unknown"
	}
}

// OffscreenCoord is where released visuals are parked.
const OffscreenCoord = -9999.0

// VisualHandle refers to one reusable drawable slot in the pool's arena for Kind.
// A handle is owned by at most one live particle at a time.
type VisualHandle struct {
	Kind  ParticleKind
	Index int
}

// Visual is the render-facing state of one on-screen particle instance.
// The simulation writes it every tick; renderers only read it.
type Visual struct {
	X, Y     float64
	Rotation float64 // degrees, trail only (0 = pointing down the screen)
	Alpha    float64 // 0..1 frame opacity
	Width    float64
	Height   float64 // trail length; equals Width for dots
	Glow     float64 // glow radius in pixels
	Color    color.RGBA
	Attached bool // true while a live particle owns the handle
}

// Particle represents a single simulated particle.
//
// EntityID is a non-owning reference to the rocket that created it; the
// rocket may already be gone while the particle lives on.
//
// This is a pure data component following ECS principles - it contains no methods.
type Particle struct {
	Kind     ParticleKind
	EntityID ecs.EntityID

	// Position and velocity (像素, 像素/秒)
	X, Y   float64
	VX, VY float64

	// Lifecycle (秒)
	Age  float64
	Life float64

	Drag    float64 // per-frame drag at 60fps
	Opacity float64 // base opacity before fade
	Size    float64
	Twinkle bool
	Color   color.RGBA

	Handle VisualHandle
	Dead   bool
}
