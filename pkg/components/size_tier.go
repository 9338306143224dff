package components

// SizeTier is the immutable scale bundle a rocket receives at spawn.
// Every particle the rocket creates (trail, head, sparks, ring) inherits it.
type SizeTier struct {
	Name     string  // bucket name from configuration ("small", "normal", ...)
	Particle float64 // particle size multiplier
	Radius   float64 // burst radius / count multiplier
	Life     float64 // particle lifetime multiplier
}
