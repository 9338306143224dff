// Package particle provides the value types shared by the fireworks
// simulation: tunable ranges, keyframe curves and the injectable random
// source that every randomized decision draws from.
package particle

import "fmt"

// Range is a closed interval sampled uniformly.
//
// Configuration files write ranges the same way for every field:
//   - Fixed value: "0.9" (Min == Max)
//   - Range: "[520 720]"
//   - YAML sequence: [520, 720]
type Range struct {
	Min float64
	Max float64
}

// Fixed returns a degenerate range that always samples v.
func Fixed(v float64) Range {
	return Range{Min: v, Max: v}
}

// R is shorthand for Range{Min: min, Max: max}.
func R(min, max float64) Range {
	return Range{Min: min, Max: max}
}

// Sample draws a value in [Min, Max) from src.
func (r Range) Sample(src Source) float64 {
	return RandomInRange(src, r.Min, r.Max)
}

// Scaled returns the range with both ends multiplied by k.
func (r Range) Scaled(k float64) Range {
	return Range{Min: r.Min * k, Max: r.Max * k}
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Valid reports whether Min <= Max.
func (r Range) Valid() bool {
	return r.Min <= r.Max
}

// String renders the range in configuration syntax.
func (r Range) String() string {
	if r.Min == r.Max {
		return fmt.Sprintf("%g", r.Min)
	}
	return fmt.Sprintf("[%g %g]", r.Min, r.Max)
}
