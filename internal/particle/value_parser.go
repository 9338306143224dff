package particle

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Keyframe represents a single keyframe in an animation curve.
// Used for transitions that are driven by normalized time (e.g. star layer fades).
type Keyframe struct {
	Time  float64 // Normalized time (0-1)
	Value float64 // Value at this keyframe
}

// interpolationKeywords are the easing names accepted in keyframe strings.
var interpolationKeywords = []string{"Linear", "EaseIn", "EaseOut", "FastInOutWeak"}

// ParseValue parses a value string from the tuning configuration.
// Supports multiple formats:
//   - Fixed value: "1500" → min=1500, max=1500, keyframes=nil
//   - Range: "[0.7 0.9]" → min=0.7, max=0.9, keyframes=nil
//   - Single bracket: "[2.6]" → min=max=2.6
//   - Keyframes: "0,0.55 1,0.10" → keyframes=[{0, 0.55}, {1, 0.10}]
//   - Interpolation: "EaseOut 0,1 1,0" → keyframes with interpolation="EaseOut"
//
// Unparseable input yields zeros; use ParseRange when an error is needed.
func ParseValue(s string) (min, max float64, keyframes []Keyframe, interpolation string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, nil, ""
	}

	// Check for range format: "[min max]" or "[value]"
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		parts := strings.Fields(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
		switch len(parts) {
		case 2:
			lo, err1 := strconv.ParseFloat(parts[0], 64)
			hi, err2 := strconv.ParseFloat(parts[1], 64)
			if err1 == nil && err2 == nil {
				return lo, hi, nil, ""
			}
		case 1:
			if v, err := strconv.ParseFloat(parts[0], 64); err == nil {
				return v, v, nil, ""
			}
		}
		return 0, 0, nil, ""
	}

	// Check for interpolation keywords
	for _, keyword := range interpolationKeywords {
		if strings.Contains(s, keyword) {
			interpolation = keyword
			s = strings.TrimSpace(strings.ReplaceAll(s, keyword, ""))
			break
		}
	}

	// Keyframes format: "time,value" pairs separated by spaces
	if strings.Contains(s, ",") {
		parts := strings.Fields(s)
		keyframes = make([]Keyframe, 0, len(parts))
		for _, part := range parts {
			pair := strings.Split(part, ",")
			if len(pair) != 2 {
				continue
			}
			t, err1 := strconv.ParseFloat(pair[0], 64)
			v, err2 := strconv.ParseFloat(pair[1], 64)
			if err1 == nil && err2 == nil {
				keyframes = append(keyframes, Keyframe{Time: t, Value: v})
			}
		}
		if len(keyframes) > 0 {
			return 0, 0, keyframes, interpolation
		}
		return 0, 0, nil, ""
	}

	// Fixed value format
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, v, nil, ""
	}
	return 0, 0, nil, ""
}

// ParseRange parses "[min max]", "[v]" or "v" into a Range.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("empty range")
	}
	if strings.Contains(s, ",") {
		return Range{}, fmt.Errorf("range %q: keyframes are not a range", s)
	}
	if strings.HasPrefix(s, "[") != strings.HasSuffix(s, "]") {
		return Range{}, fmt.Errorf("range %q: unbalanced brackets", s)
	}

	inner := strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	parts := strings.Fields(inner)
	if len(parts) == 0 || len(parts) > 2 {
		return Range{}, fmt.Errorf("range %q: want 1 or 2 numbers, got %d", s, len(parts))
	}
	for _, p := range parts {
		if _, err := strconv.ParseFloat(p, 64); err != nil {
			return Range{}, fmt.Errorf("range %q: %w", s, err)
		}
	}

	min, max, _, _ := ParseValue(s)
	return Range{Min: min, Max: max}, nil
}

// UnmarshalYAML accepts a scalar ("[1 2]", "1.5", 1.5) or a two-element sequence.
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseRange(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*r = parsed
		return nil
	case yaml.SequenceNode:
		var values []float64
		if err := node.Decode(&values); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		switch len(values) {
		case 1:
			*r = Fixed(values[0])
		case 2:
			*r = Range{Min: values[0], Max: values[1]}
		default:
			return fmt.Errorf("line %d: range sequence needs 1 or 2 values, got %d", node.Line, len(values))
		}
		return nil
	default:
		return fmt.Errorf("line %d: range must be a scalar or sequence", node.Line)
	}
}

// MarshalYAML writes the range in its string form.
func (r Range) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// EvaluateKeyframes calculates the interpolated value at time t (0-1)
// using the provided keyframes and interpolation mode.
//
// Parameters:
//   - keyframes: Array of keyframes (must be sorted by Time)
//   - t: Normalized time (0-1)
//   - interpolation: Interpolation mode ("Linear", "EaseIn", etc.)
//
// Returns the interpolated value at time t.
func EvaluateKeyframes(keyframes []Keyframe, t float64, interpolation string) float64 {
	if len(keyframes) == 0 {
		return 0
	}
	if len(keyframes) == 1 {
		return keyframes[0].Value
	}

	// Clamp t to [0, 1]
	t = math.Max(0, math.Min(1, t))

	if t < keyframes[0].Time {
		return keyframes[0].Value
	}

	// Find the keyframe interval containing t
	for i := 0; i < len(keyframes)-1; i++ {
		k0 := keyframes[i]
		k1 := keyframes[i+1]

		if t >= k0.Time && t <= k1.Time {
			duration := k1.Time - k0.Time
			if duration <= 0 {
				return k0.Value
			}
			ratio := (t - k0.Time) / duration

			switch interpolation {
			case "EaseIn":
				ratio = ratio * ratio // Quadratic ease-in
			case "EaseOut":
				ratio = 1 - (1-ratio)*(1-ratio) // Quadratic ease-out
			case "FastInOutWeak":
				ratio = ratio * ratio * (3 - 2*ratio)
			}
			return k0.Value + ratio*(k1.Value-k0.Value)
		}
	}

	// If t is beyond the last keyframe, return the last value
	return keyframes[len(keyframes)-1].Value
}
