package objective

import "github.com/katalvlaran/rssched/xtime"

// Coefficient is either an integer or a floating-point multiplier applied to
// an Indicator's value within a Level's linear combination. Multiplying into
// a BaseValue preserves the operand's variant: Integer*Integer -> Integer,
// Integer*Duration -> Duration, anything*Maximum -> Maximum, anything*Zero
// -> Zero.
type Coefficient struct {
	isFloat  bool
	intVal   int32
	floatVal float32
}

// IntCoefficient constructs an integer Coefficient.
func IntCoefficient(v int32) Coefficient { return Coefficient{intVal: v} }

// FloatCoefficient constructs a floating-point Coefficient.
func FloatCoefficient(v float32) Coefficient { return Coefficient{isFloat: true, floatVal: v} }

// Apply multiplies the coefficient into a BaseValue, preserving variant per
// the table documented above.
func (c Coefficient) Apply(v BaseValue) BaseValue {
	switch v.kind {
	case kindZero:
		return Zero
	case kindMaximum:
		return Maximum
	case kindDuration:
		if c.isFloat {
			return FromDuration(scaleDuration(v.durVal, float64(c.floatVal)))
		}
		return FromDuration(scaleDuration(v.durVal, float64(c.intVal)))

	case kindFloat:
		if c.isFloat {
			return Float(v.floatVal * float64(c.floatVal))
		}
		return Float(v.floatVal * float64(c.intVal))
	case kindInteger:
		if c.isFloat {
			return Float(float64(v.intVal) * float64(c.floatVal))
		}
		return Int(v.intVal * int64(c.intVal))
	default:
		return Zero
	}
}

func scaleDuration(d xtime.Duration, factor float64) xtime.Duration {
	return xtime.Duration(float64(d) * factor)
}
