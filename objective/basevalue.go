// Package objective implements the hierarchical lexicographic objective
// framework: indicators over a solution type, linear combinations of
// indicators into levels, and an ordered vector of levels compared
// lexicographically. Generic over the solution type S, so the same
// framework serves both the outer schedule search and the inner
// transition-cycle search.
package objective

import (
	"fmt"
	"math"

	"github.com/katalvlaran/rssched/xtime"
)

// baseKind tags which arm of BaseValue is populated.
type baseKind uint8

const (
	kindZero baseKind = iota
	kindInteger
	kindFloat
	kindDuration
	kindMaximum
)

// BaseValue is the tagged scalar produced by an Indicator: an integer count,
// a float cost, a Duration, the neutral Zero, or the absorbing Maximum.
// Totally ordered: Zero < any finite value < Maximum.
type BaseValue struct {
	kind     baseKind
	intVal   int64
	floatVal float64
	durVal   xtime.Duration
}

// Zero is the neutral BaseValue.
var Zero = BaseValue{kind: kindZero}

// Maximum is the absorbing BaseValue: it dominates every other value under
// comparison and under addition.
var Maximum = BaseValue{kind: kindMaximum}

// Int constructs an Integer BaseValue.
func Int(v int64) BaseValue { return BaseValue{kind: kindInteger, intVal: v} }

// Float constructs a Float BaseValue.
func Float(v float64) BaseValue { return BaseValue{kind: kindFloat, floatVal: v} }

// FromDuration constructs a Duration BaseValue.
func FromDuration(d xtime.Duration) BaseValue { return BaseValue{kind: kindDuration, durVal: d} }

// asFloat returns a value's float representation for ordering and addition
// purposes; Zero is 0, Maximum is treated specially by callers before this
// is ever reached.
func (v BaseValue) asFloat() float64 {
	switch v.kind {
	case kindInteger:
		return float64(v.intVal)
	case kindFloat:
		return v.floatVal
	case kindDuration:
		return float64(v.durVal)
	default:
		return 0
	}
}

// Less implements the total order Zero < finite < Maximum.
func (v BaseValue) Less(other BaseValue) bool {
	if v.kind == kindMaximum {
		return false
	}
	if other.kind == kindMaximum {
		return v.kind != kindMaximum
	}
	if v.kind == kindZero {
		return other.kind != kindZero
	}
	if other.kind == kindZero {
		return false
	}
	return v.asFloat() < other.asFloat()
}

// Equal reports whether v and other compare equal under the BaseValue order.
func (v BaseValue) Equal(other BaseValue) bool {
	if v.kind == kindMaximum || other.kind == kindMaximum {
		return v.kind == kindMaximum && other.kind == kindMaximum
	}
	if v.kind == kindZero || other.kind == kindZero {
		return v.kind == other.kind
	}
	return v.asFloat() == other.asFloat()
}

// Add sums two BaseValues. Maximum absorbs; Zero is neutral; otherwise the
// result takes the wider of the two representations (Duration propagates
// over plain Integer/Float, matching Coefficient's multiplication table).
func (v BaseValue) Add(other BaseValue) BaseValue {
	if v.kind == kindMaximum || other.kind == kindMaximum {
		return Maximum
	}
	if v.kind == kindZero {
		return other
	}
	if other.kind == kindZero {
		return v
	}
	if v.kind == kindDuration || other.kind == kindDuration {
		return FromDuration(xtime.Duration(v.asFloat() + other.asFloat()))
	}
	if v.kind == kindFloat || other.kind == kindFloat {
		return Float(v.asFloat() + other.asFloat())
	}
	return Int(v.intVal + other.intVal)
}

func (v BaseValue) String() string {
	switch v.kind {
	case kindZero:
		return "0"
	case kindMaximum:
		return "max"
	case kindInteger:
		return fmt.Sprintf("%d", v.intVal)
	case kindFloat:
		return fmt.Sprintf("%g", v.floatVal)
	case kindDuration:
		return fmt.Sprintf("%ds", int64(v.durVal))
	default:
		return "?"
	}
}

// IntValue returns the integer reading of v for output serialization
// (Duration/Float values truncate toward zero; Zero reads as 0 and Maximum
// as math.MaxInt64 — callers producing human output should prefer String()).
func (v BaseValue) IntValue() int64 {
	switch v.kind {
	case kindMaximum:
		return math.MaxInt64
	case kindInteger:
		return v.intVal
	case kindFloat:
		return int64(v.floatVal)
	case kindDuration:
		return int64(v.durVal)
	default:
		return 0
	}
}
