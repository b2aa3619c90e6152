package transition

import (
	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/localsearch"
	"github.com/katalvlaran/rssched/objective"
	"github.com/katalvlaran/rssched/xtime"
)

// neighborhood wraps ThreeOpt as a localsearch.Neighborhood over
// *TransitionCycle.
type neighborhood struct{}

func (neighborhood) NeighborsOf(c *TransitionCycle) localsearch.Iterator[*TransitionCycle] {
	return localsearch.NewSliceIterator(ThreeOpt(c))
}

// buildObjective constructs the 2-level lexicographic objective
// (maintenanceViolation, maintenanceCounter) the transition-cycle inner
// search minimizes, backed by a cached cost function so
// repeated evaluation of each 3-opt candidate doesn't re-walk the caller's
// (potentially tour-derived) cost computation.
func buildObjective(cost CostFunc) objective.Objective[*TransitionCycle] {
	violation := objective.Level[*TransitionCycle]{
		Name: "maintenanceViolation",
		Terms: []objective.Term[*TransitionCycle]{
			{Coefficient: objective.IntCoefficient(1), Indicator: objective.Indicator[*TransitionCycle]{
				Name: "maintenanceViolation",
				Eval: func(c *TransitionCycle) objective.BaseValue { return objective.Int(int64(c.Violation(cost))) },
			}},
		},
	}
	counter := objective.Level[*TransitionCycle]{
		Name: "maintenanceCounter",
		Terms: []objective.Term[*TransitionCycle]{
			{Coefficient: objective.IntCoefficient(1), Indicator: objective.Indicator[*TransitionCycle]{
				Name: "maintenanceCounter",
				Eval: func(c *TransitionCycle) objective.BaseValue { return objective.Int(int64(c.Counter(cost))) },
			}},
		},
	}
	return objective.New(violation, counter)
}

// Optimize runs the nested 3-opt local search over cycle, returning the
// local optimum found. It builds its own neighborhood and 2-level objective
// and drives its own localsearch.Engine instance — a nested solver in its
// own right, not a single function call.
func Optimize(cycle *TransitionCycle, cost CostFunc) (*TransitionCycle, localsearch.Stats, error) {
	cache := buildCostCache(cycle.Order(), cost)
	cachedCost := func(a, b ids.VehicleId) xtime.Duration {
		return xtime.Duration(int64(cache.at(a, b)))
	}

	obj := buildObjective(cachedCost)
	eng := &localsearch.Engine[*TransitionCycle]{
		Neighborhood: neighborhood{},
		Objective:    obj,
		Improver:     localsearch.Minimizer[*TransitionCycle]{},
	}
	seed := objective.Evaluate(obj, cycle)
	result, stats, err := eng.Run(seed)
	if err != nil {
		return cycle, stats, err
	}
	return result.Solution, stats, nil
}
