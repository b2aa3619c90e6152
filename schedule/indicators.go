package schedule

import (
	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/objective"
)

// MaintenanceViolationIndicator sums, over every vehicle type's transition
// cycle, the amount by which its maintenance counter exceeds budget — the
// outermost default objective level.
func MaintenanceViolationIndicator() objective.Indicator[*Schedule] {
	return objective.Indicator[*Schedule]{
		Name: "maintenanceViolation",
		Eval: func(s *Schedule) objective.BaseValue {
			total := int64(0)
			for _, t := range vehicleTypesInUse(s) {
				cycle, ok := s.TransitionCycle(t)
				if !ok {
					continue
				}
				total += int64(cycle.Violation(s.costFuncFor(t)))
			}
			return objective.Int(total)
		},
	}
}

// UnservedPassengersIndicator counts the shortfall between required demand
// and formation size, summed over every service node.
func UnservedPassengersIndicator() objective.Indicator[*Schedule] {
	return objective.Indicator[*Schedule]{
		Name: "unservedPassengers",
		Eval: func(s *Schedule) objective.BaseValue { return objective.Int(int64(s.UnservedPassengers())) },
	}
}

// VehicleCountIndicator counts vehicles currently in service.
func VehicleCountIndicator() objective.Indicator[*Schedule] {
	return objective.Indicator[*Schedule]{
		Name: "vehicleCount",
		Eval: func(s *Schedule) objective.BaseValue { return objective.Int(int64(s.VehicleCount())) },
	}
}

// CostsIndicator sums the raw dead-head distance of every vehicle's tour,
// in meters. It is the costs level's fallback measurement when no cost
// rates are configured; with rates set, DefaultObjective builds the costs
// level from the distance and duration indicators scaled by per-km and
// per-hour coefficients instead, keeping every indicator a pure
// network-derived measurement.
func CostsIndicator() objective.Indicator[*Schedule] {
	return objective.Indicator[*Schedule]{
		Name: "costs",
		Eval: func(s *Schedule) objective.BaseValue {
			total := int64(0)
			for _, v := range s.VehicleIds() {
				veh, _ := s.Vehicle(v)
				nodes := veh.Tour.Nodes()
				for i := 1; i < len(nodes); i++ {
					d := s.net.Distance(nodes[i-1], nodes[i])
					if !d.IsInfinite() {
						total += int64(d)
					}
				}
			}
			return objective.Int(total)
		},
	}
}

// DeadheadDistanceIndicator is a selectable additional indicator,
// identical in computation to CostsIndicator but kept separate so an
// objective can include both a cost-weighted level and a raw-distance level
// independently.
func DeadheadDistanceIndicator() objective.Indicator[*Schedule] {
	ind := CostsIndicator()
	ind.Name = "deadheadDistance"
	return ind
}

// SeatDistanceTraveledIndicator sums seats times distance traveled over
// every vehicle's tour. The seat count per vehicle type lives in the
// input's vehicleTypes catalogue, threaded in by the caller via seatsOf.
func SeatDistanceTraveledIndicator(seatsOf func(ids.VehicleTypeId) int) objective.Indicator[*Schedule] {
	return objective.Indicator[*Schedule]{
		Name: "seatDistanceTraveled",
		Eval: func(s *Schedule) objective.BaseValue {
			total := int64(0)
			for _, v := range s.VehicleIds() {
				veh, _ := s.Vehicle(v)
				seats := int64(seatsOf(veh.Type))
				nodes := veh.Tour.Nodes()
				for i := 1; i < len(nodes); i++ {
					d := s.net.Distance(nodes[i-1], nodes[i])
					if !d.IsInfinite() {
						total += seats * int64(d)
					}
				}
			}
			return objective.Int(total)
		},
	}
}

// NumberOfDummyToursIndicator counts temporary dummy tours — must read zero
// on any terminal schedule.
func NumberOfDummyToursIndicator() objective.Indicator[*Schedule] {
	return objective.Indicator[*Schedule]{
		Name: "numberOfDummyTours",
		Eval: func(s *Schedule) objective.BaseValue { return objective.Int(int64(s.DummyTourCount())) },
	}
}

// MaintenanceCounterIndicator sums the raw maintenance counter (not just
// its violation) across every vehicle type's transition cycle.
func MaintenanceCounterIndicator() objective.Indicator[*Schedule] {
	return objective.Indicator[*Schedule]{
		Name: "maintenanceCounter",
		Eval: func(s *Schedule) objective.BaseValue {
			total := int64(0)
			for _, t := range vehicleTypesInUse(s) {
				cycle, ok := s.TransitionCycle(t)
				if !ok {
					continue
				}
				total += int64(cycle.Counter(s.costFuncFor(t)))
			}
			return objective.Int(total)
		},
	}
}

// vehicleTypesInUse returns the distinct set of vehicle types with at least
// one vehicle currently in service.
func vehicleTypesInUse(s *Schedule) []ids.VehicleTypeId {
	seen := make(map[ids.VehicleTypeId]bool)
	var out []ids.VehicleTypeId
	for _, v := range s.VehicleIds() {
		veh, _ := s.Vehicle(v)
		if !seen[veh.Type] {
			seen[veh.Type] = true
			out = append(out, veh.Type)
		}
	}
	return out
}

// VehicleTypesInUse exposes vehicleTypesInUse to callers outside the package
// (the solver orchestration layer needs it to know which types to recompute
// transitions for).
func (s *Schedule) VehicleTypesInUse() []ids.VehicleTypeId {
	return vehicleTypesInUse(s)
}

// DeadheadDurationIndicator sums the dead-head travel time of every
// vehicle's tour, in whole seconds — the duration counterpart to
// DeadheadDistanceIndicator, scaled by the per-hour cost rate inside the
// costs level.
func DeadheadDurationIndicator() objective.Indicator[*Schedule] {
	return objective.Indicator[*Schedule]{
		Name: "deadheadDuration",
		Eval: func(s *Schedule) objective.BaseValue {
			total := int64(0)
			for _, v := range s.VehicleIds() {
				veh, _ := s.Vehicle(v)
				nodes := veh.Tour.Nodes()
				for i := 1; i < len(nodes); i++ {
					total += int64(s.net.Duration(nodes[i-1], nodes[i]))
				}
			}
			return objective.Int(total)
		},
	}
}

// CostRates carries the cost coefficients of the input's config block, as
// applied to the costs level of the default objective. Both rates zero
// means no rates were configured: the costs level then reads raw dead-head
// distance in meters.
type CostRates struct {
	PerKilometer int64
	PerHour      int64
}

// DefaultObjective builds the default 4-level objective:
// maintenanceViolation, unservedPassengers, vehicleCount, costs, outer to
// inner. The costs level is a linear combination of dead-head distance and
// duration scaled by rates; with no rates configured it degrades to raw
// distance.
func DefaultObjective(rates CostRates) objective.Objective[*Schedule] {
	one := objective.IntCoefficient(1)
	level := func(ind objective.Indicator[*Schedule]) objective.Level[*Schedule] {
		return objective.Level[*Schedule]{Name: ind.Name, Terms: []objective.Term[*Schedule]{{Coefficient: one, Indicator: ind}}}
	}

	costs := objective.Level[*Schedule]{Name: "costs"}
	if rates.PerKilometer == 0 && rates.PerHour == 0 {
		costs.Terms = []objective.Term[*Schedule]{{Coefficient: one, Indicator: CostsIndicator()}}
	} else {
		if rates.PerKilometer != 0 {
			costs.Terms = append(costs.Terms, objective.Term[*Schedule]{
				Coefficient: objective.FloatCoefficient(float32(rates.PerKilometer) / 1000),
				Indicator:   DeadheadDistanceIndicator(),
			})
		}
		if rates.PerHour != 0 {
			costs.Terms = append(costs.Terms, objective.Term[*Schedule]{
				Coefficient: objective.FloatCoefficient(float32(rates.PerHour) / 3600),
				Indicator:   DeadheadDurationIndicator(),
			})
		}
	}

	return objective.New(
		level(MaintenanceViolationIndicator()),
		level(UnservedPassengersIndicator()),
		level(VehicleCountIndicator()),
		costs,
	)
}
