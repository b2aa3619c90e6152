package schedule

import (
	"sort"

	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/transition"
	"github.com/katalvlaran/rssched/xtime"
)

// costFuncFor builds a transition.CostFunc for vehicle type t from this
// schedule's own vehicle tours: the cost of vehicle a directly preceding
// vehicle b in the rota is the dead-head duration from a's end depot to b's
// start depot, the physical changeover a maintenance rota actually incurs.
func (s *Schedule) costFuncFor(t ids.VehicleTypeId) transition.CostFunc {
	return func(a, b ids.VehicleId) (d xtime.Duration) {
		vehA, okA := s.Vehicle(a)
		vehB, okB := s.Vehicle(b)
		if !okA || !okB {
			return 0
		}
		return s.net.Duration(vehA.Tour.EndDepot(), vehB.Tour.StartDepot())
	}
}

// RecomputeTransitionsFor rebuilds transition[t] for each listed vehicle
// type from the vehicles of that type currently in service, then runs the
// nested 3-opt local search to settle each rebuilt cycle onto a local
// optimum before returning it.
func RecomputeTransitionsFor(s *Schedule, types []ids.VehicleTypeId, budget int) (*Schedule, error) {
	next := s
	for _, t := range types {
		var vehicles []ids.VehicleId
		for _, v := range next.VehicleIds() {
			veh, _ := next.Vehicle(v)
			if veh.Type == t {
				vehicles = append(vehicles, v)
			}
		}
		sort.Slice(vehicles, func(i, j int) bool { return ids.CompareVehicleIds(vehicles[i], vehicles[j]) < 0 })

		cycle := transition.NewCycle(t, vehicles, budget)
		optimized, _, err := transition.Optimize(cycle, next.costFuncFor(t))
		if err != nil {
			return nil, newInvariantBroken("recompute transitions for %s: %s", t, err)
		}

		cp := next.clone()
		txn := cp.transition.Txn()
		txn.Insert(vtypeKey(t), optimized)
		cp.transition = txn.Commit()
		next = cp
	}
	return next, nil
}
