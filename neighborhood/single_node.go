package neighborhood

import (
	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/localsearch"
	"github.com/katalvlaran/rssched/schedule"
)

// SingleNodeAddRemove inserts a chosen service or maintenance node into a
// tour, or removes a single non-depot node. Pool
// lists the candidate nodes eligible for insertion — typically every
// under-served service node plus every maintenance node, supplied by the
// caller (the outer solver loop), since the neighborhood itself has no
// opinion on which nodes are worth trying to add.
type SingleNodeAddRemove struct {
	Pool   []ids.NodeId
	Config Config
}

func (n SingleNodeAddRemove) NeighborsOf(s *schedule.Schedule) localsearch.Iterator[*schedule.Schedule] {
	vehicles := s.VehicleIds()

	// removal cursor: (vehicleIdx, position)
	vi, pos := 0, 1
	// insertion cursor: (poolIdx, vehicleIdx)
	pi, ii := 0, 0
	phase := 0 // 0 = removals, 1 = insertions

	next := func() (*schedule.Schedule, bool) {
		for {
			switch phase {
			case 0:
				for vi < len(vehicles) {
					v := vehicles[vi]
					veh, ok := s.Vehicle(v)
					if !ok || pos >= veh.Tour.Len()-1 {
						vi++
						pos = 1
						continue
					}
					target := veh.Tour.At(pos)
					pos++
					if target.IsDepot() {
						continue
					}
					candidate, err := schedule.RemoveSegment(s, v, pos-1, pos-1)
					if err != nil {
						continue
					}
					return recomputeIfNeeded(candidate, []ids.NodeId{target}, veh.Type, n.Config.MaintenanceBudget), true
				}
				phase = 1
			case 1:
				for pi < len(n.Pool) {
					node := n.Pool[pi]
					for ii < len(vehicles) {
						v := vehicles[ii]
						veh, _ := s.Vehicle(v)
						ii++
						candidate, conflict, err := schedule.AddPathToVehicleTour(s, v, []ids.NodeId{node})
						if err != nil || conflict != nil {
							continue
						}
						return recomputeIfNeeded(candidate, []ids.NodeId{node}, veh.Type, n.Config.MaintenanceBudget), true
					}
					ii = 0
					pi++
				}
				return nil, false
			}
		}
	}
	return localsearch.NewFuncIterator(next)
}
