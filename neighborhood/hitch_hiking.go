package neighborhood

import (
	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/localsearch"
	"github.com/katalvlaran/rssched/schedule"
)

// AddTripForHitchHiking forces a maintenance node into a chosen vehicle's
// tour; if that produces a conflict path, the conflict is spawned into a
// new vehicle rather than discarded. This is the primary mechanism for
// balancing maintenance slots.
type AddTripForHitchHiking struct {
	MaintenanceNode ids.NodeId
	Config          Config
}

func (n AddTripForHitchHiking) NeighborsOf(s *schedule.Schedule) localsearch.Iterator[*schedule.Schedule] {
	vehicles := s.VehicleIds()
	idx := 0

	next := func() (*schedule.Schedule, bool) {
		for idx < len(vehicles) {
			v := vehicles[idx]
			idx++
			veh, ok := s.Vehicle(v)
			if !ok {
				continue
			}
			node, found := s.Network().Node(n.MaintenanceNode)
			if !found || !node.CompatibleWith(veh.Type) {
				continue
			}

			candidate, conflict, err := schedule.AddPathToVehicleTour(s, v, []ids.NodeId{n.MaintenanceNode})
			if err != nil {
				continue
			}
			if conflict == nil {
				return recomputeIfNeeded(candidate, []ids.NodeId{n.MaintenanceNode}, veh.Type, n.Config.MaintenanceBudget), true
			}

			result, ok := n.spawnConflictAndRetry(s, v, veh, conflict)
			if ok {
				return result, true
			}
		}
		return nil, false
	}
	return localsearch.NewFuncIterator(next)
}

// spawnConflictAndRetry removes every conflicting segment from v's tour,
// spawns a brand-new vehicle of the same type to carry the displaced nodes,
// and retries the maintenance-node insertion against the now-clear tour.
func (n AddTripForHitchHiking) spawnConflictAndRetry(s *schedule.Schedule, v ids.VehicleId, veh schedule.Vehicle, conflict []schedule.NodeRange) (*schedule.Schedule, bool) {
	cleared := s
	var conflictNodes []ids.NodeId
	for _, rng := range conflict {
		segment, ok := veh.Tour.Segment(rng.Start, rng.End)
		if !ok {
			continue
		}
		removed, err := schedule.RemoveSegment(cleared, v, rng.Start, rng.End)
		if err != nil {
			continue
		}
		cleared = removed
		conflictNodes = append(conflictNodes, segment...)
	}
	if len(conflictNodes) == 0 {
		return nil, false
	}

	spawned, _, err := schedule.SpawnVehicleForPath(cleared, veh.Type, conflictNodes)
	if err != nil {
		return nil, false
	}

	final, finalConflict, err := schedule.AddPathToVehicleTour(spawned, v, []ids.NodeId{n.MaintenanceNode})
	if err != nil || finalConflict != nil {
		return nil, false
	}
	return recomputeIfNeeded(final, []ids.NodeId{n.MaintenanceNode}, veh.Type, n.Config.MaintenanceBudget), true
}
