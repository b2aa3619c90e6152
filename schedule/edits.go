package schedule

import (
	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/network"
)

// SpawnVehicleForPath creates a new vehicle of the given type carrying
// exactly the given path, wrapped between a chosen compatible start/end
// depot pair. It fails with Incompatible if the path violates vehicle-type
// compatibility, DepotFull if every compatible depot is at capacity, or
// InvariantBroken if no depot pair admits the resulting tour.
func SpawnVehicleForPath(s *Schedule, vtype ids.VehicleTypeId, path []ids.NodeId) (*Schedule, ids.VehicleId, error) {
	for _, n := range path {
		node, ok := s.net.Node(n)
		if !ok {
			return nil, 0, newInvariantBroken("path references unknown node %s", n)
		}
		if n.Kind == ids.Service && !node.CompatibleWith(vtype) {
			return nil, 0, newIncompatible("vehicle type %s cannot cover service node %s", vtype, n)
		}
	}

	startDepot, endDepot, depotID, err := chooseDepotPair(s.net, s.depotOccupancy(), vtype, path)
	if err != nil {
		return nil, 0, err
	}

	full := make([]ids.NodeId, 0, len(path)+2)
	full = append(full, startDepot)
	full = append(full, path...)
	full = append(full, endDepot)
	tour := NewTour(full)
	if verr := ValidateTour(tour, s.net); verr != nil {
		return nil, 0, newInvariantBroken("%s", verr)
	}

	v := ids.VehicleId(s.nextVehicleID)
	next := s.setVehicle(v, Vehicle{Type: vtype, Tour: tour})
	next.nextVehicleID = s.nextVehicleID + 1
	_ = depotID
	return next, v, nil
}

// chooseDepotPair picks the start/end depot pair, among those compatible
// with vtype and below their vehicle capacity, minimizing total dead-head
// to/from the path's own endpoints — the same criterion ImproveDepot uses,
// applied here at spawn time. occupancy counts vehicles already housed per
// depot; a depot at capacity is skipped, and if every otherwise-feasible
// depot is full the error is DepotFull for that reason.
func chooseDepotPair(net *network.Network, occupancy map[ids.DepotId]int, vtype ids.VehicleTypeId, path []ids.NodeId) (start, end ids.NodeId, depot ids.DepotId, err error) {
	if len(path) == 0 {
		return ids.NodeId{}, ids.NodeId{}, 0, newInvariantBroken("cannot spawn a vehicle for an empty path")
	}
	firstNode, lastNode := path[0], path[len(path)-1]

	bestCost := -1
	var bestStart, bestEnd ids.NodeId
	var bestDepot ids.DepotId
	found := false
	sawFull := false

	for _, depotID := range net.Depots() {
		allowed := false
		for _, t := range net.DepotAllowedTypes(depotID) {
			if t == vtype {
				allowed = true
				break
			}
		}
		if !allowed {
			continue
		}
		if capacity := net.DepotCapacity(depotID); capacity > 0 && occupancy[depotID] >= capacity {
			sawFull = true
			continue
		}
		depotStart, depotEnd, ok := net.DepotNodes(depotID)
		if !ok {
			continue
		}
		if !net.CanFollow(depotStart, firstNode) || !net.CanFollow(lastNode, depotEnd) {
			continue
		}
		d1 := net.Distance(depotStart, firstNode)
		d2 := net.Distance(lastNode, depotEnd)
		if d1.IsInfinite() || d2.IsInfinite() {
			continue
		}
		cost := int(d1) + int(d2)
		if !found || cost < bestCost {
			bestCost = cost
			bestStart, bestEnd, bestDepot = depotStart, depotEnd, depotID
			found = true
		}
	}
	if !found {
		if sawFull {
			return ids.NodeId{}, ids.NodeId{}, 0, newDepotFull("every depot compatible with %s is at capacity", vtype)
		}
		return ids.NodeId{}, ids.NodeId{}, 0, newInvariantBroken("no compatible depot pair admits this path")
	}
	return bestStart, bestEnd, bestDepot, nil
}

// insertionIndex finds the unique position, among a tour's internal
// (non-depot) positions, where path's first node belongs by start-time
// ordering.
func insertionIndex(net *network.Network, tour Tour, firstOfPath ids.NodeId) int {
	pathNode, _ := net.Node(firstOfPath)
	for i := 1; i < tour.Len()-1; i++ {
		existing, _ := net.Node(tour.At(i))
		if pathNode.Start().Less(existing.Start()) {
			return i
		}
	}
	return tour.Len() - 1
}

// AddPathToVehicleTour splices path into v's tour at the position time
// ordering determines. If the splice would violate the Tour invariant, the
// minimal conflict — the existing adjacent node that must be removed to
// admit path — is returned as the second result; the caller decides whether
// to accept it (typically by calling RemoveSegment first and retrying).
func AddPathToVehicleTour(s *Schedule, v ids.VehicleId, path []ids.NodeId) (*Schedule, []NodeRange, error) {
	veh, ok := s.Vehicle(v)
	if !ok {
		return nil, nil, newInvariantBroken("vehicle %s does not exist", v)
	}
	if len(path) == 0 {
		return s, nil, nil
	}
	for _, n := range path {
		node, found := s.net.Node(n)
		if !found {
			return nil, nil, newInvariantBroken("path references unknown node %s", n)
		}
		if n.Kind == ids.Service && !node.CompatibleWith(veh.Type) {
			return nil, nil, newIncompatible("vehicle %s (type %s) cannot cover %s", v, veh.Type, n)
		}
	}

	pos := insertionIndex(s.net, veh.Tour, path[0])
	candidate := veh.Tour.WithInserted(pos, path)
	if err := ValidateTour(candidate, s.net); err == nil {
		next := s.setVehicle(v, Vehicle{Type: veh.Type, Tour: candidate})
		return next, nil, nil
	}

	// Conflict: the existing node immediately preceding the insertion point
	// is the minimal blocker in the common case of a single bad adjacency.
	if pos > 0 && pos < veh.Tour.Len() {
		return nil, []NodeRange{{Vehicle: uint32(v), Start: pos - 1, End: pos - 1}}, nil
	}
	return nil, nil, newInvariantBroken("cannot determine a conflict path for this insertion")
}

// RemoveSegment removes the inclusive range [start,end] from v's tour. Fails
// if either endpoint is a depot, or if the resulting tour is invalid (e.g.
// the newly adjacent nodes violate CanFollow).
func RemoveSegment(s *Schedule, v ids.VehicleId, start, end int) (*Schedule, error) {
	veh, ok := s.Vehicle(v)
	if !ok {
		return nil, newInvariantBroken("vehicle %s does not exist", v)
	}
	if start < 0 || end >= veh.Tour.Len() || start > end {
		return nil, newInvariantBroken("segment [%d,%d] is out of range for vehicle %s", start, end, v)
	}
	if veh.Tour.At(start).IsDepot() || veh.Tour.At(end).IsDepot() {
		return nil, newInvariantBroken("cannot remove a depot endpoint from vehicle %s", v)
	}

	candidate := veh.Tour.WithRemoved(start, end)

	// Removing a tour's last non-depot node retires the vehicle outright —
	// a depot-only husk would still count toward vehicleCount and block the
	// merge moves the search exists to find.
	if !candidate.ContainsNonDepot() {
		next := s.removeVehicle(v)
		return markTransitionStale(next, veh.Type), nil
	}

	if err := ValidateTour(candidate, s.net); err != nil {
		return nil, newInvariantBroken("%s", err)
	}

	next := removeSegmentFormation(s, veh.Tour, start, end, v)
	next = next.setVehicle(v, Vehicle{Type: veh.Type, Tour: candidate})
	return maybeRecomputeForRemoval(next, veh.Tour, start, end, veh.Type), nil
}

// removeSegmentFormation strips the removed segment's nodes out of the
// formation before the vehicle's tour itself is updated, so setVehicle's
// re-registration pass sees a clean slate for this vehicle's remaining
// nodes.
func removeSegmentFormation(s *Schedule, tour Tour, start, end int, v ids.VehicleId) *Schedule {
	next := s.clone()
	ftxn := next.formation.Txn()
	for i := start; i <= end; i++ {
		n := tour.At(i)
		if n.IsDepot() {
			continue
		}
		existing, _ := ftxn.Get(serviceKey(n))
		updated := removeVehicleSorted(existing, v)
		if len(updated) == 0 {
			ftxn.Delete(serviceKey(n))
		} else {
			ftxn.Insert(serviceKey(n), updated)
		}
	}
	next.formation = ftxn.Commit()
	return next
}

// maybeRecomputeForRemoval invalidates the transition cycle whenever the
// removed segment touched a maintenance node — unconditionally, not gated
// on any further condition.
func maybeRecomputeForRemoval(s *Schedule, tour Tour, start, end int, vtype ids.VehicleTypeId) *Schedule {
	for i := start; i <= end; i++ {
		if tour.At(i).Kind == ids.Maintenance {
			return markTransitionStale(s, vtype)
		}
	}
	return s
}

// markTransitionStale drops the cached transition cycle for a vehicle type,
// so the next RecomputeTransitionsFor call rebuilds it from the current
// vehicle set rather than reusing a cycle that may reference a vehicle
// whose maintenance node just vanished.
func markTransitionStale(s *Schedule, t ids.VehicleTypeId) *Schedule {
	next := s.clone()
	txn := next.transition.Txn()
	txn.Delete(vtypeKey(t))
	next.transition = txn.Commit()
	return next
}

// ReassignAll moves every non-depot node of fromVehicle into toVehicle,
// subject to the same conflict rules as AddPathToVehicleTour; fromVehicle is
// retired from the schedule once emptied.
func ReassignAll(s *Schedule, from, to ids.VehicleId) (*Schedule, []NodeRange, error) {
	fromVeh, ok := s.Vehicle(from)
	if !ok {
		return nil, nil, newInvariantBroken("vehicle %s does not exist", from)
	}
	path := make([]ids.NodeId, 0, fromVeh.Tour.Len())
	for _, n := range fromVeh.Tour.Nodes() {
		if !n.IsDepot() {
			path = append(path, n)
		}
	}

	next, conflict, err := AddPathToVehicleTour(s, to, path)
	if err != nil {
		return nil, nil, err
	}
	if conflict != nil {
		return nil, conflict, nil
	}

	cleared := next.removeVehicle(from)
	return markTransitionStale(cleared, fromVeh.Type), nil, nil
}

// ImproveDepot recomputes the optimal start/end depot pair for v holding the
// tour's internal nodes fixed, minimizing total dead-head while respecting
// depot capacities: occupancy is counted with v's own current slot released,
// so the vehicle may always keep the depot it already holds. Idempotent:
// re-running it against its own output picks the same pair, since the
// criterion depends only on the (fixed) internal nodes.
func ImproveDepot(s *Schedule, v ids.VehicleId) (*Schedule, error) {
	veh, ok := s.Vehicle(v)
	if !ok {
		return nil, newInvariantBroken("vehicle %s does not exist", v)
	}
	internal := veh.Tour.Nodes()
	if veh.Tour.Len() <= 2 {
		return s, nil
	}
	internal = internal[1 : len(internal)-1]

	occupancy := s.depotOccupancy()
	if node, okNode := s.net.Node(veh.Tour.StartDepot()); okNode {
		occupancy[node.Depot()]--
	}

	start, end, _, err := chooseDepotPair(s.net, occupancy, veh.Type, internal)
	if err != nil {
		return nil, err
	}
	full := make([]ids.NodeId, 0, len(internal)+2)
	full = append(full, start)
	full = append(full, internal...)
	full = append(full, end)
	tour := NewTour(full)
	if verr := ValidateTour(tour, s.net); verr != nil {
		return nil, newInvariantBroken("%s", verr)
	}
	return s.setVehicle(v, Vehicle{Type: veh.Type, Tour: tour}), nil
}
