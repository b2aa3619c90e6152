package schedule

import (
	"encoding/binary"
	"sort"

	iradix "github.com/hashicorp/go-immutable-radix/v2"
	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/network"
	"github.com/katalvlaran/rssched/transition"
)

// Vehicle is one vehicle's assignment: its type and its tour.
type Vehicle struct {
	Type ids.VehicleTypeId
	Tour Tour
}

// Schedule is the central aggregate: an immutable vehicle->tour mapping,
// train formations, and per-type transition cycles. Every mutator returns a
// new Schedule; unchanged substructure is shared with the original via
// hashicorp/go-immutable-radix's persistent tree, giving each edit O(log n)
// time and space instead of a full copy.
type Schedule struct {
	net *network.Network

	vehicles   *iradix.Tree[Vehicle]
	formation  *iradix.Tree[[]ids.VehicleId]
	transition *iradix.Tree[*transition.TransitionCycle]
	dummyTours *iradix.Tree[Tour]

	nextVehicleID uint32
}

func vehicleKey(id ids.VehicleId) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(id))
	return b
}

func vtypeKey(id ids.VehicleTypeId) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(id))
	return b
}

func serviceKey(n ids.NodeId) []byte {
	b := make([]byte, 3)
	b[0] = byte(n.Kind)
	binary.BigEndian.PutUint16(b[1:], n.Index)
	return b
}

func dummyKey(i uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, i)
	return b
}

// Empty constructs a Schedule with no vehicles over the given network.
func Empty(net *network.Network) *Schedule {
	return &Schedule{
		net:        net,
		vehicles:   iradix.New[Vehicle](),
		formation:  iradix.New[[]ids.VehicleId](),
		transition: iradix.New[*transition.TransitionCycle](),
		dummyTours: iradix.New[Tour](),
	}
}

// Network returns the network this schedule is built over.
func (s *Schedule) Network() *network.Network { return s.net }

// Vehicle looks up one vehicle's type and tour.
func (s *Schedule) Vehicle(v ids.VehicleId) (Vehicle, bool) {
	return s.vehicles.Get(vehicleKey(v))
}

// VehicleIds returns every vehicle id currently in service, ascending.
func (s *Schedule) VehicleIds() []ids.VehicleId {
	out := make([]ids.VehicleId, 0, s.vehicles.Len())
	iter := s.vehicles.Root().Iterator()
	for {
		k, _, ok := iter.Next()
		if !ok {
			break
		}
		out = append(out, ids.VehicleId(binary.BigEndian.Uint32(k)))
	}
	return out
}

// VehicleCount returns the number of vehicles in service.
func (s *Schedule) VehicleCount() int { return s.vehicles.Len() }

// Formation returns the ordered list of vehicles covering a service node,
// index 0 tail, last front, per invariant 4.
func (s *Schedule) Formation(service ids.NodeId) []ids.VehicleId {
	v, ok := s.formation.Get(serviceKey(service))
	if !ok {
		return nil
	}
	out := make([]ids.VehicleId, len(v))
	copy(out, v)
	return out
}

// TransitionCycle returns the transition cycle for a vehicle type.
func (s *Schedule) TransitionCycle(t ids.VehicleTypeId) (*transition.TransitionCycle, bool) {
	return s.transition.Get(vtypeKey(t))
}

// DummyTourCount returns the number of temporary dummy tours currently held
// — must be zero on any schedule returned as a final result.
func (s *Schedule) DummyTourCount() int { return s.dummyTours.Len() }

// clone produces a shallow copy of s with the same persistent-tree roots;
// callers mutate the copy's fields via Txn-based inserts, leaving s
// untouched. This is the copy-on-write primitive every edit builds on.
func (s *Schedule) clone() *Schedule {
	cp := *s
	return &cp
}

// setVehicle returns a new Schedule with vehicle v set to veh, and rebuilds
// the formation entries for every service/maintenance node in veh's tour.
func (s *Schedule) setVehicle(v ids.VehicleId, veh Vehicle) *Schedule {
	next := s.clone()
	txn := next.vehicles.Txn()
	txn.Insert(vehicleKey(v), veh)
	next.vehicles = txn.Commit()

	ftxn := next.formation.Txn()
	for _, n := range veh.Tour.Nodes() {
		if n.IsDepot() {
			continue
		}
		existing, _ := ftxn.Get(serviceKey(n))
		updated := insertVehicleSorted(existing, v)
		ftxn.Insert(serviceKey(n), updated)
	}
	next.formation = ftxn.Commit()
	return next
}

// removeVehicle returns a new Schedule with vehicle v removed entirely,
// along with its formation entries.
func (s *Schedule) removeVehicle(v ids.VehicleId) *Schedule {
	veh, ok := s.Vehicle(v)
	if !ok {
		return s
	}
	next := s.clone()
	txn := next.vehicles.Txn()
	txn.Delete(vehicleKey(v))
	next.vehicles = txn.Commit()

	ftxn := next.formation.Txn()
	for _, n := range veh.Tour.Nodes() {
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

func insertVehicleSorted(list []ids.VehicleId, v ids.VehicleId) []ids.VehicleId {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	out := append(append([]ids.VehicleId{}, list...), v)
	sort.Slice(out, func(i, j int) bool { return ids.CompareVehicleIds(out[i], out[j]) < 0 })
	return out
}

func removeVehicleSorted(list []ids.VehicleId, v ids.VehicleId) []ids.VehicleId {
	out := make([]ids.VehicleId, 0, len(list))
	for _, existing := range list {
		if existing != v {
			out = append(out, existing)
		}
	}
	return out
}

// depotOccupancy counts the vehicles currently housed at each depot, keyed
// off the depot of every tour's start node. Edit operations consult it to
// keep depots within their vehicle capacity.
func (s *Schedule) depotOccupancy() map[ids.DepotId]int {
	out := make(map[ids.DepotId]int)
	for _, v := range s.VehicleIds() {
		veh, ok := s.Vehicle(v)
		if !ok {
			continue
		}
		if node, found := s.net.Node(veh.Tour.StartDepot()); found {
			out[node.Depot()]++
		}
	}
	return out
}

// ServiceSatisfied reports whether a service node's demand is currently met
// by its formation size.
func (s *Schedule) ServiceSatisfied(service ids.NodeId) bool {
	node, ok := s.net.Node(service)
	if !ok {
		return true
	}
	return len(s.Formation(service)) >= node.Demand()
}

// UnservedPassengers sums, over every service node, the shortfall between
// required demand and the vehicles currently covering it — feeds the
// unservedPassengers objective level directly.
func (s *Schedule) UnservedPassengers() int {
	total := 0
	for _, svc := range s.net.AllServiceNodes() {
		node, _ := s.net.Node(svc)
		have := len(s.Formation(svc))
		if have < node.Demand() {
			total += node.Demand() - have
		}
	}
	return total
}
