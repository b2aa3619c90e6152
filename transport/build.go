package transport

import (
	"math"

	"github.com/pkg/errors"

	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/network"
	"github.com/katalvlaran/rssched/xtime"
)

// Catalogue is the vehicle-type lookup built from the input's vehicleTypes
// list. Shared-read-only alongside the Network: constructed once, never
// mutated.
type Catalogue struct {
	byID map[ids.VehicleTypeId]VehicleTypeInput
}

// Lookup returns the catalogue entry for a vehicle type.
func (c *Catalogue) Lookup(id ids.VehicleTypeId) (VehicleTypeInput, bool) {
	vt, ok := c.byID[id]
	return vt, ok
}

// Seats returns the seat count of a vehicle type, zero if unknown.
func (c *Catalogue) Seats(id ids.VehicleTypeId) int {
	return c.byID[id].Seats
}

// Capacity returns the passenger capacity of a vehicle type, zero if unknown.
func (c *Catalogue) Capacity(id ids.VehicleTypeId) int {
	return c.byID[id].Capacity
}

// Instance is the built, immutable form of one Input: the network, the
// vehicle-type catalogue, and the mapping from internal NodeIds back to the
// input document's own identifiers (needed to serialize output in the
// caller's id space).
type Instance struct {
	Net       *network.Network
	Types     *Catalogue
	Config    ConfigInput
	InputIDs  map[ids.NodeId]uint32
	DepotByID map[ids.DepotId]DepotInput
}

// Build turns a decoded Input into an Instance. Fails on schema-level
// inconsistencies: unknown location references, duplicate ids, or more nodes
// of one kind than a 16-bit index can address.
func Build(in Input) (*Instance, error) {
	if len(in.ServiceTrips) > math.MaxUint16 || len(in.MaintenanceSlots) > math.MaxUint16 || len(in.Depots) > math.MaxUint16 {
		return nil, errors.New("transport: node count exceeds 16-bit index space")
	}

	locs := make(map[uint32]network.Location, len(in.Locations))
	for _, l := range in.Locations {
		if _, dup := locs[l.ID]; dup {
			return nil, errors.Errorf("transport: duplicate location id %d", l.ID)
		}
		locs[l.ID] = network.NewLocation(ids.LocationId(l.ID), network.SideEither)
	}
	locOf := func(id uint32) (network.Location, error) {
		l, ok := locs[id]
		if !ok {
			return network.Nowhere, errors.Wrapf(network.ErrUnknownLocation, "location %d", id)
		}
		return l, nil
	}

	// deadheads holds the location-level connections; node-level arcs are
	// derived below by looking up each node pair's locations. A pair sharing
	// one location connects with zero cost unless the input overrides it.
	type dh struct {
		distance xtime.Distance
		duration xtime.Duration
	}
	deadheads := make(map[[2]uint32]dh, len(in.DeadHeadTrips))
	for _, t := range in.DeadHeadTrips {
		deadheads[[2]uint32{t.From, t.To}] = dh{distance: xtime.Meters(t.Distance), duration: xtime.Seconds(t.Duration)}
	}
	connection := func(from, to uint32) (dh, bool) {
		if d, ok := deadheads[[2]uint32{from, to}]; ok {
			return d, true
		}
		if from == to {
			return dh{distance: xtime.Meters(0), duration: xtime.Seconds(0)}, true
		}
		return dh{}, false
	}

	inst := &Instance{
		Config:    in.Config,
		InputIDs:  make(map[ids.NodeId]uint32),
		DepotByID: make(map[ids.DepotId]DepotInput, len(in.Depots)),
	}

	var opts []network.Option

	// nodeLoc records each node's location id so arc derivation below can
	// walk every ordered node pair once.
	nodeLoc := make(map[ids.NodeId]uint32)

	for i, trip := range in.ServiceTrips {
		node := ids.NewNodeId(ids.Service, uint16(i))
		loc, err := locOf(trip.Destination)
		if err != nil {
			return nil, errors.Wrapf(err, "service trip %d", trip.ID)
		}
		if _, err := locOf(trip.Origin); err != nil {
			return nil, errors.Wrapf(err, "service trip %d", trip.ID)
		}
		vt := ids.VehicleTypeId(trip.VehicleType)
		opts = append(opts,
			network.WithNode(network.NewServiceNode(node, loc,
				xtime.DateTime(trip.Departure), xtime.DateTime(trip.Arrival), trip.Demand, []ids.VehicleTypeId{vt})),
			network.WithVehicleType(node, vt),
		)
		inst.InputIDs[node] = trip.ID
		// A service trip occupies its origin at departure and its destination
		// at arrival; dead-heads out of it leave from the destination.
		nodeLoc[node] = trip.Destination
	}

	for i, slot := range in.MaintenanceSlots {
		node := ids.NewNodeId(ids.Maintenance, uint16(i))
		loc, err := locOf(slot.Location)
		if err != nil {
			return nil, errors.Wrapf(err, "maintenance slot %d", slot.ID)
		}
		opts = append(opts,
			network.WithNode(network.NewMaintenanceNode(node, loc,
				xtime.DateTime(slot.Start), xtime.DateTime(slot.End), nil)),
			network.WithCapacity(node, slot.TrackCount),
		)
		inst.InputIDs[node] = slot.ID
		nodeLoc[node] = slot.Location
	}

	for i, depot := range in.Depots {
		start := ids.NewNodeId(ids.StartDepot, uint16(i))
		end := ids.NewNodeId(ids.EndDepot, uint16(i))
		loc, err := locOf(depot.Location)
		if err != nil {
			return nil, errors.Wrapf(err, "depot %d", depot.ID)
		}
		depotID := ids.DepotId(depot.ID)
		allowed := make([]ids.VehicleTypeId, len(depot.AllowedTypes))
		for j, t := range depot.AllowedTypes {
			allowed[j] = ids.VehicleTypeId(t)
		}
		opts = append(opts,
			network.WithNode(network.NewDepotNode(start, loc, depotID, 0, 0)),
			network.WithNode(network.NewDepotNode(end, loc, depotID, 0, 0)),
			network.WithDepot(depotID, start, end, depot.Capacity, allowed),
		)
		inst.InputIDs[start] = depot.ID
		inst.InputIDs[end] = depot.ID
		inst.DepotByID[depotID] = depot
		nodeLoc[start] = depot.Location
		nodeLoc[end] = depot.Location
	}

	// Derive node-level arcs from location-level dead-heads. Arcs only run
	// forward through a tour's shape: out of start depots, services and
	// maintenance slots; into services, maintenance slots and end depots.
	for from, fromLoc := range nodeLoc {
		if from.Kind == ids.EndDepot {
			continue
		}
		// Service nodes depart from their origin location, not destination —
		// but for arcs out of a service node, the vehicle sits at the trip's
		// destination. fromLoc already records the departure point of the
		// next movement for every kind.
		for to, toLoc := range nodeLoc {
			if from == to || to.Kind == ids.StartDepot {
				continue
			}
			if from.Kind == ids.StartDepot && to.Kind == ids.EndDepot {
				// direct start->end arcs only within the same depot, so an
				// emptied vehicle can close its tour without detouring.
				if from.Index != to.Index {
					continue
				}
			}
			arrival := toLoc
			if to.Kind == ids.Service {
				// arcs into a service node reach its origin.
				arrival = in.ServiceTrips[to.Index].Origin
			}
			if conn, ok := connection(fromLoc, arrival); ok {
				opts = append(opts, network.WithArc(from, to, conn.distance, conn.duration))
			}
		}
	}

	types := &Catalogue{byID: make(map[ids.VehicleTypeId]VehicleTypeInput, len(in.VehicleTypes))}
	for _, vt := range in.VehicleTypes {
		if _, dup := types.byID[ids.VehicleTypeId(vt.ID)]; dup {
			return nil, errors.Errorf("transport: duplicate vehicle type id %d", vt.ID)
		}
		types.byID[ids.VehicleTypeId(vt.ID)] = vt
	}
	inst.Types = types

	inst.Net = network.New(opts...)
	return inst, nil
}
