// Package network defines the immutable directed graph of nodes (start
// depots, service trips, maintenance slots, end depots) the scheduling core
// runs against. A Network is built once by New and never mutated afterward;
// every schedule in a solve run shares the same Network by reference.
//
// This file declares Location, StationSide, Node, and sentinel errors; the
// Network type and its functional Option constructors live in network.go.
package network

import (
	"errors"

	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/xtime"
)

// Sentinel errors for network construction and lookup.
var (
	// ErrUnknownNode indicates a query referenced a NodeId absent from the network.
	ErrUnknownNode = errors.New("network: unknown node")

	// ErrUnknownLocation indicates a reference to a LocationId with no matching Location.
	ErrUnknownLocation = errors.New("network: unknown location")

	// ErrUnknownVehicleType indicates a service node has no vehicle-type assignment.
	ErrUnknownVehicleType = errors.New("network: service node has no vehicle type")

	// ErrDuplicateNode indicates two nodes were registered under the same NodeId.
	ErrDuplicateNode = errors.New("network: duplicate node id")

	// ErrNoArc indicates distance/duration was requested for a pair with no arc.
	ErrNoArc = errors.New("network: no arc between nodes")
)

// StationSide governs how a vehicle may arrive at or depart from a concrete
// station — some stations only permit approach from one side of a platform,
// which constrains which dead-head arcs are legal.
type StationSide uint8

const (
	// SideEither permits arrival and departure from either side.
	SideEither StationSide = iota
	// SideA restricts to platform side A.
	SideA
	// SideB restricts to platform side B.
	SideB
)

// Location is either a concrete station, with a StationSide arrival/departure
// policy, or Nowhere. Distance to/from Nowhere is always Infinite.
type Location struct {
	id       ids.LocationId
	isNowhere bool
	side     StationSide
}

// Nowhere is the sentinel Location: distance to or from it is Infinite.
var Nowhere = Location{isNowhere: true}

// NewLocation constructs a concrete station Location.
func NewLocation(id ids.LocationId, side StationSide) Location {
	return Location{id: id, side: side}
}

// ID returns the location's identifier. Calling it on Nowhere returns the
// zero LocationId, which callers must guard with IsNowhere.
func (l Location) ID() ids.LocationId { return l.id }

// IsNowhere reports whether l is the Nowhere sentinel.
func (l Location) IsNowhere() bool { return l.isNowhere }

// Side returns the station's arrival/departure policy.
func (l Location) Side() StationSide { return l.side }

// Node is one vertex of the network: a start depot, a service trip, a
// maintenance slot, or an end depot, tagged by its NodeId's Kind.
type Node struct {
	id       ids.NodeId
	location Location

	// start and end bound the node's occupancy window. For depots this is
	// the depot's operating window; for service/maintenance nodes, the trip
	// or slot's own start and end.
	start xtime.DateTime
	end   xtime.DateTime

	// demand is the passenger demand of a service node; zero for non-service
	// nodes.
	demand int

	// compatibleTypes lists the vehicle types allowed to cover this node.
	// For service nodes this is the compatibility set from the input; for
	// maintenance nodes, the types that may use the maintenance slot; for
	// depots, empty (depots don't discriminate by type directly — capacity
	// and allowed_types live on the depot record instead).
	compatibleTypes []ids.VehicleTypeId

	// depot is set for StartDepot/EndDepot nodes only.
	depot ids.DepotId
}

// ID returns the node's tagged identifier.
func (n Node) ID() ids.NodeId { return n.id }

// Location returns the station (or Nowhere) at which the node sits.
func (n Node) Location() Location { return n.location }

// Start returns the node's occupancy start time.
func (n Node) Start() xtime.DateTime { return n.start }

// End returns the node's occupancy end time.
func (n Node) End() xtime.DateTime { return n.end }

// Demand returns passenger demand; zero for non-service nodes.
func (n Node) Demand() int { return n.demand }

// Depot returns the depot a StartDepot/EndDepot node belongs to.
func (n Node) Depot() ids.DepotId { return n.depot }

// CompatibleWith reports whether vehicle type t may cover this node. A node
// with no compatibility set at all (as maintenance slots are in the input
// schema, which scopes them only by location, start, end and track count —
// never by vehicle type) is compatible with every type.
func (n Node) CompatibleWith(t ids.VehicleTypeId) bool {
	if len(n.compatibleTypes) == 0 {
		return true
	}
	for _, c := range n.compatibleTypes {
		if c == t {
			return true
		}
	}
	return false
}

// arcKey identifies a directed dead-head arc between two nodes.
type arcKey struct {
	from ids.NodeId
	to   ids.NodeId
}

// arc carries the dead-head cost and travel duration of one directed
// connection.
type arc struct {
	distance xtime.Distance
	duration xtime.Duration
}

// depotPair records the StartDepot/EndDepot node pair and capacity of one
// physical depot.
type depotPair struct {
	id      ids.DepotId
	start   ids.NodeId
	end     ids.NodeId
	capacity int
	allowed []ids.VehicleTypeId
}

// NewDepotNode constructs a StartDepot or EndDepot node. id.Kind must be
// ids.StartDepot or ids.EndDepot.
func NewDepotNode(id ids.NodeId, loc Location, depot ids.DepotId, start, end xtime.DateTime) Node {
	return Node{id: id, location: loc, depot: depot, start: start, end: end}
}

// NewServiceNode constructs a Service node carrying passenger demand and a
// vehicle-type compatibility set.
func NewServiceNode(id ids.NodeId, loc Location, start, end xtime.DateTime, demand int, compatible []ids.VehicleTypeId) Node {
	return Node{id: id, location: loc, start: start, end: end, demand: demand, compatibleTypes: compatible}
}

// NewMaintenanceNode constructs a Maintenance node with a vehicle-type
// compatibility set (the types permitted to use the slot).
func NewMaintenanceNode(id ids.NodeId, loc Location, start, end xtime.DateTime, compatible []ids.VehicleTypeId) Node {
	return Node{id: id, location: loc, start: start, end: end, compatibleTypes: compatible}
}
