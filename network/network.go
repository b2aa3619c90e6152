package network

import (
	"sort"

	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/xtime"
)

// Network is the immutable directed graph of nodes and dead-head arcs the
// scheduling core operates against. Built once by New and read-only
// afterward, so it carries no locks: there is nothing to race on once
// construction returns.
type Network struct {
	nodes        map[ids.NodeId]Node
	serviceOrder []ids.NodeId // all_service_nodes(), in ascending NodeId order
	arcs         map[arcKey]arc
	successors   map[ids.NodeId][]ids.NodeId // precomputed, start-time ascending
	vehicleType  map[ids.NodeId]ids.VehicleTypeId
	depots       map[ids.DepotId]depotPair
	capacity     map[ids.NodeId]int
}

// Option configures a Network during construction.
type Option func(*builder)

type builder struct {
	net *Network
}

// WithNode registers a node. Duplicate NodeIds are not rejected: a later
// WithNode with the same NodeId replaces the earlier node.
func WithNode(n Node) Option {
	return func(b *builder) { b.net.nodes[n.ID()] = n }
}

// WithArc registers a dead-head arc from one node to another with a fixed
// distance and duration.
func WithArc(from, to ids.NodeId, distance xtime.Distance, duration xtime.Duration) Option {
	return func(b *builder) { b.net.arcs[arcKey{from, to}] = arc{distance: distance, duration: duration} }
}

// WithVehicleType assigns the (total, on service nodes) vehicle type a
// service node requires.
func WithVehicleType(service ids.NodeId, t ids.VehicleTypeId) Option {
	return func(b *builder) { b.net.vehicleType[service] = t }
}

// WithDepot registers one physical depot's start/end node pair, capacity,
// and allowed vehicle types.
func WithDepot(id ids.DepotId, start, end ids.NodeId, capacity int, allowed []ids.VehicleTypeId) Option {
	return func(b *builder) {
		b.net.depots[id] = depotPair{id: id, start: start, end: end, capacity: capacity, allowed: allowed}
	}
}

// WithCapacity sets a node's concurrent-occupancy capacity (e.g. maintenance
// track count). Nodes without an explicit capacity default to 1.
func WithCapacity(n ids.NodeId, capacity int) Option {
	return func(b *builder) { b.net.capacity[n] = capacity }
}

// New builds an immutable Network from the given options. Successor lists
// are precomputed here, once, in start-time-ascending order with NodeId
// ordinal tiebreak, the order Successors promises.
func New(opts ...Option) *Network {
	b := &builder{net: &Network{
		nodes:       make(map[ids.NodeId]Node),
		arcs:        make(map[arcKey]arc),
		vehicleType: make(map[ids.NodeId]ids.VehicleTypeId),
		depots:      make(map[ids.DepotId]depotPair),
		capacity:    make(map[ids.NodeId]int),
	}}
	for _, opt := range opts {
		opt(b)
	}
	n := b.net

	for id, node := range n.nodes {
		if node.ID().Kind == ids.Service {
			n.serviceOrder = append(n.serviceOrder, id)
		}
	}
	sort.Slice(n.serviceOrder, func(i, j int) bool { return n.serviceOrder[i].Less(n.serviceOrder[j]) })

	n.successors = make(map[ids.NodeId][]ids.NodeId, len(n.nodes))
	for from := range n.nodes {
		var succ []ids.NodeId
		for key := range n.arcs {
			if key.from == from {
				succ = append(succ, key.to)
			}
		}
		sort.Slice(succ, func(i, j int) bool {
			ni, nj := n.nodes[succ[i]], n.nodes[succ[j]]
			if ni.Start() != nj.Start() {
				return ni.Start().Less(nj.Start())
			}
			return succ[i].Less(succ[j])
		})
		n.successors[from] = succ
	}

	return n
}

// Nodes returns every node in the network, in no particular order. Callers
// needing a stable order should sort by NodeId themselves.
func (n *Network) Nodes() []Node {
	out := make([]Node, 0, len(n.nodes))
	for _, node := range n.nodes {
		out = append(out, node)
	}
	return out
}

// AllServiceNodes returns every service node, in ascending NodeId order.
func (n *Network) AllServiceNodes() []ids.NodeId {
	out := make([]ids.NodeId, len(n.serviceOrder))
	copy(out, n.serviceOrder)
	return out
}

// Node looks up a node by id.
func (n *Network) Node(id ids.NodeId) (Node, bool) {
	node, ok := n.nodes[id]
	return node, ok
}

// Successors enumerates the nodes directly reachable from n via a dead-head
// arc, in start-time-ascending order with NodeId ordinal tiebreak.
func (n *Network) Successors(node ids.NodeId) []ids.NodeId {
	out := make([]ids.NodeId, len(n.successors[node]))
	copy(out, n.successors[node])
	return out
}

// CanFollow reports whether b may immediately follow a in a tour: an arc
// must exist, and — when b is a scheduled node — a's end-of-service plus
// travel duration must not exceed b's start. Depots carry no scheduled time
// of their own (the input schema gives a depot only id, location, capacity,
// and allowed types), so arriving at a depot is never late: only the arc's
// existence is checked for a depot destination.
func (n *Network) CanFollow(a, b ids.NodeId) bool {
	key := arcKey{a, b}
	arcInfo, ok := n.arcs[key]
	if !ok {
		return false
	}
	nodeA, okA := n.nodes[a]
	nodeB, okB := n.nodes[b]
	if !okA || !okB {
		return false
	}
	if b.IsDepot() {
		return true
	}
	return nodeA.End().Plus(arcInfo.duration) <= nodeB.Start()
}

// Distance returns the dead-head distance of the arc a->b, or Infinite if no
// such arc exists.
func (n *Network) Distance(a, b ids.NodeId) xtime.Distance {
	arcInfo, ok := n.arcs[arcKey{a, b}]
	if !ok {
		return xtime.Infinite
	}
	return arcInfo.distance
}

// Duration returns the dead-head travel duration of the arc a->b, zero if
// no such arc exists (callers must check Distance/CanFollow, not Duration
// alone, to detect a missing arc).
func (n *Network) Duration(a, b ids.NodeId) xtime.Duration {
	arcInfo, ok := n.arcs[arcKey{a, b}]
	if !ok {
		return 0
	}
	return arcInfo.duration
}

// VehicleTypeFor returns the vehicle type a service node requires. Total on
// service nodes; returns (0, false) for any non-service node.
func (n *Network) VehicleTypeFor(service ids.NodeId) (ids.VehicleTypeId, bool) {
	t, ok := n.vehicleType[service]
	return t, ok
}

// Capacity returns a node's concurrent-occupancy capacity, defaulting to 1
// when unset.
func (n *Network) Capacity(node ids.NodeId) int {
	if c, ok := n.capacity[node]; ok {
		return c
	}
	return 1
}

// DepotCapacity returns the capacity of a depot.
func (n *Network) DepotCapacity(id ids.DepotId) int {
	return n.depots[id].capacity
}

// DepotAllowedTypes returns the vehicle types a depot may house.
func (n *Network) DepotAllowedTypes(id ids.DepotId) []ids.VehicleTypeId {
	d := n.depots[id]
	out := make([]ids.VehicleTypeId, len(d.allowed))
	copy(out, d.allowed)
	return out
}

// DepotNodes returns the StartDepot/EndDepot node pair for a depot.
func (n *Network) DepotNodes(id ids.DepotId) (start, end ids.NodeId, ok bool) {
	d, present := n.depots[id]
	if !present {
		return ids.NodeId{}, ids.NodeId{}, false
	}
	return d.start, d.end, true
}

// Depots returns every registered depot id, in ascending order.
func (n *Network) Depots() []ids.DepotId {
	out := make([]ids.DepotId, 0, len(n.depots))
	for id := range n.depots {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
