// Package construct builds the seed Schedule a solve run starts local search
// from. Construction heuristics are described only by the output they must
// hand to the core: a Schedule that covers every service trip, however
// wastefully.
package construct

import (
	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/network"
	"github.com/katalvlaran/rssched/schedule"
)

// SeedBuilder produces an initial Schedule for a network. OneVehiclePerTrip
// is the only concrete implementation carried here; a min-cost-flow-based
// builder (assigning vehicles to trips via network flow rather than one
// vehicle per trip) is a legitimate alternative implementation of this same
// interface, but its solver is an external collaborator outside this
// module's scope — callers wire in their own SeedBuilder if they have one.
type SeedBuilder interface {
	Seed(net *network.Network) (*schedule.Schedule, error)
}

// OneVehiclePerTrip is the simplest possible SeedBuilder: for every service
// trip, keep spawning a brand-new vehicle carrying just that trip until the
// trip's demand is met. Produces a valid but expensive seed — one vehicle per
// unit of demand on every service trip — for local search to then improve.
type OneVehiclePerTrip struct{}

// Seed implements SeedBuilder.
func (OneVehiclePerTrip) Seed(net *network.Network) (*schedule.Schedule, error) {
	s := schedule.Empty(net)

	for _, trip := range net.AllServiceNodes() {
		for !s.ServiceSatisfied(trip) {
			vtype, ok := net.VehicleTypeFor(trip)
			if !ok {
				vtype = 0
			}
			next, _, err := schedule.SpawnVehicleForPath(s, vtype, []ids.NodeId{trip})
			if err != nil {
				return nil, err
			}
			s = next
		}
	}

	return s, nil
}
