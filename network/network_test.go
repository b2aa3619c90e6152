package network_test

import (
	"testing"

	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/network"
	"github.com/katalvlaran/rssched/xtime"
	"github.com/stretchr/testify/require"
)

func simpleNetwork() *network.Network {
	start := ids.NewNodeId(ids.StartDepot, 0)
	svc := ids.NewNodeId(ids.Service, 0)
	end := ids.NewNodeId(ids.EndDepot, 0)
	loc := network.NewLocation(ids.LocationId(1), network.SideEither)
	depotID := ids.DepotId(1)

	return network.New(
		network.WithNode(network.NewDepotNode(start, loc, depotID, 0, 0)),
		network.WithNode(network.NewServiceNode(svc, loc, 100, 200, 1, []ids.VehicleTypeId{1})),
		network.WithNode(network.NewDepotNode(end, loc, depotID, 0, 0)),
		network.WithArc(start, svc, xtime.Meters(10), xtime.Seconds(50)),
		network.WithArc(svc, end, xtime.Meters(20), xtime.Seconds(30)),
		network.WithVehicleType(svc, ids.VehicleTypeId(1)),
		network.WithDepot(depotID, start, end, 5, []ids.VehicleTypeId{1}),
	)
}

func TestCanFollowRespectsTiming(t *testing.T) {
	n := simpleNetwork()
	start := ids.NewNodeId(ids.StartDepot, 0)
	svc := ids.NewNodeId(ids.Service, 0)
	end := ids.NewNodeId(ids.EndDepot, 0)

	require.True(t, n.CanFollow(start, svc))
	require.True(t, n.CanFollow(svc, end))
	require.False(t, n.CanFollow(end, start))
}

func TestSuccessorsOrderedByStartTime(t *testing.T) {
	n := simpleNetwork()
	start := ids.NewNodeId(ids.StartDepot, 0)
	succ := n.Successors(start)
	require.Len(t, succ, 1)
	require.Equal(t, ids.NewNodeId(ids.Service, 0), succ[0])
}

func TestVehicleTypeForIsTotalOnServiceNodes(t *testing.T) {
	n := simpleNetwork()
	svc := ids.NewNodeId(ids.Service, 0)
	vt, ok := n.VehicleTypeFor(svc)
	require.True(t, ok)
	require.Equal(t, ids.VehicleTypeId(1), vt)
}

func TestDistanceMissingArcIsInfinite(t *testing.T) {
	n := simpleNetwork()
	end := ids.NewNodeId(ids.EndDepot, 0)
	start := ids.NewNodeId(ids.StartDepot, 0)
	require.True(t, n.Distance(end, start).IsInfinite())
}
