package construct_test

import (
	"testing"

	"github.com/katalvlaran/rssched/construct"
	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/network"
	"github.com/katalvlaran/rssched/xtime"
	"github.com/stretchr/testify/require"
)

func oneServiceDemandTwoNetwork() *network.Network {
	start := ids.NewNodeId(ids.StartDepot, 0)
	svc := ids.NewNodeId(ids.Service, 0)
	end := ids.NewNodeId(ids.EndDepot, 0)
	loc := network.NewLocation(ids.LocationId(1), network.SideEither)
	depotID := ids.DepotId(1)

	return network.New(
		network.WithNode(network.NewDepotNode(start, loc, depotID, 0, 0)),
		network.WithNode(network.NewServiceNode(svc, loc, 100, 200, 2, []ids.VehicleTypeId{1})),
		network.WithNode(network.NewDepotNode(end, loc, depotID, 0, 0)),
		network.WithArc(start, svc, xtime.Meters(10), xtime.Seconds(50)),
		network.WithArc(svc, end, xtime.Meters(20), xtime.Seconds(30)),
		network.WithVehicleType(svc, ids.VehicleTypeId(1)),
		network.WithDepot(depotID, start, end, 5, []ids.VehicleTypeId{1}),
	)
}

func TestOneVehiclePerTripCoversEveryServiceNode(t *testing.T) {
	net := oneServiceDemandTwoNetwork()
	s, err := construct.OneVehiclePerTrip{}.Seed(net)
	require.NoError(t, err)

	svc := ids.NewNodeId(ids.Service, 0)
	require.True(t, s.ServiceSatisfied(svc))
	require.Equal(t, 2, s.VehicleCount())
	require.Equal(t, 0, s.UnservedPassengers())
}

func TestOneVehiclePerTripEmptyNetworkProducesEmptySchedule(t *testing.T) {
	net := network.New()
	s, err := construct.OneVehiclePerTrip{}.Seed(net)
	require.NoError(t, err)
	require.Equal(t, 0, s.VehicleCount())
}
