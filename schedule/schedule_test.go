package schedule_test

import (
	"testing"

	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/network"
	"github.com/katalvlaran/rssched/schedule"
	"github.com/katalvlaran/rssched/xtime"
	"github.com/stretchr/testify/require"
)

func oneServiceNetwork() *network.Network {
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

func TestEmptyScheduleHasNoVehicles(t *testing.T) {
	net := oneServiceNetwork()
	s := schedule.Empty(net)
	require.Equal(t, 0, s.VehicleCount())
	require.Equal(t, 0, s.DummyTourCount())
}

func TestSpawnVehicleForPathCoversService(t *testing.T) {
	net := oneServiceNetwork()
	s := schedule.Empty(net)
	svc := ids.NewNodeId(ids.Service, 0)

	next, v, err := schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc})
	require.NoError(t, err)
	require.Equal(t, 1, next.VehicleCount())

	veh, ok := next.Vehicle(v)
	require.True(t, ok)
	require.Equal(t, 3, veh.Tour.Len())
	require.True(t, next.ServiceSatisfied(svc))
	require.Equal(t, []ids.VehicleId{v}, next.Formation(svc))
}

func TestSpawnVehicleIncompatibleType(t *testing.T) {
	net := oneServiceNetwork()
	s := schedule.Empty(net)
	svc := ids.NewNodeId(ids.Service, 0)

	_, _, err := schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(99), []ids.NodeId{svc})
	require.Error(t, err)
}

func TestUnservedPassengersWhenEmpty(t *testing.T) {
	net := oneServiceNetwork()
	s := schedule.Empty(net)
	require.Equal(t, 1, s.UnservedPassengers())
}

func TestRemoveSegmentRejectsDepotEndpoint(t *testing.T) {
	net := oneServiceNetwork()
	s := schedule.Empty(net)
	svc := ids.NewNodeId(ids.Service, 0)
	next, v, err := schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc})
	require.NoError(t, err)

	_, err = schedule.RemoveSegment(next, v, 0, 0)
	require.Error(t, err)
}

func TestImproveDepotIsIdempotent(t *testing.T) {
	net := oneServiceNetwork()
	s := schedule.Empty(net)
	svc := ids.NewNodeId(ids.Service, 0)
	next, v, err := schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc})
	require.NoError(t, err)

	once, err := schedule.ImproveDepot(next, v)
	require.NoError(t, err)
	twice, err := schedule.ImproveDepot(once, v)
	require.NoError(t, err)

	vehOnce, _ := once.Vehicle(v)
	vehTwice, _ := twice.Vehicle(v)
	require.Equal(t, vehOnce.Tour.Nodes(), vehTwice.Tour.Nodes())
}

func TestDefaultObjectiveEmptyNetworkIsAllZero(t *testing.T) {
	net := network.New() // no nodes, no services
	s := schedule.Empty(net)
	obj := schedule.DefaultObjective(schedule.CostRates{})
	value := obj.Evaluate(s)
	for i := 0; i < value.Len(); i++ {
		require.Equal(t, "0", value.At(i).String())
	}
}

func TestDefaultObjectiveOneServiceOneVehicle(t *testing.T) {
	net := oneServiceNetwork()
	s := schedule.Empty(net)
	svc := ids.NewNodeId(ids.Service, 0)
	next, _, err := schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc})
	require.NoError(t, err)

	obj := schedule.DefaultObjective(schedule.CostRates{})
	value := obj.Evaluate(next)
	require.Equal(t, "0", value.At(0).String()) // maintenanceViolation
	require.Equal(t, "0", value.At(1).String()) // unservedPassengers
	require.Equal(t, "1", value.At(2).String()) // vehicleCount
	require.Equal(t, "30", value.At(3).String()) // costs: 10m + 20m deadhead
}

func twoServicesChainNetwork() *network.Network {
	start := ids.NewNodeId(ids.StartDepot, 0)
	svc1 := ids.NewNodeId(ids.Service, 0)
	svc2 := ids.NewNodeId(ids.Service, 1)
	end := ids.NewNodeId(ids.EndDepot, 0)
	loc := network.NewLocation(ids.LocationId(1), network.SideEither)
	depotID := ids.DepotId(1)

	return network.New(
		network.WithNode(network.NewDepotNode(start, loc, depotID, 0, 0)),
		network.WithNode(network.NewServiceNode(svc1, loc, 100, 200, 1, []ids.VehicleTypeId{1})),
		network.WithNode(network.NewServiceNode(svc2, loc, 300, 400, 1, []ids.VehicleTypeId{1})),
		network.WithNode(network.NewDepotNode(end, loc, depotID, 0, 0)),
		network.WithArc(start, svc1, xtime.Meters(10), xtime.Seconds(50)),
		network.WithArc(start, svc2, xtime.Meters(10), xtime.Seconds(50)),
		network.WithArc(svc1, svc2, xtime.Meters(5), xtime.Seconds(50)),
		network.WithArc(svc1, end, xtime.Meters(15), xtime.Seconds(30)),
		network.WithArc(svc2, end, xtime.Meters(20), xtime.Seconds(30)),
		network.WithVehicleType(svc1, ids.VehicleTypeId(1)),
		network.WithVehicleType(svc2, ids.VehicleTypeId(1)),
		network.WithDepot(depotID, start, end, 5, []ids.VehicleTypeId{1}),
	)
}

func TestRemoveSegmentRetiresVehicleWhenTourEmpties(t *testing.T) {
	net := oneServiceNetwork()
	s := schedule.Empty(net)
	svc := ids.NewNodeId(ids.Service, 0)
	next, v, err := schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc})
	require.NoError(t, err)

	removed, err := schedule.RemoveSegment(next, v, 1, 1)
	require.NoError(t, err)
	require.Equal(t, 0, removed.VehicleCount())
	require.Empty(t, removed.Formation(svc))

	// the original schedule is untouched: copy-on-write, not mutation.
	require.Equal(t, 1, next.VehicleCount())
}

func TestRemoveThenAddRoundTrip(t *testing.T) {
	net := twoServicesChainNetwork()
	s := schedule.Empty(net)
	svc1 := ids.NewNodeId(ids.Service, 0)
	svc2 := ids.NewNodeId(ids.Service, 1)
	original, v, err := schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc1, svc2})
	require.NoError(t, err)

	removed, err := schedule.RemoveSegment(original, v, 2, 2)
	require.NoError(t, err)
	restored, conflict, err := schedule.AddPathToVehicleTour(removed, v, []ids.NodeId{svc2})
	require.NoError(t, err)
	require.Nil(t, conflict)

	origVeh, _ := original.Vehicle(v)
	restVeh, _ := restored.Vehicle(v)
	require.Equal(t, origVeh.Tour.Nodes(), restVeh.Tour.Nodes())
}

func TestReassignAllRetiresSourceVehicle(t *testing.T) {
	net := twoServicesChainNetwork()
	s := schedule.Empty(net)
	svc1 := ids.NewNodeId(ids.Service, 0)
	svc2 := ids.NewNodeId(ids.Service, 1)

	s, v1, err := schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc1})
	require.NoError(t, err)
	s, v2, err := schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc2})
	require.NoError(t, err)

	merged, conflict, err := schedule.ReassignAll(s, v2, v1)
	require.NoError(t, err)
	require.Nil(t, conflict)
	require.Equal(t, 1, merged.VehicleCount())
	require.Equal(t, []ids.VehicleId{v1}, merged.Formation(svc1))
	require.Equal(t, []ids.VehicleId{v1}, merged.Formation(svc2))
}

// capacityOneNetwork has a single depot with room for exactly one vehicle
// and two independently coverable services, so a second spawn must exhaust
// the depot.
func capacityOneNetwork() *network.Network {
	start := ids.NewNodeId(ids.StartDepot, 0)
	svc1 := ids.NewNodeId(ids.Service, 0)
	svc2 := ids.NewNodeId(ids.Service, 1)
	end := ids.NewNodeId(ids.EndDepot, 0)
	loc := network.NewLocation(ids.LocationId(1), network.SideEither)
	depotID := ids.DepotId(1)

	return network.New(
		network.WithNode(network.NewDepotNode(start, loc, depotID, 0, 0)),
		network.WithNode(network.NewServiceNode(svc1, loc, 100, 200, 1, []ids.VehicleTypeId{1})),
		network.WithNode(network.NewServiceNode(svc2, loc, 300, 400, 1, []ids.VehicleTypeId{1})),
		network.WithNode(network.NewDepotNode(end, loc, depotID, 0, 0)),
		network.WithArc(start, svc1, xtime.Meters(10), xtime.Seconds(50)),
		network.WithArc(start, svc2, xtime.Meters(10), xtime.Seconds(50)),
		network.WithArc(svc1, end, xtime.Meters(15), xtime.Seconds(30)),
		network.WithArc(svc2, end, xtime.Meters(20), xtime.Seconds(30)),
		network.WithVehicleType(svc1, ids.VehicleTypeId(1)),
		network.WithVehicleType(svc2, ids.VehicleTypeId(1)),
		network.WithDepot(depotID, start, end, 1, []ids.VehicleTypeId{1}),
	)
}

func TestSpawnRejectsDepotAtCapacity(t *testing.T) {
	net := capacityOneNetwork()
	s := schedule.Empty(net)
	svc1 := ids.NewNodeId(ids.Service, 0)
	svc2 := ids.NewNodeId(ids.Service, 1)

	s, _, err := schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc1})
	require.NoError(t, err)

	_, _, err = schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc2})
	require.Error(t, err)
	var editErr *schedule.EditError
	require.ErrorAs(t, err, &editErr)
	require.Equal(t, schedule.DepotFull, editErr.Kind)
}

func TestSpawnReusesSlotFreedByRetirement(t *testing.T) {
	net := capacityOneNetwork()
	s := schedule.Empty(net)
	svc1 := ids.NewNodeId(ids.Service, 0)
	svc2 := ids.NewNodeId(ids.Service, 1)

	s, v, err := schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc1})
	require.NoError(t, err)
	s, err = schedule.RemoveSegment(s, v, 1, 1)
	require.NoError(t, err)

	// the retired vehicle released its depot slot, so the spawn fits again.
	_, _, err = schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc2})
	require.NoError(t, err)
}

func TestImproveDepotKeepsSlotAtFullDepot(t *testing.T) {
	net := capacityOneNetwork()
	s := schedule.Empty(net)
	svc1 := ids.NewNodeId(ids.Service, 0)

	s, v, err := schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc1})
	require.NoError(t, err)

	// The depot is full, but only with this vehicle's own slot — improving
	// its depot must not report exhaustion.
	improved, err := schedule.ImproveDepot(s, v)
	require.NoError(t, err)
	veh, _ := improved.Vehicle(v)
	require.Equal(t, ids.NewNodeId(ids.StartDepot, 0), veh.Tour.StartDepot())
}
