package neighborhood_test

import (
	"testing"

	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/neighborhood"
	"github.com/katalvlaran/rssched/network"
	"github.com/katalvlaran/rssched/schedule"
	"github.com/katalvlaran/rssched/xtime"
	"github.com/stretchr/testify/require"
)

// twoServiceNetwork builds two non-overlapping services coverable by one
// vehicle — the case segment exchange is meant to discover.
func twoServiceNetwork() *network.Network {
	start := ids.NewNodeId(ids.StartDepot, 0)
	svc1 := ids.NewNodeId(ids.Service, 0)
	svc2 := ids.NewNodeId(ids.Service, 1)
	end := ids.NewNodeId(ids.EndDepot, 0)
	loc := network.NewLocation(ids.LocationId(1), network.SideEither)
	depotID := ids.DepotId(1)
	vt := ids.VehicleTypeId(1)

	return network.New(
		network.WithNode(network.NewDepotNode(start, loc, depotID, 0, 0)),
		network.WithNode(network.NewServiceNode(svc1, loc, 100, 200, 1, []ids.VehicleTypeId{vt})),
		network.WithNode(network.NewServiceNode(svc2, loc, 300, 400, 1, []ids.VehicleTypeId{vt})),
		network.WithNode(network.NewDepotNode(end, loc, depotID, 0, 0)),
		network.WithArc(start, svc1, xtime.Meters(10), xtime.Seconds(50)),
		network.WithArc(start, svc2, xtime.Meters(10), xtime.Seconds(50)),
		network.WithArc(start, end, xtime.Meters(1), xtime.Seconds(1)),
		network.WithArc(svc1, svc2, xtime.Meters(5), xtime.Seconds(50)),
		network.WithArc(svc1, end, xtime.Meters(20), xtime.Seconds(30)),
		network.WithArc(svc2, end, xtime.Meters(20), xtime.Seconds(30)),
		network.WithVehicleType(svc1, vt),
		network.WithVehicleType(svc2, vt),
		network.WithDepot(depotID, start, end, 5, []ids.VehicleTypeId{vt}),
	)
}

func TestSingleNodeAddRemoveProducesCandidates(t *testing.T) {
	net := twoServiceNetwork()
	s := schedule.Empty(net)
	svc1 := ids.NewNodeId(ids.Service, 0)
	s, _, err := schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc1})
	require.NoError(t, err)

	nh := neighborhood.SingleNodeAddRemove{Pool: []ids.NodeId{ids.NewNodeId(ids.Service, 1)}, Config: neighborhood.Config{MaintenanceBudget: 0}}
	it := nh.NeighborsOf(s)

	count := 0
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		count++
	}
	require.Greater(t, count, 0)
}

func TestLimitedSegmentExchangeCanMergeTwoVehiclesIntoOne(t *testing.T) {
	net := twoServiceNetwork()
	s := schedule.Empty(net)
	svc1 := ids.NewNodeId(ids.Service, 0)
	svc2 := ids.NewNodeId(ids.Service, 1)

	s, _, err := schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc1})
	require.NoError(t, err)
	s, _, err = schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc2})
	require.NoError(t, err)
	require.Equal(t, 2, s.VehicleCount())

	nh := neighborhood.LimitedSegmentExchange{Config: neighborhood.Config{SegmentLimit: xtime.Seconds(1_000_000)}}
	it := nh.NeighborsOf(s)

	sharesVehicle := func(cand *schedule.Schedule) bool {
		f1 := cand.Formation(svc1)
		f2 := cand.Formation(svc2)
		if len(f1) != 1 || len(f2) != 1 {
			return false
		}
		return f1[0] == f2[0]
	}

	foundMerge := false
	for {
		cand, ok := it.Next()
		if !ok {
			break
		}
		if sharesVehicle(cand) {
			foundMerge = true
			break
		}
	}
	require.True(t, foundMerge, "segment exchange should discover a candidate where one vehicle covers both services")
}

// maintenanceConflictNetwork has two chained services and a maintenance slot
// that overlaps the second service: forcing the slot into the vehicle's tour
// displaces that service, which hitch-hiking must spawn into a new vehicle.
func maintenanceConflictNetwork() *network.Network {
	start := ids.NewNodeId(ids.StartDepot, 0)
	svc1 := ids.NewNodeId(ids.Service, 0)
	svc2 := ids.NewNodeId(ids.Service, 1)
	maint := ids.NewNodeId(ids.Maintenance, 0)
	end := ids.NewNodeId(ids.EndDepot, 0)
	loc := network.NewLocation(ids.LocationId(1), network.SideEither)
	depotID := ids.DepotId(1)
	vt := ids.VehicleTypeId(1)

	return network.New(
		network.WithNode(network.NewDepotNode(start, loc, depotID, 0, 0)),
		network.WithNode(network.NewServiceNode(svc1, loc, 100, 200, 1, []ids.VehicleTypeId{vt})),
		network.WithNode(network.NewServiceNode(svc2, loc, 300, 400, 1, []ids.VehicleTypeId{vt})),
		network.WithNode(network.NewMaintenanceNode(maint, loc, 300, 500, []ids.VehicleTypeId{vt})),
		network.WithNode(network.NewDepotNode(end, loc, depotID, 0, 0)),
		network.WithArc(start, svc1, xtime.Meters(10), xtime.Seconds(50)),
		network.WithArc(start, svc2, xtime.Meters(10), xtime.Seconds(50)),
		network.WithArc(svc1, svc2, xtime.Meters(5), xtime.Seconds(50)),
		network.WithArc(svc1, maint, xtime.Meters(5), xtime.Seconds(50)),
		network.WithArc(svc1, end, xtime.Meters(15), xtime.Seconds(30)),
		network.WithArc(svc2, end, xtime.Meters(20), xtime.Seconds(30)),
		network.WithArc(maint, end, xtime.Meters(20), xtime.Seconds(30)),
		network.WithVehicleType(svc1, vt),
		network.WithVehicleType(svc2, vt),
		network.WithDepot(depotID, start, end, 5, []ids.VehicleTypeId{vt}),
	)
}

func TestHitchHikingSpawnsConflictIntoNewVehicle(t *testing.T) {
	net := maintenanceConflictNetwork()
	s := schedule.Empty(net)
	svc1 := ids.NewNodeId(ids.Service, 0)
	svc2 := ids.NewNodeId(ids.Service, 1)
	maint := ids.NewNodeId(ids.Maintenance, 0)

	s, v, err := schedule.SpawnVehicleForPath(s, ids.VehicleTypeId(1), []ids.NodeId{svc1, svc2})
	require.NoError(t, err)
	require.Equal(t, 1, s.VehicleCount())

	nh := neighborhood.AddTripForHitchHiking{MaintenanceNode: maint, Config: neighborhood.Config{MaintenanceBudget: 1000}}
	it := nh.NeighborsOf(s)

	cand, ok := it.Next()
	require.True(t, ok, "hitch-hiking should produce a candidate")

	// The maintenance slot landed in the original vehicle's tour; the
	// displaced service rides in a freshly spawned vehicle. Both services
	// stay covered.
	require.Equal(t, 2, cand.VehicleCount())
	veh, found := cand.Vehicle(v)
	require.True(t, found)
	require.NotEqual(t, -1, veh.Tour.IndexOf(maint))
	require.Len(t, cand.Formation(svc1), 1)
	require.Len(t, cand.Formation(svc2), 1)
	require.NotEqual(t, cand.Formation(svc1), cand.Formation(svc2))
}
